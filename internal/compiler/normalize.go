package compiler

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/roach88/replace-by-rule/internal/rule"
)

// Record is a programmatic rule entry. Find may be a string, rule.Text,
// *rule.Pattern, rule.FindFunc or a plain func with the FindFunc signature.
// Replace may be a string, rule.Text, rule.ReplaceFunc or a plain func with
// the ReplaceFunc signature.
type Record struct {
	Comment string
	Find    any
	Replace any
	ForAll  bool
}

// Normalize expands a raw rule tree into canonical rules.
//
// Entries are walked depth-first, left to right:
//   - a sequence is normalized recursively and spliced in place;
//   - a record (map, Record or rule.Rule) yields one rule;
//   - a string or falsy value starts a flat triple: it and the next two
//     positions are taken as comment, find and replace, whatever their
//     shape, and the walk advances by three.
//
// A rule.Rule is already canonical and passes through unchanged, so
// Normalize(Normalize(x)) equals Normalize(x).
func Normalize(raw any) ([]rule.Rule, error) {
	items, ok := asSequence(raw)
	if !ok {
		return nil, &InvalidRuleListError{Value: raw}
	}

	rules := []rule.Rule{}
	if err := normalizeSequence(items, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func normalizeSequence(items []any, out *[]rule.Rule) error {
	for i := 0; i < len(items); {
		item := items[i]

		if nested, ok := asSequence(item); ok {
			if err := normalizeSequence(nested, out); err != nil {
				return err
			}
			i++
			continue
		}

		if rec, ok := asRecord(item); ok {
			r, err := normalizeRecord(rec)
			if err != nil {
				return itemError(items, i, err)
			}
			*out = append(*out, r)
			i++
			continue
		}

		if _, ok := item.(string); ok || isFalsy(item) {
			rec := record{comment: item, find: at(items, i+1), replace: at(items, i+2)}
			r, err := normalizeRecord(rec)
			if err != nil {
				return itemError(items, i, err)
			}
			*out = append(*out, r)
			i += 3
			continue
		}

		return &InvalidRuleItemError{
			Item:    item,
			Context: items,
			Index:   i,
			Reason:  fmt.Sprintf("invalid rule type %T", item),
		}
	}
	return nil
}

// record is the untyped form of a single entry before classification.
type record struct {
	canonical *rule.Rule
	comment   any
	find      any
	replace   any
	forAll    any
}

// reasonError carries a failure reason up to the sequence walker, which
// wraps it with the item context.
type reasonError struct {
	reason string
	err    error
}

func (e *reasonError) Error() string { return e.reason }

func itemError(items []any, i int, err error) error {
	re, ok := err.(*reasonError)
	if !ok {
		return err
	}
	return &InvalidRuleItemError{
		Item:    items[i],
		Context: items,
		Index:   i,
		Reason:  re.reason,
		Err:     re.err,
	}
}

func normalizeRecord(rec record) (rule.Rule, error) {
	if rec.canonical != nil {
		return *rec.canonical, nil
	}

	comment, err := toComment(rec.comment)
	if err != nil {
		return rule.Rule{}, err
	}

	r := rule.Rule{Comment: comment, ForAll: isTruthy(rec.forAll)}

	find, text, err := toFind(rec.find)
	if err != nil {
		return rule.Rule{}, err
	}
	r.Find = find

	if text != "" {
		opts := ParseOptions(comment)
		global := r.ForAll || opts.All
		switch {
		case opts.Reg:
			p, err := rule.Compile(text, opts.PatternFlags(global))
			if err != nil {
				return rule.Rule{}, &reasonError{reason: "invalid @reg pattern", err: err}
			}
			r.Find = p
			r.ForAll = false
		case global:
			r.ForAll = true
		}
	} else if _, ok := r.Find.(rule.Text); !ok && r.Find != nil {
		// Patterns and callables carry their own iteration semantics.
		r.ForAll = false
	}

	r.Replace, err = toReplace(rec.replace)
	if err != nil {
		return rule.Rule{}, err
	}
	return r, nil
}

// toFind classifies a raw find value. text is non-empty only for a
// non-empty text find, which is the one case subject to annotations.
func toFind(v any) (find rule.Find, text string, err error) {
	if isFalsy(v) {
		switch v.(type) {
		case string, rule.Text:
			return rule.Text(""), "", nil
		}
		return nil, "", nil
	}

	switch f := v.(type) {
	case string:
		return rule.Text(f), f, nil
	case rule.Text:
		return f, string(f), nil
	case *rule.Pattern:
		return f, "", nil
	case rule.FindFunc:
		return f, "", nil
	case func(string, rule.Replace) (string, error):
		return rule.FindFunc(f), "", nil
	default:
		return nil, "", &reasonError{reason: fmt.Sprintf("invalid find value type %T", v)}
	}
}

func toReplace(v any) (rule.Replace, error) {
	if isFalsy(v) {
		return rule.Text(""), nil
	}

	switch r := v.(type) {
	case string:
		return rule.Text(r), nil
	case rule.Text:
		return r, nil
	case rule.ReplaceFunc:
		return r, nil
	case func(rule.Match) (string, error):
		return rule.ReplaceFunc(r), nil
	case bool:
		return rule.Text(strconv.FormatBool(r)), nil
	case int:
		return rule.Text(strconv.Itoa(r)), nil
	case int64:
		return rule.Text(strconv.FormatInt(r, 10)), nil
	case uint64:
		return rule.Text(strconv.FormatUint(r, 10)), nil
	case float64:
		return rule.Text(strconv.FormatFloat(r, 'f', -1, 64)), nil
	default:
		return nil, &reasonError{reason: fmt.Sprintf("invalid replace value type %T", v)}
	}
}

func toComment(v any) (string, error) {
	if isFalsy(v) {
		return "", nil
	}
	switch c := v.(type) {
	case string:
		return c, nil
	case rule.Text:
		return string(c), nil
	default:
		return "", &reasonError{reason: fmt.Sprintf("invalid comment type %T", v)}
	}
}

// asRecord recognizes structured entries.
func asRecord(v any) (record, bool) {
	switch r := v.(type) {
	case rule.Rule:
		return record{canonical: &r}, true
	case *rule.Rule:
		if r == nil {
			return record{}, false
		}
		return record{canonical: r}, true
	case Record:
		return record{comment: r.Comment, find: r.Find, replace: r.Replace, forAll: r.ForAll}, true
	case *Record:
		if r == nil {
			return record{}, false
		}
		return record{comment: r.Comment, find: r.Find, replace: r.Replace, forAll: r.ForAll}, true
	case map[string]any:
		return record{comment: r["comment"], find: r["find"], replace: r["replace"], forAll: r["forAll"]}, true
	default:
		return record{}, false
	}
}

// asSequence converts any slice or array into []any.
func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []rule.Rule:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []Record:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func at(items []any, i int) any {
	if i < len(items) {
		return items[i]
	}
	return nil
}

// isFalsy reports whether v counts as absent: nil, "", false or zero.
func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case rule.Text:
		return x == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case uint64:
		return x == 0
	case float64:
		return x == 0
	case rule.FindFunc:
		return x == nil
	case rule.ReplaceFunc:
		return x == nil
	case *rule.Pattern:
		return x == nil
	default:
		return false
	}
}

func isTruthy(v any) bool {
	return !isFalsy(v)
}
