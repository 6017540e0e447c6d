package rule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// patternFlags lists the accepted pattern flags in canonical order.
const patternFlags = "dgimsu"

// Pattern is a compiled regular expression find value.
//
// Patterns use ECMAScript syntax. The g flag selects global substitution;
// i, m, s and u map to the matching regexp2 options; d is accepted for
// compatibility and has no effect on substitution.
type Pattern struct {
	source string
	flags  string
	re     *regexp2.Regexp
	slots  []captureSlot
}

// captureSlot maps an ECMAScript group position to a regexp2 group number.
type captureSlot struct {
	name string // "" for unnamed groups
	num  int
}

func (*Pattern) find() {}

// Compile builds a Pattern from source text and a flag string.
// Flags may appear in any order; unknown or repeated flags are an error.
// The sticky (y) and unicode-sets (v) flags are not supported.
func Compile(source, flags string) (*Pattern, error) {
	canonical, opts, err := parseFlags(flags)
	if err != nil {
		return nil, err
	}

	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern /%s/%s: %w", source, flags, err)
	}

	return &Pattern{source: source, flags: canonical, re: re, slots: captureSlots(source, re)}, nil
}

// MustCompile is like Compile but panics on error.
// Use only in tests or with constant patterns.
func MustCompile(source, flags string) *Pattern {
	p, err := Compile(source, flags)
	if err != nil {
		panic(err)
	}
	return p
}

func parseFlags(flags string) (string, regexp2.RegexOptions, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	var seen [len(patternFlags)]bool

	for _, c := range flags {
		idx := strings.IndexRune(patternFlags, c)
		if idx < 0 {
			return "", 0, fmt.Errorf("invalid pattern flag %q in %q", c, flags)
		}
		if seen[idx] {
			return "", 0, fmt.Errorf("duplicate pattern flag %q in %q", c, flags)
		}
		seen[idx] = true

		switch c {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u':
			opts |= regexp2.Unicode
		}
	}

	var canonical strings.Builder
	for i := range patternFlags {
		if seen[i] {
			canonical.WriteByte(patternFlags[i])
		}
	}
	return canonical.String(), opts, nil
}

// captureSlots lists capture groups in the order their opening parentheses
// appear in source, which is how ECMAScript numbers them. regexp2 numbers
// named groups after all unnamed ones.
func captureSlots(source string, re *regexp2.Regexp) []captureSlot {
	var slots []captureSlot
	unnamed := 0
	inClass := false

	for i := 0; i < len(source); i++ {
		switch c := source[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			if !strings.HasPrefix(source[i+1:], "?") {
				unnamed++
				slots = append(slots, captureSlot{num: unnamed})
				continue
			}
			rest := source[i+2:]
			if !strings.HasPrefix(rest, "<") || strings.HasPrefix(rest, "<=") || strings.HasPrefix(rest, "<!") {
				continue
			}
			if end := strings.IndexByte(rest, '>'); end > 1 {
				name := rest[1:end]
				slots = append(slots, captureSlot{name: name, num: re.GroupNumberFromName(name)})
			}
		}
	}

	if len(slots) == len(re.GetGroupNumbers())-1 && !hasMissingSlot(slots) {
		return slots
	}

	// Fall back to regexp2's own order when the scan disagrees with it.
	slots = slots[:0]
	for _, num := range re.GetGroupNumbers()[1:] {
		name := re.GroupNameFromNumber(num)
		if _, err := strconv.Atoi(name); err == nil {
			name = ""
		}
		slots = append(slots, captureSlot{name: name, num: num})
	}
	return slots
}

func hasMissingSlot(slots []captureSlot) bool {
	for _, s := range slots {
		if s.num < 0 {
			return true
		}
	}
	return false
}

// Source returns the pattern text without delimiters.
func (p *Pattern) Source() string { return p.source }

// Flags returns the pattern flags in canonical order.
func (p *Pattern) Flags() string { return p.flags }

// Global reports whether the pattern replaces every match.
func (p *Pattern) Global() bool { return strings.Contains(p.flags, "g") }

// String renders the pattern as /source/flags.
func (p *Pattern) String() string {
	return "/" + p.source + "/" + p.flags
}

// Replace substitutes the first match, or every match when the pattern is
// global. Text replacements follow ECMAScript substitution: $1 through $99,
// $<name>, $&, $$, $` and $' expand; any other $ sequence is copied as is.
// A ReplaceFunc is called once per match; the first error it returns stops
// the substitution and is returned unchanged.
func (p *Pattern) Replace(input string, r Replace) (string, error) {
	count := 1
	if p.Global() {
		count = -1
	}

	switch repl := r.(type) {
	case nil:
		return p.re.Replace(input, "", -1, count)
	case Text:
		runes := []rune(input)
		return p.re.ReplaceFunc(input, func(m regexp2.Match) string {
			var b strings.Builder
			expandTemplate(&b, string(repl), p.match(&m, input, runes),
				string(runes[:m.Index]), string(runes[m.Index+m.Length:]))
			return b.String()
		}, -1, count)
	case ReplaceFunc:
		runes := []rune(input)
		var callErr error
		out, err := p.re.ReplaceFunc(input, func(m regexp2.Match) string {
			if callErr != nil {
				return m.String()
			}
			s, err := repl(p.match(&m, input, runes))
			if err != nil {
				callErr = err
				return m.String()
			}
			return s
		}, -1, count)
		if callErr != nil {
			return "", callErr
		}
		return out, err
	default:
		return "", fmt.Errorf("unsupported replace type %T", r)
	}
}
