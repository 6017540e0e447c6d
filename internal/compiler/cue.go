package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
)

// CompileCUE converts a concrete CUE value into a raw rule tree that
// Normalize accepts: lists become []any, structs become map[string]any.
//
// The value is usually the rules field of a rule file:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`rules: [{find: "a", replace: "b"}]`)
//	raw, err := CompileCUE(v.LookupPath(cue.ParsePath("rules")))
func CompileCUE(v cue.Value) (any, error) {
	if !v.Exists() {
		return nil, &CompileError{
			Field:   "rules",
			Message: "rules is required",
			Pos:     v.Pos(),
		}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}
	return cueToAny(v)
}

func cueToAny(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return s, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return b, nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return int(n), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return f, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out := []any{}
		for iter.Next() {
			elem, err := cueToAny(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out := map[string]any{}
		for iter.Next() {
			field, err := cueToAny(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Label()] = field
		}
		return out, nil
	default:
		return nil, &CompileError{
			Field:   "rules",
			Message: fmt.Sprintf("unsupported value kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
