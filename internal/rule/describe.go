package rule

// Find and replace kinds reported by Describe.
const (
	KindNone    = "none"
	KindText    = "text"
	KindPattern = "pattern"
	KindFunc    = "func"
)

// funcDisplay is how callables appear in logs and serialized rules.
const funcDisplay = "<func>"

// Description is the serializable view of a Rule.
// Callables cannot be serialized, so they are reported by kind only.
type Description struct {
	Comment     string `json:"comment" yaml:"comment"`
	FindKind    string `json:"find_kind" yaml:"find_kind"`
	Find        string `json:"find" yaml:"find"`
	Flags       string `json:"flags,omitempty" yaml:"flags,omitempty"`
	ReplaceKind string `json:"replace_kind" yaml:"replace_kind"`
	Replace     string `json:"replace" yaml:"replace"`
	ForAll      bool   `json:"for_all" yaml:"for_all"`
}

// Describe returns the serializable view of r.
func Describe(r Rule) Description {
	d := Description{
		Comment:     r.Comment,
		FindKind:    KindNone,
		Find:        FindString(r.Find),
		ReplaceKind: KindText,
		Replace:     ReplaceString(r.Replace),
		ForAll:      r.ForAll,
	}

	switch f := r.Find.(type) {
	case Text:
		if f != "" {
			d.FindKind = KindText
		}
	case *Pattern:
		if f != nil {
			d.FindKind = KindPattern
			d.Find = f.Source()
			d.Flags = f.Flags()
		}
	case FindFunc:
		if f != nil {
			d.FindKind = KindFunc
		}
	}

	if _, ok := r.Replace.(ReplaceFunc); ok {
		d.ReplaceKind = KindFunc
	}
	return d
}

// Map returns the description as a plain object for canonical marshaling.
func (d Description) Map() map[string]any {
	return map[string]any{
		"comment":      d.Comment,
		"find_kind":    d.FindKind,
		"find":         d.Find,
		"flags":        d.Flags,
		"replace_kind": d.ReplaceKind,
		"replace":      d.Replace,
		"for_all":      d.ForAll,
	}
}

// FindString renders a find value the way it appears in log lines.
// Patterns render as /source/flags.
func FindString(f Find) string {
	switch v := f.(type) {
	case Text:
		return string(v)
	case *Pattern:
		if v == nil {
			return ""
		}
		return v.String()
	case FindFunc:
		if v == nil {
			return ""
		}
		return funcDisplay
	default:
		return ""
	}
}

// ReplaceString renders a replace value the way it appears in log lines.
func ReplaceString(r Replace) string {
	switch v := r.(type) {
	case Text:
		return string(v)
	case ReplaceFunc:
		return funcDisplay
	default:
		return ""
	}
}
