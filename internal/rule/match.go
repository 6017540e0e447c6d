package rule

import (
	"strings"
	"unicode/utf16"

	"github.com/dlclark/regexp2"
)

// Match is the argument passed to a ReplaceFunc.
type Match struct {
	// Text is the matched substring.
	Text string

	// Groups holds the numbered capture groups in order, starting at group 1.
	// A group that did not participate in the match is "".
	Groups []string

	// Named holds named capture groups. Nil when the pattern has none.
	Named map[string]string

	// Offset is the position of the match within Input in UTF-16 code
	// units, the unit JavaScript string indices use.
	Offset int

	// Input is the full subject text.
	Input string
}

func (p *Pattern) match(m *regexp2.Match, input string, runes []rune) Match {
	out := Match{
		Text:   m.String(),
		Offset: utf16Len(runes[:m.Index]),
		Input:  input,
	}

	for _, slot := range p.slots {
		val := ""
		if g := m.GroupByNumber(slot.num); g != nil && len(g.Captures) > 0 {
			val = g.String()
		}
		out.Groups = append(out.Groups, val)
		if slot.name == "" {
			continue
		}
		if out.Named == nil {
			out.Named = make(map[string]string)
		}
		out.Named[slot.name] = val
	}
	return out
}

func utf16Len(runes []rune) int {
	n := 0
	for _, r := range runes {
		n += utf16.RuneLen(r)
	}
	return n
}

// ReplaceText substitutes literal occurrences of find in input: the first
// one, or every non-overlapping one when all is set.
//
// Text replacements expand $&, $$, $` and $'. Group references are copied
// literally since a literal find has no capture groups.
func ReplaceText(input, find string, r Replace, all bool) (string, error) {
	if find == "" {
		return input, nil
	}

	var b strings.Builder
	last := 0
	for {
		idx := strings.Index(input[last:], find)
		if idx < 0 {
			break
		}
		start := last + idx
		end := start + len(find)

		b.WriteString(input[last:start])
		switch repl := r.(type) {
		case nil:
		case Text:
			expandTemplate(&b, string(repl), Match{Text: input[start:end]}, input[:start], input[end:])
		case ReplaceFunc:
			s, err := repl(Match{
				Text:   find,
				Offset: utf16Len([]rune(input[:start])),
				Input:  input,
			})
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		last = end

		if !all {
			break
		}
	}

	if last == 0 {
		return input, nil
	}
	b.WriteString(input[last:])
	return b.String(), nil
}

// expandTemplate writes tmpl to b with ECMAScript replacement patterns
// expanded against m. before and after are the input text on either side
// of the match.
func expandTemplate(b *strings.Builder, tmpl string, m Match, before, after string) {
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 == len(tmpl) {
			b.WriteByte(c)
			continue
		}

		switch next := tmpl[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(m.Text)
			i++
		case next == '`':
			b.WriteString(before)
			i++
		case next == '\'':
			b.WriteString(after)
			i++
		case next >= '0' && next <= '9':
			n, width := groupRef(tmpl[i+1:], len(m.Groups))
			if width == 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString(m.Groups[n-1])
			i += width
		case next == '<' && m.Named != nil:
			end := strings.IndexByte(tmpl[i+2:], '>')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString(m.Named[tmpl[i+2:i+2+end]])
			i += end + 2
		default:
			b.WriteByte(c)
		}
	}
}

// groupRef parses the one or two digit group number at the start of s.
// A two digit reference wins when it names an existing group. width is 0
// when s does not start with a valid reference.
func groupRef(s string, count int) (n, width int) {
	if len(s) >= 2 && s[1] >= '0' && s[1] <= '9' {
		if nn := int(s[0]-'0')*10 + int(s[1]-'0'); nn >= 1 && nn <= count {
			return nn, 2
		}
	}
	if d := int(s[0] - '0'); d >= 1 && d <= count {
		return d, 1
	}
	return 0, 0
}
