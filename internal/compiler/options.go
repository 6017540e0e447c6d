package compiler

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Annotation scanners for rule comments. Tokens are case-sensitive and
// must end on a word boundary, so "@allx" and "@regular" do not match.
var (
	allAnnotation = regexp2.MustCompile(`@all\b`, regexp2.ECMAScript)
	regAnnotation = regexp2.MustCompile(`@reg\b(?:\s*\(\s*flags\s*=\s*([a-z]+)\s*\))?`, regexp2.ECMAScript)
)

// Options are the annotations found in a rule comment.
type Options struct {
	// All is set by @all: replace every occurrence.
	All bool

	// Reg is set by @reg: compile find as a pattern.
	Reg bool

	// Flags holds the letters of @reg(flags=...), or "" when absent.
	Flags string
}

// ParseOptions scans a comment for @all and @reg annotations.
//
//	ParseOptions("@all @reg( flags = i )") // Options{All: true, Reg: true, Flags: "i"}
func ParseOptions(comment string) Options {
	var opts Options

	if ok, err := allAnnotation.MatchString(comment); err == nil && ok {
		opts.All = true
	}

	m, err := regAnnotation.FindStringMatch(comment)
	if err != nil || m == nil {
		return opts
	}
	opts.Reg = true
	if g := m.GroupByNumber(1); g != nil && len(g.Captures) > 0 {
		opts.Flags = g.String()
	}
	return opts
}

// PatternFlags resolves the flags to compile with. Global intent appends
// "g" unless the captured flags already contain it.
func (o Options) PatternFlags(global bool) string {
	flags := o.Flags
	if global && !strings.Contains(flags, "g") {
		flags += "g"
	}
	return flags
}
