// Package replace applies ordered regular-expression substitutions to
// minified output.
package replace

import (
	"fmt"
	"regexp"
	"strings"
)

// Replacement is one substitution. Replacement uses regexp.Expand syntax
// ($1, ${name}). Count limits the substitutions; zero means the default of
// one and a negative count replaces every match.
type Replacement struct {
	Pattern     string
	Replacement string
	Count       int
}

// NoMatchError lists the patterns that never matched.
type NoMatchError struct {
	Patterns []string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("found %d unused regex: %s", len(e.Patterns), strings.Join(e.Patterns, ", "))
}

// Compile checks that every pattern is a valid regular expression.
func Compile(reps []Replacement) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, len(reps))
	for i, r := range reps {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("replacement %d: %w", i+1, err)
		}
		out[i] = re
	}
	return out, nil
}

// Apply runs reps over text in order, each on the result of the previous
// one. With requireMatch set, patterns that replaced nothing are reported
// as a *NoMatchError after all replacements have run.
func Apply(text string, reps []Replacement, requireMatch bool) (string, error) {
	compiled, err := Compile(reps)
	if err != nil {
		return "", err
	}

	var unused []string
	for i, r := range reps {
		var n int
		text, n = replaceN(compiled[i], text, r.Replacement, limit(r.Count))
		if n == 0 && requireMatch {
			unused = append(unused, r.Pattern)
		}
	}
	if len(unused) > 0 {
		return text, &NoMatchError{Patterns: unused}
	}
	return text, nil
}

func limit(count int) int {
	switch {
	case count == 0:
		return 1
	case count < 0:
		return -1
	}
	return count
}

// replaceN replaces the first n matches (all when n < 0) and returns the
// number replaced.
func replaceN(re *regexp.Regexp, src, template string, n int) (string, int) {
	matches := re.FindAllStringSubmatchIndex(src, n)
	if len(matches) == 0 {
		return src, 0
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(src[last:m[0]])
		b.Write(re.ExpandString(nil, template, src, m))
		last = m[1]
	}
	b.WriteString(src[last:])
	return b.String(), len(matches)
}
