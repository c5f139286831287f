package cond

import (
	"regexp"
	"strings"
	"sync"

	"github.com/roach88/sift/internal/path"
	"github.com/roach88/sift/internal/value"
)

// parseCache memoizes parsed conditions by their exact input string.
// Parsing is cheap but repeated across every chain that reuses a
// condition; entries are pure functions of the key, so a racing
// LoadOrStore between goroutines is harmless.
var parseCache sync.Map // string → *Condition

// regexCache memoizes compiled patterns by pattern text, shared across
// all conditions.
var regexCache sync.Map // string → *regexp.Regexp

// Parse turns a raw condition string into a Condition, consulting the
// process-wide parse cache first. It never fails: malformed input yields
// the never-matching sentinel (Invalid set), so callers can filter with
// whatever they were given.
func Parse(raw string) *Condition {
	if c, ok := parseCache.Load(raw); ok {
		return c.(*Condition)
	}
	c := parse(raw)
	actual, _ := parseCache.LoadOrStore(raw, c)
	return actual.(*Condition)
}

// ClearCache drops every cached parse result. Compiled regex patterns are
// kept: they are pure by pattern text and rebuilding them buys nothing.
func ClearCache() {
	parseCache.Range(func(k, _ any) bool {
		parseCache.Delete(k)
		return true
	})
}

func parse(raw string) *Condition {
	tokens := strings.Fields(raw)
	if len(tokens) != 3 {
		return &Condition{Raw: raw, Invalid: true}
	}

	op := Token(tokens[1])
	spec, ok := operators[op]
	if !ok {
		return &Condition{Raw: raw, Invalid: true}
	}

	// Orientation: membership operators read "literal in field", every
	// other operator reads "field op literal".
	fieldTok, litTok := tokens[0], tokens[2]
	if spec.reversed {
		fieldTok, litTok = litTok, fieldTok
	}

	c := &Condition{
		Raw:      raw,
		Field:    path.Parse(fieldTok),
		Op:       op,
		Reversed: spec.reversed,
	}

	if spec.pair {
		bounds := strings.Split(litTok, ",")
		if len(bounds) != 2 {
			return &Condition{Raw: raw, Invalid: true}
		}
		c.Lo = value.Coerce(bounds[0])
		c.Hi = value.Coerce(bounds[1])
		c.LoRaw = value.StripQuotes(bounds[0])
		c.HiRaw = value.StripQuotes(bounds[1])
		return c
	}

	c.Lit = value.Coerce(litTok)
	c.LitRaw = value.StripQuotes(litTok)

	if op == OpRegex {
		re, err := compilePattern(c.LitRaw)
		if err != nil {
			// An uncompilable pattern is malformed input, not an error.
			return &Condition{Raw: raw, Invalid: true}
		}
		c.Pattern = re
	}

	return c
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := regexCache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	actual, _ := regexCache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}
