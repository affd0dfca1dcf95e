// Package specdsl parses the small resource/function spec DSL of spec.md
// §6:
//
//	resource_file  ::= resource_line+
//	resource_line  ::= "(:resource" NAME MIN MAX DELTA ")"
//	function_file  ::= function_line+
//	function_line  ::= "(:function" NAME MIN MAX DELTA ")"
//	NAME           ::= identifier or identifier "(" params ")"
//	MIN,MAX,DELTA  ::= non-negative integer
//
// No parser-combinator or grammar library appears anywhere in the
// retrieval pack, so this one component is deliberately hand-written
// against the standard library alone — a small enough grammar that a
// library would add a dependency without removing any real complexity.
package specdsl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gitrdm/bplan/pkg/planerr"
)

// Entry is one parsed resource or function line.
type Entry struct {
	Name  string
	Min   int
	Max   int
	Delta int
}

// ParseResourceFile parses a ":resource" DSL file. Duplicate NAMEs: last
// wins, per spec.md §6.
func ParseResourceFile(data string) ([]Entry, error) {
	return parse(data, ":resource")
}

// ParseFunctionFile parses a ":function" DSL file. Duplicate NAMEs: last
// wins, per spec.md §6.
func ParseFunctionFile(data string) ([]Entry, error) {
	return parse(data, ":function")
}

func parse(data, keyword string) ([]Entry, error) {
	order := make([]string, 0)
	byName := make(map[string]Entry)

	lines := splitStatements(data)
	for _, line := range lines {
		toks := tokenize(line)
		if len(toks) == 0 {
			continue
		}
		e, err := parseStatement(toks, keyword)
		if err != nil {
			return nil, err
		}
		if _, seen := byName[e.Name]; !seen {
			order = append(order, e.Name)
		}
		byName[e.Name] = e
	}

	out := make([]Entry, len(order))
	for i, n := range order {
		out[i] = byName[n]
	}
	return out, nil
}

// splitStatements breaks the whole file into individual "(...)"
// statements, tolerating statements spread across lines and blank lines
// between them, since "whitespace is insignificant" per spec.md §6.
func splitStatements(data string) []string {
	var stmts []string
	var cur strings.Builder
	depth := 0
	started := false
	for _, r := range data {
		if r == '(' {
			depth++
			started = true
		}
		if started {
			cur.WriteRune(r)
		}
		if r == ')' {
			depth--
			if depth == 0 && started {
				stmts = append(stmts, cur.String())
				cur.Reset()
				started = false
			}
		}
	}
	return stmts
}

// tokenize splits one "(...)" statement into tokens, treating the
// statement's own delimiting parens as standalone tokens while keeping
// any parens nested inside a NAME (e.g. "on(a,b)") part of that token.
func tokenize(stmt string) []string {
	var toks []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range stmt {
		switch {
		case r == '(':
			if depth == 0 && cur.Len() == 0 {
				toks = append(toks, "(")
			} else {
				cur.WriteRune(r)
				depth++
			}
		case r == ')':
			if depth == 0 {
				flush()
				toks = append(toks, ")")
			} else {
				cur.WriteRune(r)
				depth--
			}
		case unicode.IsSpace(r):
			if depth > 0 {
				cur.WriteRune(r)
			} else {
				flush()
			}
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

func parseStatement(toks []string, keyword string) (Entry, error) {
	if len(toks) != 7 {
		return Entry{}, fmt.Errorf("specdsl: malformed %s statement %v: %w", keyword, toks, planerr.ErrSpecParse)
	}
	if toks[0] != "(" || toks[1] != keyword || toks[6] != ")" {
		return Entry{}, fmt.Errorf("specdsl: expected (%s NAME MIN MAX DELTA), got %v: %w", keyword, toks, planerr.ErrSpecParse)
	}
	name := toks[2]
	min, err := strconv.Atoi(toks[3])
	if err != nil || min < 0 {
		return Entry{}, fmt.Errorf("specdsl: MIN must be a non-negative integer, got %q: %w", toks[3], planerr.ErrSpecParse)
	}
	max, err := strconv.Atoi(toks[4])
	if err != nil || max < 0 {
		return Entry{}, fmt.Errorf("specdsl: MAX must be a non-negative integer, got %q: %w", toks[4], planerr.ErrSpecParse)
	}
	delta, err := strconv.Atoi(toks[5])
	if err != nil || delta < 0 {
		return Entry{}, fmt.Errorf("specdsl: DELTA must be a non-negative integer, got %q: %w", toks[5], planerr.ErrSpecParse)
	}
	return Entry{Name: name, Min: min, Max: max, Delta: delta}, nil
}
