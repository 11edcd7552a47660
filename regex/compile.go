package regex

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/wfst"
	"github.com/npillmayer/wfst/fst"
)

// Function is a transducer-valued function callable from a regular
// expression as $^name(…). User functions shadow the builtins.
type Function func(args ...*fst.FST) (*fst.FST, error)

// builtins resolve after the caller-supplied registry.
var builtins = map[string]Function{
	"reverse":     unary((*fst.FST).Reverse),
	"invert":      unary((*fst.FST).Invert),
	"minimize":    unary((*fst.FST).Minimize),
	"determinize": unary((*fst.FST).Determinize),
	"ignore": func(args ...*fst.FST) (*fst.FST, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("ignore takes 2 arguments, got %d", len(args))
		}
		return args[0].Ignore(args[1]), nil
	},
}

func unary(op func(*fst.FST) *fst.FST) Function {
	return func(args ...*fst.FST) (*fst.FST, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("function takes 1 argument, got %d", len(args))
		}
		return op(args[0]), nil
	}
}

// Compile tokenizes, parses and evaluates a regular expression into an FST.
// Variables referenced as $name resolve against defined; function calls
// $^name(…) resolve against functions, then against the builtins. The
// result is trimmed, weight-pushed and minimized.
func Compile(expression string, defined map[string]*fst.FST, functions map[string]Function) (*fst.FST, error) {
	tz := newTokenizer(expression)
	tokens, err := tz.tokenize()
	if err != nil {
		return nil, err
	}
	postfix, err := parse(addConcat(tokens), expression)
	if err != nil {
		return nil, err
	}
	c := &compiler{
		source:    expression,
		defined:   defined,
		functions: functions,
	}
	return c.eval(postfix)
}

// compiler evaluates a postfix token stream on a stack of argument lists.
// Keeping lists rather than bare FSTs lets COMMA merge function arguments
// into one variadic tuple.
type compiler struct {
	source    string
	defined   map[string]*fst.FST
	functions map[string]Function
	stack     [][]*fst.FST
}

func (c *compiler) push(f *fst.FST) {
	c.stack = append(c.stack, []*fst.FST{f})
}

func (c *compiler) pop(tok token) (*fst.FST, error) {
	args, err := c.popArgs(tok)
	if err != nil {
		return nil, err
	}
	return args[0], nil
}

func (c *compiler) popArgs(tok token) ([]*fst.FST, error) {
	if len(c.stack) == 0 {
		return nil, newError(ParseError, "operator lacks an operand", tok.line, tok.col, c.source)
	}
	args := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return args, nil
}

func (c *compiler) peek(tok token) (*fst.FST, error) {
	if len(c.stack) == 0 {
		return nil, newError(ParseError, "operator lacks an operand", tok.line, tok.col, c.source)
	}
	return c.stack[len(c.stack)-1][0], nil
}

func (c *compiler) eval(postfix []token) (*fst.FST, error) {
	sigma := func() *fst.FST { return fst.FromLabel(wfst.Label{wfst.Any}, 0).KleeneStar() }
	for _, tok := range postfix {
		tracer().Debugf("compile %s %q", tok.op, tok.value)
		var err error
		switch tok.op {
		case tokFunc:
			err = c.call(tok)
		case tokLParen:
			err = newError(ParseError, "missing closing parenthesis", tok.line, tok.col, c.source)
		case tokComma: // merge the top two argument lists
			var one, two []*fst.FST
			if one, err = c.popArgs(tok); err == nil {
				if two, err = c.popArgs(tok); err == nil {
					c.stack = append(c.stack, append(two, one...))
				}
			}
		case tokUnion:
			var arg2, arg1 *fst.FST
			if arg2, err = c.pop(tok); err == nil {
				if arg1, err = c.pop(tok); err == nil {
					c.push(arg2.Union(arg1))
				}
			}
		case tokMinus:
			var arg2, arg1 *fst.FST
			if arg2, err = c.pop(tok); err == nil {
				if arg1, err = c.pop(tok); err == nil {
					c.push(arg1.Difference(arg2.Determinize()))
				}
			}
		case tokIntersection:
			var arg2, arg1 *fst.FST
			if arg2, err = c.pop(tok); err == nil {
				if arg1, err = c.pop(tok); err == nil {
					c.push(arg2.Intersect(arg1).Coaccessible())
				}
			}
		case tokConcat:
			var second, first *fst.FST
			if second, err = c.pop(tok); err == nil {
				if first, err = c.pop(tok); err == nil {
					c.push(first.Concatenate(second).Accessible())
				}
			}
		case tokContains:
			var arg *fst.FST
			if arg, err = c.pop(tok); err == nil {
				c.push(sigma().Concatenate(arg).Concatenate(sigma()))
			}
		case tokStar:
			var arg *fst.FST
			if arg, err = c.pop(tok); err == nil {
				c.push(arg.KleeneStar())
			}
		case tokPlus:
			var arg *fst.FST
			if arg, err = c.pop(tok); err == nil {
				c.push(arg.KleenePlus())
			}
		case tokCompose:
			var arg2, arg1 *fst.FST
			if arg2, err = c.pop(tok); err == nil {
				if arg1, err = c.pop(tok); err == nil {
					c.push(arg1.Compose(arg2).Coaccessible())
				}
			}
		case tokOptional:
			var arg *fst.FST
			if arg, err = c.peek(tok); err == nil {
				arg.Optional()
			}
		case tokRange:
			err = c.replicate(tok)
		case tokCP:
			var arg2, arg1 *fst.FST
			if arg2, err = c.pop(tok); err == nil {
				if arg1, err = c.pop(tok); err == nil {
					c.push(arg1.CrossProduct(arg2).Coaccessible())
				}
			}
		case tokWeight:
			w, werr := strconv.ParseFloat(tok.value, 64)
			if werr != nil {
				err = newError(LexError, "malformed weight "+tok.value, tok.line, tok.col, c.source)
				break
			}
			var arg *fst.FST
			if arg, err = c.peek(tok); err == nil {
				arg.AddWeight(wfst.Weight(w)).PushWeights()
			}
		case tokSymbol:
			c.push(fst.FromLabel(wfst.Label{tok.value}, 0))
		case tokAny:
			c.push(fst.FromLabel(wfst.Label{wfst.Any}, 0))
		case tokEpsilon:
			c.push(fst.FromLabel(wfst.Label{wfst.Epsilon}, 0))
		case tokVariable:
			def, ok := c.defined[tok.value]
			if !ok {
				err = newError(SemanticError, "defined FST \""+tok.value+"\" not found",
					tok.line, tok.col, c.source)
				break
			}
			c.push(def.Copy()) // postfix unaries mutate in place
		case tokCharClass:
			err = c.charClass(tok)
		case tokComplement:
			// accepted by the parser, no compilation semantics
		}
		if err != nil {
			return nil, err
		}
	}
	if len(c.stack) != 1 || len(c.stack[0]) != 1 {
		return nil, newError(ParseError, "expression does not reduce to a single machine",
			1, 0, c.source)
	}
	return c.stack[0][0].Trim().PushWeights().Minimize(), nil
}

// call applies a user or builtin function to the argument list on top of
// the stack.
func (c *compiler) call(tok token) error {
	fn, ok := c.functions[tok.value]
	if !ok {
		fn, ok = builtins[tok.value]
	}
	if !ok {
		return newError(SemanticError, "function \""+tok.value+"\" not defined",
			tok.line, tok.col, c.source)
	}
	args, err := c.popArgs(tok)
	if err != nil {
		return err
	}
	result, err := fn(args...)
	if err != nil {
		return newError(SemanticError, err.Error(), tok.line, tok.col, c.source)
	}
	c.push(result)
	return nil
}

// replicate expands {m}, {m,}, {,n} and {m,n} into concatenations. The
// bounds are compared as integers.
func (c *compiler) replicate(tok token) error {
	lang, err := c.pop(tok)
	if err != nil {
		return err
	}
	concatN := func(f *fst.FST, n int) *fst.FST {
		if n == 0 { // zero repetitions accept the empty word only
			return fst.FromLabel(wfst.Label{wfst.Epsilon}, 0)
		}
		result := f
		for i := 1; i < n; i++ {
			result = result.Concatenate(f)
		}
		return result
	}
	parts := strings.SplitN(tok.value, ",", 2)
	switch {
	case len(parts) == 1: // {m}
		m, _ := strconv.Atoi(parts[0])
		c.push(concatN(lang, m))
	case parts[0] == "": // {,n}
		n, _ := strconv.Atoi(parts[1])
		c.push(concatN(lang.Optional(), n))
	case parts[1] == "": // {m,}
		m, _ := strconv.Atoi(parts[0])
		c.push(concatN(lang, m).Concatenate(lang.KleeneStar()))
	default: // {m,n}
		m, _ := strconv.Atoi(parts[0])
		n, _ := strconv.Atoi(parts[1])
		if m > n {
			return newError(SemanticError, "n must not be smaller than m in {m,n}",
				tok.line, tok.col, c.source)
		}
		head := concatN(lang, m)
		tail := concatN(lang.Copy().Optional(), n-m)
		c.push(head.Concatenate(tail))
	}
	return nil
}

// charClass compiles a [body] token into a two-state character-range FST.
func (c *compiler) charClass(tok token) error {
	ranges, negated, err := parseCharClass(tok.value, tok.line, tok.col, c.source)
	if err != nil {
		return err
	}
	c.push(fst.CharacterRanges(ranges, negated))
	return nil
}

// parseCharClass parses a character-class body into code-point range pairs,
// e.g. a-zA ➝ [(97,122), (65,65)]. A leading '^' negates; '-' indicates a
// range unless escaped, first or last.
func parseCharClass(body string, line, col int, source string) ([]fst.CharRange, bool, error) {
	negated := false
	runes := []rune(body)
	if len(runes) > 0 && runes[0] == '^' {
		negated = true
		runes = runes[1:]
	}
	// strip escapes, remembering which positions were escaped
	var cleaned []rune
	escaped := make(map[int]bool)
	for _, r := range runes {
		if r == '\\' {
			escaped[len(cleaned)] = true
			continue
		}
		cleaned = append(cleaned, r)
	}
	marks := make([]bool, len(cleaned))
	for i, r := range cleaned {
		marks[i] = r == '-' && !escaped[i] && i != 0 && i != len(cleaned)-1
	}
	var ranges []fst.CharRange
	for i := range cleaned {
		if marks[i] {
			ranges = append(ranges, fst.CharRange{Lo: cleaned[i-1], Hi: cleaned[i+1]})
		}
	}
	for i, r := range cleaned { // non-range characters: not adjacent to a mark
		neighbor := marks[i] || (i+1 < len(marks) && marks[i+1]) || (i > 0 && marks[i-1])
		if !neighbor {
			ranges = append(ranges, fst.CharRange{Lo: r, Hi: r})
		}
	}
	for _, rng := range ranges {
		if rng.Lo > rng.Hi {
			return nil, false, newError(SemanticError,
				"end must not be smaller than start in character class range", line, col, source)
		}
	}
	return ranges, negated, nil
}
