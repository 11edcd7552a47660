package fst

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/npillmayer/wfst"
)

// Rule is one production of a (weighted) right-linear grammar. LHS holds the
// rule's emission: one string for an acceptor rule, an (input, output) pair
// for a transducer rule. Target names the nonterminal continued after the
// emission; "#" is the unique final sink.
//
// Emission strings are tokenized into symbols: a '…'-quoted run is one
// multi-character symbol, \x escapes the single symbol x, an unescaped
// space outside quotes is alignment padding and maps to epsilon.
type Rule struct {
	LHS    []string
	Target string
	Weight wfst.Weight
}

// Sink is the final state of every right-linear grammar.
const Sink = "#"

// RightLinearGrammar compiles a grammar, mapping nonterminal names to their
// rules, into a transducer, similarly to lexc. One named state per
// nonterminal; every rule contributes a chain of fresh states, one arc per
// aligned symbol pair, with the rule weight on the chain's last arc.
func RightLinearGrammar(grammar map[string][]Rule, start string) (*FST, error) {
	f := New()
	byname := make(map[string]*State, len(grammar)+1)
	for name := range grammar {
		s := f.NewState()
		s.Name = name
		byname[name] = s
	}
	if _, ok := byname[Sink]; !ok {
		s := f.NewState()
		s.Name = Sink
		byname[Sink] = s
	}
	initial, ok := byname[start]
	if !ok {
		return nil, fmt.Errorf("start symbol %q has no rules", start)
	}
	delete(f.states, f.initial)
	f.initial = initial
	f.SetFinal(byname[Sink], 0)

	for name, rules := range grammar {
		for _, rule := range rules {
			if len(rule.LHS) < 1 || len(rule.LHS) > 2 {
				return nil, fmt.Errorf("rule of %q: LHS must have 1 or 2 sides, has %d", name, len(rule.LHS))
			}
			target, ok := byname[rule.Target]
			if !ok {
				return nil, fmt.Errorf("rule of %q: target %q is not a nonterminal", name, rule.Target)
			}
			in := rlgTokenize(rule.LHS[0])
			out := in
			if len(rule.LHS) == 2 {
				out = rlgTokenize(rule.LHS[1])
			}
			n := len(in)
			if len(out) > n {
				n = len(out)
			}
			current := byname[name]
			for idx := 0; idx < n; idx++ {
				ii, oo := wfst.Epsilon, wfst.Epsilon
				if idx < len(in) {
					ii = in[idx]
				}
				if idx < len(out) {
					oo = out[idx]
				}
				var w wfst.Weight
				next := target
				if idx < n-1 {
					next = f.NewState()
				} else { // dump the rule weight on the last arc
					w = rule.Weight
				}
				label := wfst.Label{ii, oo}
				current.AddTransition(next, label, w)
				f.noteSymbols(label)
				current = next
			}
		}
	}
	return f, nil
}

// rlgTokenize splits a rule emission string into symbols.
func rlgTokenize(w string) []string {
	var tokens []string
	runes := []rune(w)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\'':
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				j++
			}
			tokens = append(tokens, string(runes[i+1:j]))
			i = j
		case '\\':
			if i+1 < len(runes) {
				tokens = append(tokens, string(runes[i+1]))
				i++
			}
		case ' ': // alignment whitespace
			tokens = append(tokens, wfst.Epsilon)
		default:
			tokens = append(tokens, string(runes[i]))
		}
	}
	return tokens
}

// --- Grammar files ---------------------------------------------------------

// grammarFile is the YAML shape of a grammar document:
//
//    start: S
//    rules:
//      S:
//        - [ab, S]
//        - [x, "#", 0.5]
//        - [[a, b], "#"]
//
type grammarFile struct {
	Start string                     `yaml:"start"`
	Rules map[string][][]interface{} `yaml:"rules"`
}

// LoadGrammar parses a YAML grammar document into the input form of
// RightLinearGrammar: the rule map and the start symbol.
func LoadGrammar(data []byte) (map[string][]Rule, string, error) {
	var doc grammarFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("cannot parse grammar: %w", err)
	}
	if doc.Start == "" {
		return nil, "", fmt.Errorf("grammar has no start symbol")
	}
	grammar := make(map[string][]Rule, len(doc.Rules))
	for name, entries := range doc.Rules {
		for _, entry := range entries {
			rule, err := grammarRule(entry)
			if err != nil {
				return nil, "", fmt.Errorf("rule of %q: %w", name, err)
			}
			grammar[name] = append(grammar[name], rule)
		}
	}
	return grammar, doc.Start, nil
}

func grammarRule(entry []interface{}) (Rule, error) {
	var rule Rule
	if len(entry) < 2 || len(entry) > 3 {
		return rule, fmt.Errorf("expected [lhs, target] or [lhs, target, weight], got %d items", len(entry))
	}
	switch lhs := entry[0].(type) {
	case string:
		rule.LHS = []string{lhs}
	case []interface{}:
		if len(lhs) != 2 {
			return rule, fmt.Errorf("transducer LHS must be an [in, out] pair")
		}
		in, ok1 := lhs[0].(string)
		out, ok2 := lhs[1].(string)
		if !ok1 || !ok2 {
			return rule, fmt.Errorf("transducer LHS sides must be strings")
		}
		rule.LHS = []string{in, out}
	default:
		return rule, fmt.Errorf("LHS must be a string or an [in, out] pair")
	}
	target, ok := entry[1].(string)
	if !ok {
		return rule, fmt.Errorf("rule target must be a string")
	}
	rule.Target = target
	if len(entry) == 3 {
		switch w := entry[2].(type) {
		case float64:
			rule.Weight = wfst.Weight(w)
		case int:
			rule.Weight = wfst.Weight(w)
		case uint64:
			rule.Weight = wfst.Weight(w)
		case int64:
			rule.Weight = wfst.Weight(w)
		default:
			return rule, fmt.Errorf("rule weight must be numeric")
		}
	}
	return rule, nil
}
