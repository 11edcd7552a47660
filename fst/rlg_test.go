package fst_test

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wfst/fst"
)

func TestRLG(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	grammar := map[string][]fst.Rule{
		"S": {
			{LHS: []string{"ab"}, Target: "S"},
			{LHS: []string{"x"}, Target: "#", Weight: 0.5},
		},
	}
	f, err := fst.RightLinearGrammar(grammar, "S")
	if err != nil {
		t.Fatalf("grammar did not compile: %v", err)
	}
	for in, want := range map[string]float64{"x": 0.5, "abx": 0.5, "ababx": 0.5} {
		w, ok := relateCost(f, in, in)
		if !ok {
			t.Errorf("expected %q to be accepted", in)
		} else if float64(w) != want {
			t.Errorf("cost of %q should be %v, is %v", in, want, w)
		}
	}
	if _, ok := relateCost(f, "ab", "ab"); ok {
		t.Errorf("grammar should not accept ab without the x suffix")
	}
}

func TestRLGTransducerRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	grammar := map[string][]fst.Rule{
		"S": {
			{LHS: []string{"a", "bc"}, Target: "#"},
		},
	}
	f, err := fst.RightLinearGrammar(grammar, "S")
	if err != nil {
		t.Fatalf("grammar did not compile: %v", err)
	}
	if _, ok := relateCost(f, "a", "bc"); !ok {
		t.Errorf("expected the rule to relate a to bc")
	}
	if _, ok := relateCost(f, "a", "a"); ok {
		t.Errorf("transducer rule should not be an identity")
	}
}

func TestRLGQuotedSymbols(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	grammar := map[string][]fst.Rule{
		"S": {
			{LHS: []string{"'sym'x"}, Target: "#"},
		},
	}
	f, err := fst.RightLinearGrammar(grammar, "S")
	if err != nil {
		t.Fatalf("grammar did not compile: %v", err)
	}
	// the quoted run is one multi-character symbol
	words := f.WordsNBest(1)
	if len(words) != 1 || len(words[0].Labels) != 2 {
		t.Fatalf("expected one word of two symbols, have %v", words)
	}
	if words[0].Labels[0].In() != "sym" || words[0].Labels[1].In() != "x" {
		t.Errorf("unexpected symbols %v", words[0].Labels)
	}
}

func TestRLGNamedStatesInDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	grammar := map[string][]fst.Rule{
		"S": {{LHS: []string{"a"}, Target: "#"}},
	}
	f, err := fst.RightLinearGrammar(grammar, "S")
	if err != nil {
		t.Fatalf("grammar did not compile: %v", err)
	}
	dump := f.String()
	if !strings.Contains(dump, "S\t#\ta\ta\t0\n") {
		t.Errorf("dump should use nonterminal names:\n%s", dump)
	}
}

func TestRLGUnknownTarget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	grammar := map[string][]fst.Rule{
		"S": {{LHS: []string{"a"}, Target: "T"}},
	}
	if _, err := fst.RightLinearGrammar(grammar, "S"); err == nil {
		t.Errorf("expected an error for the undefined target T")
	}
}

func TestLoadGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	doc := `
start: S
rules:
  S:
    - [ab, S]
    - [x, "#", 0.5]
    - [[a, b], "#"]
`
	grammar, start, err := fst.LoadGrammar([]byte(doc))
	if err != nil {
		t.Fatalf("grammar document did not parse: %v", err)
	}
	if start != "S" {
		t.Errorf("start symbol should be S, is %q", start)
	}
	if len(grammar["S"]) != 3 {
		t.Fatalf("expected 3 rules for S, have %d", len(grammar["S"]))
	}
	if grammar["S"][1].Weight != 0.5 {
		t.Errorf("second rule should carry weight 0.5, has %v", grammar["S"][1].Weight)
	}
	if len(grammar["S"][2].LHS) != 2 {
		t.Errorf("third rule should be a transducer rule, LHS %v", grammar["S"][2].LHS)
	}
	f, err := fst.RightLinearGrammar(grammar, start)
	if err != nil {
		t.Fatalf("grammar did not compile: %v", err)
	}
	if _, ok := relateCost(f, "x", "x"); !ok {
		t.Errorf("compiled grammar should accept x")
	}
	if _, ok := relateCost(f, "a", "b"); !ok {
		t.Errorf("compiled grammar should relate a to b")
	}
}
