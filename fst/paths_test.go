package fst_test

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wfst"
	"github.com/npillmayer/wfst/fst"
)

func TestWordsBFS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	f := acceptor("a").Union(acceptor("bc"))
	it := f.Words()
	seen := map[string]bool{}
	for {
		w, ok := it.Next()
		if !ok {
			break
		}
		seen[pathString(w)] = true
	}
	if !seen["a"] || !seen["bc"] || len(seen) != 2 {
		t.Errorf("BFS enumeration yields %v", seen)
	}
}

func TestWordsBFSIsInfiniteOnCycles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	star := fst.FromLabel(wfst.Label{"a"}, 0).KleeneStar()
	it := star.Words()
	for i := 0; i < 20; i++ {
		if _, ok := it.Next(); !ok {
			t.Fatalf("enumeration of a* ended after %d words", i)
		}
	}
}

func TestWordsCheapestMonotone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	f := fst.FromLabel(wfst.Label{"a"}, 0.5).
		Union(fst.FromLabel(wfst.Label{"b"}, 0.25)).
		Union(fst.FromLabel(wfst.Label{"c"}, 2))
	it := f.WordsCheapest()
	last := wfst.Weight(0)
	count := 0
	for {
		w, ok := it.Next()
		if !ok {
			break
		}
		if w.Weight < last {
			t.Errorf("cost decreased from %v to %v", last, w.Weight)
		}
		last = w.Weight
		count++
	}
	if count != 3 {
		t.Errorf("expected 3 words, have %d", count)
	}
}

func TestWordsNBestAgreesWithCheapest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	f := fst.FromLabel(wfst.Label{"a"}, 1).
		Union(fst.FromLabel(wfst.Label{"b"}, 2)).
		Union(fst.FromLabel(wfst.Label{"c"}, 3))
	nbest := f.WordsNBest(2)
	it := f.WordsCheapest()
	for i, want := range nbest {
		have, ok := it.Next()
		if !ok {
			t.Fatalf("cheapest stream ended before %d words", i+1)
		}
		if have.Weight != want.Weight || pathString(have) != pathString(want) {
			t.Errorf("n-best and cheapest disagree at %d: %v vs %v", i, want, have)
		}
	}
	if len(nbest) != 2 {
		t.Errorf("expected 2 words, have %d", len(nbest))
	}
}

func TestWordsCheapestSkipsInfinitePaths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wfst.fst")
	defer teardown()
	//
	f := fst.New()
	end := f.NewState()
	f.Initial().AddTransition(end, wfst.Label{"a"}, wfst.Inf())
	f.SetFinal(end, 0)
	if words := f.WordsNBest(3); len(words) != 0 {
		t.Errorf("infinite-cost paths must not be emitted, have %v", words)
	}
}
