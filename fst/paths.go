package fst

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/npillmayer/wfst"
)

// Word is one accepted path: the sequence of arc labels along the path and
// its total cost, final weight included.
type Word struct {
	Weight wfst.Weight
	Labels []wfst.Label
}

// WordIterator enumerates accepted words one at a time.
type WordIterator interface {
	Next() (Word, bool)
}

// --- Breadth-first enumeration ---------------------------------------------

type bfsItem struct {
	state  *State
	cost   wfst.Weight
	labels []wfst.Label
}

type bfsWords struct {
	f *FST
	q *doublylinkedlist.List
}

// Words enumerates all accepted words breadth-first. The enumeration is
// infinite on cyclic FSTs; callers decide when to stop.
func (f *FST) Words() WordIterator {
	it := &bfsWords{f: f, q: doublylinkedlist.New()}
	it.q.Add(bfsItem{state: f.initial, cost: 0})
	return it
}

func (it *bfsWords) Next() (Word, bool) {
	for !it.q.Empty() {
		front, _ := it.q.Get(0)
		it.q.Remove(0)
		item := front.(bfsItem)
		item.state.EachTransition(func(label wfst.Label, t Transition) {
			it.q.Add(bfsItem{
				state:  t.Target,
				cost:   item.cost + t.Weight,
				labels: appendLabel(item.labels, label),
			})
		})
		if it.f.finals[item.state] {
			return Word{Weight: item.cost + item.state.finalweight, Labels: item.labels}, true
		}
	}
	return Word{}, false
}

// appendLabel extends a label path without sharing the backing array.
func appendLabel(labels []wfst.Label, label wfst.Label) []wfst.Label {
	path := make([]wfst.Label, len(labels), len(labels)+1)
	copy(path, labels)
	return append(path, label)
}

// --- Best-first enumeration ------------------------------------------------

type heapItem struct {
	cost   wfst.Weight
	seq    int
	state  *State // nil marks an exit record, ready to be yielded
	labels []wfst.Label
}

type cheapestWords struct {
	f    *FST
	q    *binaryheap.Heap
	cntr int
}

// WordsCheapest enumerates accepted words in order of non-decreasing cost.
// Words with infinite cost are never emitted.
func (f *FST) WordsCheapest() WordIterator {
	it := &cheapestWords{
		f: f,
		q: binaryheap.NewWith(func(a, b interface{}) int {
			return pqComparator(
				pqItem{weight: a.(heapItem).cost, seq: a.(heapItem).seq},
				pqItem{weight: b.(heapItem).cost, seq: b.(heapItem).seq})
		}),
	}
	it.q.Push(heapItem{cost: 0, seq: 0, state: f.initial})
	return it
}

func (it *cheapestWords) Next() (Word, bool) {
	for !it.q.Empty() {
		top, _ := it.q.Pop()
		item := top.(heapItem)
		if item.state == nil {
			return Word{Weight: item.cost, Labels: item.labels}, true
		}
		if it.f.finals[item.state] {
			exit := item.cost + item.state.finalweight
			if !exit.IsInf() {
				it.cntr++
				it.q.Push(heapItem{cost: exit, seq: it.cntr, labels: item.labels})
			}
		}
		item.state.EachTransition(func(label wfst.Label, t Transition) {
			cost := item.cost + t.Weight
			if cost.IsInf() {
				return
			}
			it.cntr++
			it.q.Push(heapItem{
				cost:   cost,
				seq:    it.cntr,
				state:  t.Target,
				labels: appendLabel(item.labels, label),
			})
		})
	}
	return Word{}, false
}

// WordsNBest returns the first n words of the best-first enumeration.
func (f *FST) WordsNBest(n int) []Word {
	it := f.WordsCheapest()
	words := make([]Word, 0, n)
	for len(words) < n {
		w, ok := it.Next()
		if !ok {
			break
		}
		words = append(words, w)
	}
	return words
}
