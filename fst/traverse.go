package fst

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/npillmayer/wfst"
)

// Trim removes every state that is not both accessible and coaccessible.
func (f *FST) Trim() *FST {
	return f.Accessible().Coaccessible()
}

// Accessible removes all states that are not on a path from the initial
// state. Mutates and returns f.
func (f *FST) Accessible() *FST {
	explored := map[*State]bool{f.initial: true}
	stack := arraystack.New()
	stack.Push(f.initial)
	for !stack.Empty() {
		top, _ := stack.Pop()
		source := top.(*State)
		source.EachTransition(func(_ wfst.Label, t Transition) {
			if !explored[t.Target] {
				explored[t.Target] = true
				stack.Push(t.Target)
			}
		})
	}
	f.states = explored
	for s := range f.finals {
		if !explored[s] {
			delete(f.finals, s)
		}
	}
	return f
}

// Coaccessible removes all states, and all transitions to states, that have
// no path to a final state. The initial state is kept even if isolated.
// Paths are only traced from states reachable from the initial state, so a
// non-final state that is not reachable from the initial state is removed
// as well. Mutates and returns f.
func (f *FST) Coaccessible() *FST {
	// forward sweep, collecting reverse adjacency
	inverse := make(map[*State]map[*State]bool, len(f.states))
	for s := range f.states {
		inverse[s] = make(map[*State]bool)
	}
	explored := map[*State]bool{f.initial: true}
	stack := arraystack.New()
	stack.Push(f.initial)
	for !stack.Empty() {
		top, _ := stack.Pop()
		source := top.(*State)
		for target := range source.AllTargets() {
			inverse[target][source] = true
			if !explored[target] {
				explored[target] = true
				stack.Push(target)
			}
		}
	}
	// backward sweep from the finals
	coaccessible := make(map[*State]bool, len(f.finals))
	for s := range f.finals {
		coaccessible[s] = true
		stack.Push(s)
	}
	for !stack.Empty() {
		top, _ := stack.Pop()
		source := top.(*State)
		for previous := range inverse[source] {
			if !coaccessible[previous] {
				coaccessible[previous] = true
				stack.Push(previous)
			}
		}
	}
	coaccessible[f.initial] = true

	doomed := make(map[*State]bool)
	for s := range f.states {
		if !coaccessible[s] {
			doomed[s] = true
		}
	}
	for s := range f.states {
		s.RemoveTransitionsToTargets(doomed)
	}
	for s := range doomed {
		delete(f.states, s)
		delete(f.finals, s)
	}
	return f
}

// SCC returns the strongly connected components of f's state graph, one set
// per component, following Tarjan (1972), "Depth-first search and linear
// graph algorithms", SIAM Journal on Computing 1 (2).
func (f *FST) SCC() []map[*State]bool {
	var sccs []map[*State]bool
	index := 0
	indices := make(map[*State]int)
	lowlink := make(map[*State]int)
	onstack := make(map[*State]bool)
	stack := arraystack.New()

	var strongconnect func(s *State)
	strongconnect = func(s *State) {
		indices[s] = index
		lowlink[s] = index
		index++
		stack.Push(s)
		onstack[s] = true
		for target := range s.AllTargets() {
			if _, seen := indices[target]; !seen {
				strongconnect(target)
				if lowlink[target] < lowlink[s] {
					lowlink[s] = lowlink[target]
				}
			} else if onstack[target] {
				if indices[target] < lowlink[s] {
					lowlink[s] = indices[target]
				}
			}
		}
		if lowlink[s] == indices[s] {
			scc := make(map[*State]bool)
			for {
				top, _ := stack.Pop()
				target := top.(*State)
				delete(onstack, target)
				scc[target] = true
				if target == s {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for s := range f.states {
		if _, seen := indices[s]; !seen {
			strongconnect(s)
		}
	}
	return sccs
}

// --- Cheapest costs --------------------------------------------------------

// Expander enumerates the (cheapest) successors of a state; see
// State.AllTargetsCheapest and State.AllEpsilonTargetsCheapest.
type Expander func(*State) map[*State]wfst.Weight

// queue entries for Dijkstra and friends. The counter breaks weight ties so
// that entries never compare equal; exit entries are the sentinel pushed
// when a final state is popped.
type pqItem struct {
	weight wfst.Weight
	seq    int
	state  *State
	exit   bool
}

func pqComparator(a, b interface{}) int {
	x, y := a.(pqItem), b.(pqItem)
	switch {
	case x.weight < y.weight:
		return -1
	case x.weight > y.weight:
		return 1
	case x.seq < y.seq:
		return -1
	case x.seq > y.seq:
		return 1
	}
	return 0
}

// Dijkstra returns the cost of the cheapest path from state to any final
// state, expanding successors through expand. Returns infinity if no final
// state is reachable.
func (f *FST) Dijkstra(state *State, expand Expander) wfst.Weight {
	explored := map[*State]bool{state: true}
	cntr := 0
	q := binaryheap.NewWith(pqComparator)
	q.Push(pqItem{weight: 0, seq: cntr, state: state})
	for !q.Empty() {
		top, _ := q.Pop()
		item := top.(pqItem)
		if item.exit { // first exit sentinel popped is the cheapest
			return item.weight
		}
		explored[item.state] = true
		if f.finals[item.state] {
			cntr++
			q.Push(pqItem{weight: item.weight + item.state.finalweight, seq: cntr, exit: true})
		}
		for target, cost := range expand(item.state) {
			if !explored[target] {
				cntr++
				q.Push(pqItem{weight: item.weight + cost, seq: cntr, state: target})
			}
		}
	}
	return wfst.Inf()
}

// DijkstraAll maps every state to its cheapest cost-to-final.
func (f *FST) DijkstraAll() map[*State]wfst.Weight {
	potentials := make(map[*State]wfst.Weight, len(f.states))
	for s := range f.states {
		potentials[s] = f.Dijkstra(s, (*State).AllTargetsCheapest)
	}
	return potentials
}

// EpsilonClosure returns the states reachable from state by epsilon arcs
// only, mapped to the cheapest hopping cost. The state itself is excluded.
func (f *FST) EpsilonClosure(state *State) map[*State]wfst.Weight {
	explored := make(map[*State]wfst.Weight)
	cntr := 0
	q := binaryheap.NewWith(pqComparator)
	q.Push(pqItem{weight: 0, seq: cntr, state: state})
	for !q.Empty() {
		top, _ := q.Pop()
		item := top.(pqItem)
		if _, seen := explored[item.state]; seen {
			continue
		}
		explored[item.state] = item.weight
		for target, cost := range item.state.AllEpsilonTargetsCheapest() {
			cntr++
			q.Push(pqItem{weight: item.weight + cost, seq: cntr, state: target})
		}
	}
	delete(explored, state)
	return explored
}
