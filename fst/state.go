package fst

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"sync/atomic"

	"github.com/npillmayer/wfst"
)

// serials numbers states in creation order. The ordering is what makes
// state numbering in dumps deterministic.
var serials uint32

// Transition is an arc of a transducer: a target state, a label tuple and a
// tropical weight. Transitions are value objects; equality is structural.
type Transition struct {
	Target *State
	Label  wfst.Label
	Weight wfst.Weight
}

// State is a node of a transducer. It carries the outgoing arcs, keyed by
// label, and a final weight (infinite on non-final states; the owning FST's
// final set is the authoritative final predicate).
//
// Two inverted indices over the arcs — by first-tape symbol and by last-tape
// symbol — are maintained lazily for composition. Any mutation invalidates
// them; they memoize the state version at which they were built.
type State struct {
	Name        string // optional, used by serialization
	finalweight wfst.Weight
	transitions map[string][]Transition // label key ➝ parallel arcs
	serial      uint32
	version     uint32 // bumped on every mutation
	inIndex     symbolIndex
	outIndex    symbolIndex
}

// symbolIndex maps a single-tape symbol to the arcs carrying it.
type symbolIndex struct {
	arcs    map[string][]Transition
	version uint32
	valid   bool
}

func newState() *State {
	return &State{
		finalweight: wfst.Inf(),
		transitions: make(map[string][]Transition),
		serial:      atomic.AddUint32(&serials, 1),
	}
}

// FinalWeight returns the state's final weight; infinite iff the state is
// not final.
func (s *State) FinalWeight() wfst.Weight {
	return s.finalweight
}

func (s *State) mutated() {
	s.version++
	s.inIndex.valid = false
	s.outIndex.valid = false
}

// AddTransition adds an arc from s with the given target, label and weight.
// Parallel arcs with identical (target, label, weight) collapse; arcs have
// set semantics per label.
func (s *State) AddTransition(target *State, label wfst.Label, weight wfst.Weight) {
	key := label.Key()
	for _, t := range s.transitions[key] {
		if t.Target == target && t.Weight == weight {
			return
		}
	}
	s.transitions[key] = append(s.transitions[key], Transition{
		Target: target,
		Label:  label,
		Weight: weight,
	})
	s.mutated()
}

// EachTransition calls visit for every outgoing arc of s.
func (s *State) EachTransition(visit func(label wfst.Label, t Transition)) {
	for _, arcs := range s.transitions {
		for _, t := range arcs {
			visit(t.Label, t)
		}
	}
}

// AllTargets returns the set of states s has arcs to.
func (s *State) AllTargets() map[*State]bool {
	targets := make(map[*State]bool)
	for _, arcs := range s.transitions {
		for _, t := range arcs {
			targets[t.Target] = true
		}
	}
	return targets
}

// AllTargetsCheapest returns, for every target of s, the minimum arc weight
// leading there (the ⊕-reduction over parallel arcs). It is the expander
// used by Dijkstra.
func (s *State) AllTargetsCheapest() map[*State]wfst.Weight {
	targets := make(map[*State]wfst.Weight)
	for _, arcs := range s.transitions {
		for _, t := range arcs {
			w, ok := targets[t.Target]
			if !ok || t.Weight < w {
				targets[t.Target] = t.Weight
			}
		}
	}
	return targets
}

// AllEpsilonTargetsCheapest is AllTargetsCheapest restricted to arcs whose
// label is epsilon on every tape. It is the expander used by the epsilon
// closure.
func (s *State) AllEpsilonTargetsCheapest() map[*State]wfst.Weight {
	targets := make(map[*State]wfst.Weight)
	for _, arcs := range s.transitions {
		for _, t := range arcs {
			if !t.Label.IsEpsilon() {
				break
			}
			w, ok := targets[t.Target]
			if !ok || t.Weight < w {
				targets[t.Target] = t.Weight
			}
		}
	}
	return targets
}

// RemoveTransitionsToTargets drops every arc whose target lies in targets.
// Empty label buckets are purged.
func (s *State) RemoveTransitionsToTargets(targets map[*State]bool) {
	changed := false
	for key, arcs := range s.transitions {
		kept := arcs[:0]
		for _, t := range arcs {
			if !targets[t.Target] {
				kept = append(kept, t)
			}
		}
		if len(kept) != len(arcs) {
			changed = true
			if len(kept) == 0 {
				delete(s.transitions, key)
			} else {
				s.transitions[key] = kept
			}
		}
	}
	if changed {
		s.mutated()
	}
}

// TransitionsIn returns the lazy index of arcs by first-tape symbol.
func (s *State) TransitionsIn() map[string][]Transition {
	if !s.inIndex.valid || s.inIndex.version != s.version {
		s.inIndex.arcs = make(map[string][]Transition)
		for _, arcs := range s.transitions {
			for _, t := range arcs {
				sym := t.Label.In()
				s.inIndex.arcs[sym] = append(s.inIndex.arcs[sym], t)
			}
		}
		s.inIndex.version = s.version
		s.inIndex.valid = true
	}
	return s.inIndex.arcs
}

// TransitionsOut returns the lazy index of arcs by last-tape symbol.
func (s *State) TransitionsOut() map[string][]Transition {
	if !s.outIndex.valid || s.outIndex.version != s.version {
		s.outIndex.arcs = make(map[string][]Transition)
		for _, arcs := range s.transitions {
			for _, t := range arcs {
				sym := t.Label.Out()
				s.outIndex.arcs[sym] = append(s.outIndex.arcs[sym], t)
			}
		}
		s.outIndex.version = s.version
		s.outIndex.valid = true
	}
	return s.outIndex.arcs
}

// relabel rewrites every label bucket through mod, rebuilding the bucket
// keys. Used by the in-place Invert and Project.
func (s *State) relabel(mod func(wfst.Label) wfst.Label) {
	relabeled := make(map[string][]Transition, len(s.transitions))
	for _, arcs := range s.transitions {
		for _, t := range arcs {
			t.Label = mod(t.Label)
			key := t.Label.Key()
			relabeled[key] = append(relabeled[key], t)
		}
	}
	s.transitions = relabeled
	s.mutated()
}
