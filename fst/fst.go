package fst

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/wfst"
)

// FST is a weighted finite-state transducer: a distinguished initial state,
// a set of owned states, a subset of final states and the alphabet of all
// symbols occurring on any tape of any arc (epsilon excluded).
//
// Construct FSTs with New, FromLabel, CharacterRanges or RightLinearGrammar,
// or by compiling a regular expression (package regex).
type FST struct {
	initial  *State
	states   map[*State]bool
	finals   map[*State]bool
	alphabet map[string]bool
}

// New creates an empty FST: a single non-final initial state, accepting
// nothing.
func New() *FST {
	f := &FST{
		states:   make(map[*State]bool),
		finals:   make(map[*State]bool),
		alphabet: make(map[string]bool),
	}
	f.initial = f.NewState()
	return f
}

// FromLabel creates the single-label FST: initial state, one arc carrying
// label, and a final state with the given final weight. The all-epsilon
// label yields the single-state epsilon acceptor, whose initial state is
// final with weight w.
func FromLabel(label wfst.Label, w wfst.Weight) *FST {
	f := New()
	if label.IsEpsilon() && len(label) == 1 {
		f.SetFinal(f.initial, w)
		return f
	}
	target := f.NewState()
	f.SetFinal(target, w)
	f.initial.AddTransition(target, label, 0)
	f.noteSymbols(label)
	return f
}

// CharRange is an inclusive range of unicode code points.
type CharRange struct {
	Lo, Hi rune
}

// CharacterRanges builds a two-state FST accepting one symbol out of the
// given code-point ranges. With complement set, a single wildcard arc is
// created instead; the generated symbols still enter the alphabet, so that
// harmonization excludes them from the wildcard's expansion.
func CharacterRanges(ranges []CharRange, complement bool) *FST {
	f := New()
	target := f.NewState()
	f.SetFinal(target, 0)
	for _, rng := range ranges {
		for c := rng.Lo; c <= rng.Hi; c++ {
			sym := string(c)
			if f.alphabet[sym] {
				continue
			}
			f.alphabet[sym] = true
			if !complement {
				f.initial.AddTransition(target, wfst.Label{sym}, 0)
			}
		}
	}
	if complement {
		f.initial.AddTransition(target, wfst.Label{wfst.Any}, 0)
		f.alphabet[wfst.Any] = true
	}
	return f
}

// NewState creates a fresh state owned by f.
func (f *FST) NewState() *State {
	s := newState()
	f.states[s] = true
	return s
}

// Initial returns the initial state.
func (f *FST) Initial() *State {
	return f.initial
}

// Len returns the number of states.
func (f *FST) Len() int {
	return len(f.states)
}

// IsFinal is true iff s is a final state of f.
func (f *FST) IsFinal(s *State) bool {
	return f.finals[s]
}

// SetFinal marks s final with the given final weight.
func (f *FST) SetFinal(s *State, w wfst.Weight) {
	f.finals[s] = true
	s.finalweight = w
}

// Alphabet returns the sorted alphabet of f.
func (f *FST) Alphabet() []string {
	syms := make([]string, 0, len(f.alphabet))
	for sym := range f.alphabet {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}

// noteSymbols enters every non-epsilon tape symbol of label into the
// alphabet.
func (f *FST) noteSymbols(label wfst.Label) {
	for _, sym := range label {
		if sym != wfst.Epsilon {
			f.alphabet[sym] = true
		}
	}
}

func (f *FST) copyAlphabet() map[string]bool {
	cp := make(map[string]bool, len(f.alphabet))
	for sym := range f.alphabet {
		cp[sym] = true
	}
	return cp
}

// eachTransition calls visit for every arc leaving any state in states.
func eachTransition(states map[*State]bool, visit func(s *State, t Transition)) {
	for s := range states {
		s.EachTransition(func(_ wfst.Label, t Transition) {
			visit(s, t)
		})
	}
}

// --- Copies ----------------------------------------------------------------

// Copy returns a deep copy of f with fresh states.
func (f *FST) Copy() *FST {
	cp, _ := f.copyFiltered(nil)
	return cp
}

// copyMod copies f with every arc's label and weight rewritten through
// modLabel and modWeight. Passing nil keeps labels resp. weights unchanged.
func (f *FST) copyMod(modLabel func(wfst.Label, wfst.Weight) wfst.Label,
	modWeight func(wfst.Label, wfst.Weight) wfst.Weight) *FST {
	//
	if modLabel == nil {
		modLabel = func(l wfst.Label, _ wfst.Weight) wfst.Label { return l }
	}
	if modWeight == nil {
		modWeight = func(_ wfst.Label, w wfst.Weight) wfst.Weight { return w }
	}
	cp := New()
	cp.alphabet = f.copyAlphabet()
	image := f.imageStates(cp)
	eachTransition(f.states, func(s *State, t Transition) {
		image[s].AddTransition(image[t.Target], modLabel(t.Label, t.Weight), modWeight(t.Label, t.Weight))
	})
	for s := range f.finals {
		cp.SetFinal(image[s], s.finalweight)
	}
	return cp
}

// copyFiltered copies f, keeping only arcs whose label passes labelFilter
// (nil keeps everything), and returns the copy together with the mapping
// from original to image states.
func (f *FST) copyFiltered(labelFilter func(wfst.Label) bool) (*FST, map[*State]*State) {
	cp := New()
	cp.alphabet = f.copyAlphabet()
	image := f.imageStates(cp)
	eachTransition(f.states, func(s *State, t Transition) {
		if labelFilter == nil || labelFilter(t.Label) {
			image[s].AddTransition(image[t.Target], t.Label, t.Weight)
		}
	})
	for s := range f.finals {
		cp.SetFinal(image[s], s.finalweight)
	}
	return cp, image
}

// imageStates populates cp with one fresh state per state of f and returns
// the mapping. cp's initial state becomes the image of f's.
func (f *FST) imageStates(cp *FST) map[*State]*State {
	image := make(map[*State]*State, len(f.states))
	image[f.initial] = cp.initial
	for s := range f.states {
		if s != f.initial {
			image[s] = cp.NewState()
		}
	}
	return image
}

// --- AT&T text format ------------------------------------------------------

// numberStates assigns the dump numbering: the initial state is 0, all
// other states are numbered in creation order starting at 1. A named state
// is represented by its name instead.
func (f *FST) numberStates() map[*State]string {
	ordered := treeset.NewWith(func(a, b interface{}) int {
		return int(a.(*State).serial) - int(b.(*State).serial)
	})
	for s := range f.states {
		if s != f.initial {
			ordered.Add(s)
		}
	}
	numbers := make(map[*State]string, len(f.states))
	name := func(s *State, i int) string {
		if s.Name != "" {
			return s.Name
		}
		return strconv.Itoa(i)
	}
	numbers[f.initial] = name(f.initial, 0)
	i := 1
	ordered.Each(func(_ int, v interface{}) {
		s := v.(*State)
		numbers[s] = name(s, i)
		i++
	})
	return numbers
}

func formatWeight(w wfst.Weight) string {
	return strconv.FormatFloat(float64(w), 'g', -1, 64)
}

// String renders f in the AT&T text format: one line per arc,
//
//    src ⟨tab⟩ dst ⟨tab⟩ in ⟨tab⟩ … ⟨tab⟩ out ⟨tab⟩ weight
//
// followed by one line per final state with its final weight.
func (f *FST) String() string {
	numbers := f.numberStates()
	ordered := make([]*State, 0, len(f.states))
	for s := range f.states {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i] == f.initial {
			return ordered[j] != f.initial
		}
		if ordered[j] == f.initial {
			return false
		}
		return ordered[i].serial < ordered[j].serial
	})
	var b bytes.Buffer
	for _, s := range ordered {
		keys := make([]string, 0, len(s.transitions))
		for key := range s.transitions {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, t := range s.transitions[key] {
				b.WriteString(numbers[s])
				b.WriteByte('\t')
				b.WriteString(numbers[t.Target])
				for _, sym := range t.Label {
					b.WriteByte('\t')
					b.WriteString(sym)
				}
				fmt.Fprintf(&b, "\t%s\n", formatWeight(t.Weight))
			}
		}
	}
	for _, s := range ordered {
		if f.finals[s] {
			fmt.Fprintf(&b, "%s\t%s\n", numbers[s], formatWeight(s.finalweight))
		}
	}
	return b.String()
}
