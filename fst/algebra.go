package fst

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/wfst"
)

// --- Alphabet harmonization ------------------------------------------------

// harmonize prepares two operands for a binary operation: a side whose
// alphabet contains the wildcard, facing a side with a different alphabet,
// is replaced by a copy on which every wildcard arc is accompanied by
// parallel arcs over the other side's surplus symbols. The returned map is
// the union alphabet for the operation's result.
func harmonize(a, b *FST) (*FST, *FST, map[string]bool) {
	union := make(map[string]bool, len(a.alphabet)+len(b.alphabet))
	for sym := range a.alphabet {
		union[sym] = true
	}
	for sym := range b.alphabet {
		union[sym] = true
	}
	a2 := expandWildcards(a, b)
	b2 := expandWildcards(b, a)
	return a2, b2, union
}

func expandWildcards(a, other *FST) *FST {
	if !a.alphabet[wfst.Any] || alphabetsAgree(a, other) {
		return a
	}
	expand := make([]string, 0, len(other.alphabet))
	for sym := range other.alphabet {
		if !a.alphabet[sym] && sym != wfst.Any && sym != wfst.Epsilon {
			expand = append(expand, sym)
		}
	}
	cp, _ := a.copyFiltered(nil)
	eachTransition(cp.states, func(s *State, t Transition) {
		wild := false
		for _, sym := range t.Label {
			if sym == wfst.Any {
				wild = true
				break
			}
		}
		if !wild {
			return
		}
		for _, sym := range expand {
			substituted := make(wfst.Label, len(t.Label))
			for i, lsym := range t.Label {
				if lsym == wfst.Any {
					substituted[i] = sym
				} else {
					substituted[i] = lsym
				}
			}
			s.AddTransition(t.Target, substituted, t.Weight)
		}
	})
	return cp
}

// alphabetsAgree compares the two alphabets modulo the wildcard.
func alphabetsAgree(a, b *FST) bool {
	count := func(f *FST) int {
		n := len(f.alphabet)
		if f.alphabet[wfst.Any] {
			n--
		}
		return n
	}
	if count(a) != count(b) {
		return false
	}
	for sym := range a.alphabet {
		if sym != wfst.Any && !b.alphabet[sym] {
			return false
		}
	}
	return true
}

// --- Union, concatenation, closure -----------------------------------------

// Union returns an FST accepting the union of the two weighted languages.
// A fresh initial state fans out into copies of both operand graphs; the
// operands are not mutated.
func (f *FST) Union(other *FST) *FST {
	a, b, alphabet := harmonize(f, other)
	u := New()
	u.alphabet = alphabet
	q1 := adoptImages(u, a)
	q2 := adoptImages(u, b)
	a.initial.EachTransition(func(label wfst.Label, t Transition) {
		u.initial.AddTransition(q1[t.Target], label, t.Weight)
	})
	b.initial.EachTransition(func(label wfst.Label, t Transition) {
		u.initial.AddTransition(q2[t.Target], label, t.Weight)
	})
	eachTransition(a.states, func(s *State, t Transition) {
		q1[s].AddTransition(q1[t.Target], t.Label, t.Weight)
	})
	eachTransition(b.states, func(s *State, t Transition) {
		q2[s].AddTransition(q2[t.Target], t.Label, t.Weight)
	})
	for s := range a.finals {
		u.SetFinal(q1[s], s.finalweight)
	}
	for s := range b.finals {
		u.SetFinal(q2[s], s.finalweight)
	}
	if a.finals[a.initial] || b.finals[b.initial] {
		u.SetFinal(u.initial, wfst.Min(a.initial.finalweight, b.initial.finalweight))
	}
	return u
}

// adoptImages creates one fresh state in owner per state of f and returns
// the mapping. Unlike imageStates, f's initial state maps to a fresh state,
// not to owner's initial.
func adoptImages(owner *FST, f *FST) map[*State]*State {
	images := make(map[*State]*State, len(f.states))
	for s := range f.states {
		images[s] = owner.NewState()
	}
	return images
}

// Concatenate returns an FST accepting u·v for u accepted by f and v by
// other, with weights added. No epsilon transitions are introduced: the
// second operand's initial arcs are replayed from the first operand's final
// states. The operands are not mutated; the result may contain
// non-accessible states.
func (f *FST) Concatenate(other *FST) *FST {
	a, b, alphabet := harmonize(f, other)
	bcopy, _ := b.copyFiltered(nil) // f may equal other
	c := New()
	c.alphabet = alphabet
	images := a.imageStates(c)
	eachTransition(a.states, func(s *State, t Transition) {
		images[s].AddTransition(images[t.Target], t.Label, t.Weight)
	})
	for s := range bcopy.states {
		c.states[s] = true
	}
	for s := range a.finals {
		fw := s.finalweight
		bcopy.initial.EachTransition(func(label wfst.Label, t Transition) {
			images[s].AddTransition(t.Target, label, t.Weight+fw)
		})
	}
	for s := range bcopy.finals {
		c.SetFinal(s, s.finalweight)
	}
	if bcopy.finals[bcopy.initial] {
		for s := range a.finals {
			c.SetFinal(images[s], s.finalweight+bcopy.initial.finalweight)
		}
	}
	return c
}

// KleeneStar returns the Kleene closure of f. No epsilon transitions are
// introduced; every final state replays the initial state's arcs.
func (f *FST) KleeneStar() *FST {
	return f.kleeneClosure(false)
}

// KleenePlus returns the positive closure of f: at least one iteration.
func (f *FST) KleenePlus() *FST {
	return f.kleeneClosure(true)
}

func (f *FST) kleeneClosure(plus bool) *FST {
	k := New()
	k.alphabet = f.copyAlphabet()
	images := adoptImages(k, f)
	f.initial.EachTransition(func(label wfst.Label, t Transition) {
		k.initial.AddTransition(images[t.Target], label, t.Weight)
	})
	eachTransition(f.states, func(s *State, t Transition) {
		images[s].AddTransition(images[t.Target], t.Label, t.Weight)
	})
	for s := range f.finals {
		f.initial.EachTransition(func(label wfst.Label, t Transition) {
			images[s].AddTransition(images[t.Target], label, t.Weight)
		})
		k.SetFinal(images[s], s.finalweight)
	}
	if !plus || f.finals[f.initial] {
		k.SetFinal(k.initial, 0)
	}
	return k
}

// Optional makes f accept the empty word with weight 0, the same as f|ε.
// Mutates and returns f; if the initial state is already final, f is
// returned unchanged.
func (f *FST) Optional() *FST {
	if f.finals[f.initial] {
		return f
	}
	mirror := f.NewState()
	f.initial.EachTransition(func(label wfst.Label, t Transition) {
		mirror.AddTransition(t.Target, label, t.Weight)
	})
	f.initial = mirror
	f.SetFinal(mirror, 0)
	return f
}

// AddWeight adds w to every final weight. Mutates and returns f.
func (f *FST) AddWeight(w wfst.Weight) *FST {
	for s := range f.finals {
		s.finalweight += w
	}
	return f
}

// --- Reversal, inversion, projection ---------------------------------------

// Invert flips every label tuple, exchanging input and output tapes.
// Mutates and returns f.
func (f *FST) Invert() *FST {
	for s := range f.states {
		s.relabel(wfst.Label.Inverted)
	}
	return f
}

// Project keeps only tape dim of every label; dim = -1 selects the last
// tape. Mutates and returns f.
func (f *FST) Project(dim int) *FST {
	for s := range f.states {
		s.relabel(func(l wfst.Label) wfst.Label { return l.Projected(dim) })
	}
	return f
}

// Reverse returns an epsilon-free reversal of f: arcs flip direction, a
// fresh initial state anticipates the (reversed) final entries, and the old
// initial state becomes final with weight 0. If f's initial state is final,
// the fresh initial state is final as well, carrying that final weight.
func (f *FST) Reverse() *FST {
	r := New()
	r.alphabet = f.copyAlphabet()
	images := adoptImages(r, f)
	r.SetFinal(images[f.initial], 0)
	if f.finals[f.initial] {
		r.SetFinal(r.initial, f.initial.finalweight)
	}
	eachTransition(f.states, func(s *State, t Transition) {
		images[t.Target].AddTransition(images[s], t.Label, t.Weight)
		if f.finals[t.Target] {
			r.initial.AddTransition(images[s], t.Label, t.Weight+t.Target.finalweight)
		}
	})
	return r
}

// --- Composition -----------------------------------------------------------

// composition filter modes; see Compose.
const (
	modeMatch = iota // both sides move (or both take epsilon)
	modeAWait        // only A moves on epsilon output
	modeBWait        // only B moves on epsilon input
)

type composePair struct {
	a, b *State
	mode int
}

// Compose returns the composition f ∘ other, matching f's last tape against
// other's first tape. Acceptors are expanded into 2-tape transducers on the
// fly by the label merge rule.
//
// Epsilon moves are disambiguated by a three-mode filter: in mode 0 both
// sides advance together (on a shared symbol, or both on epsilon); mode 1
// lets f advance alone on an epsilon-output arc and mode 2 lets other
// advance alone on an epsilon-input arc. The asymmetric modes are entered
// from mode 0 only and never cross, which rules out duplicate epsilon
// alignments.
func (f *FST) Compose(other *FST) *FST {
	a, b, alphabet := harmonize(f, other)
	c := New()
	c.alphabet = alphabet
	start := composePair{a: a.initial, b: b.initial, mode: modeMatch}
	pairs := map[composePair]*State{start: c.initial}
	stack := arraystack.New()
	stack.Push(start)
	visit := func(pair composePair) *State {
		s, ok := pairs[pair]
		if !ok {
			s = c.NewState()
			pairs[pair] = s
			stack.Push(pair)
		}
		return s
	}
	for !stack.Empty() {
		top, _ := stack.Pop()
		pair := top.(composePair)
		current := pairs[pair]
		if a.finals[pair.a] && b.finals[pair.b] {
			c.SetFinal(current, pair.a.finalweight+pair.b.finalweight)
		}
		aOut := pair.a.TransitionsOut()
		bIn := pair.b.TransitionsIn()
		for matchsym, outArcs := range aOut {
			if pair.mode != modeMatch && matchsym == wfst.Epsilon {
				continue
			}
			for _, out := range outArcs {
				for _, in := range bIn[matchsym] {
					target := visit(composePair{a: out.Target, b: in.Target, mode: modeMatch})
					current.AddTransition(target, out.Label.Merge(in.Label), out.Weight+in.Weight)
				}
			}
		}
		if pair.mode != modeBWait { // B waits
			for _, out := range aOut[wfst.Epsilon] {
				target := visit(composePair{a: out.Target, b: pair.b, mode: modeAWait})
				current.AddTransition(target, out.Label, out.Weight)
			}
		}
		if pair.mode != modeAWait { // A waits
			for _, in := range bIn[wfst.Epsilon] {
				target := visit(composePair{a: pair.a, b: in.Target, mode: modeBWait})
				current.AddTransition(target, in.Label, in.Weight)
			}
		}
	}
	return c
}

// CrossProduct returns the transducer mapping every word of f to every word
// of other, built by lifting both operands onto two tapes and composing.
func (f *FST) CrossProduct(other *FST) *FST {
	a, b, alphabet := harmonize(f, other)
	lifted := a.copyMod(func(l wfst.Label, _ wfst.Weight) wfst.Label {
		return l.Extended(false, wfst.Epsilon)
	}, nil)
	lifting := b.copyMod(func(l wfst.Label, _ wfst.Weight) wfst.Label {
		return l.Extended(true, wfst.Epsilon)
	}, nil)
	x := lifted.Compose(lifting)
	x.alphabet = alphabet
	return x
}

// Ignore returns f with arbitrary insertions of other's words between any
// positions, via f ∘ (. ∪ (ε:other))* projected to the output tape.
func (f *FST) Ignore(other *FST) *FST {
	inserter := FromLabel(wfst.Label{wfst.Any}, 0).
		Union(FromLabel(wfst.Label{wfst.Epsilon}, 0).CrossProduct(other)).
		KleeneStar()
	return f.Compose(inserter).Project(-1)
}

// --- Intersection and difference -------------------------------------------

// Intersect returns the FST accepting the intersection of the two weighted
// languages, with path weights ⊗-combined.
func (f *FST) Intersect(other *FST) *FST {
	a, b, alphabet := harmonize(f, other)
	p := a.product(b,
		func(inA, inB bool) bool { return inA && inB },
		func(w1, w2 wfst.Weight) wfst.Weight { return w1 + w2 },
		followBoth)
	p.alphabet = alphabet
	return p
}

// Difference returns the FST accepting f's weighted language minus other's.
// For a correct set difference, other should be determinized and
// epsilon-free.
func (f *FST) Difference(other *FST) *FST {
	a, b, alphabet := harmonize(f, other)
	p := a.product(b,
		func(inA, inB bool) bool { return inA && !inB },
		func(w1, _ wfst.Weight) wfst.Weight { return w1 },
		followEither)
	p.alphabet = alphabet
	return p
}

// pathfollow strategies: which labels to visit at a product state.
func followBoth(a, b map[string][]Transition) map[string]wfst.Label {
	follow := make(map[string]wfst.Label)
	for key, arcs := range a {
		if _, ok := b[key]; ok {
			follow[key] = arcs[0].Label
		}
	}
	return follow
}

func followEither(a, b map[string][]Transition) map[string]wfst.Label {
	follow := make(map[string]wfst.Label)
	for key, arcs := range a {
		follow[key] = arcs[0].Label
	}
	for key, arcs := range b {
		follow[key] = arcs[0].Label
	}
	return follow
}

type productPair struct {
	a, b *State
}

// product is the generic Cartesian product construction behind Intersect
// and Difference. Labels missing on one side are routed through a
// non-final sink with infinite weight.
func (f *FST) product(other *FST, finalf func(bool, bool) bool,
	oplus func(wfst.Weight, wfst.Weight) wfst.Weight,
	pathfollow func(a, b map[string][]Transition) map[string]wfst.Label) *FST {
	//
	p := New()
	deadA, deadB := newState(), newState()
	start := productPair{a: f.initial, b: other.initial}
	pairs := map[productPair]*State{start: p.initial}
	stack := arraystack.New()
	stack.Push(start)
	for !stack.Empty() {
		top, _ := stack.Pop()
		pair := top.(productPair)
		current := pairs[pair]
		if finalf(f.finals[pair.a], other.finals[pair.b]) {
			p.SetFinal(current, oplus(pair.a.finalweight, pair.b.finalweight))
		}
		arcsA := pair.a.transitions
		arcsB := pair.b.transitions
		for key, label := range pathfollow(arcsA, arcsB) {
			outs := arcsA[key]
			if len(outs) == 0 {
				outs = []Transition{{Target: deadA, Label: label, Weight: wfst.Inf()}}
			}
			ins := arcsB[key]
			if len(ins) == 0 {
				ins = []Transition{{Target: deadB, Label: label, Weight: wfst.Inf()}}
			}
			for _, out := range outs {
				for _, in := range ins {
					succ := productPair{a: out.Target, b: in.Target}
					target, ok := pairs[succ]
					if !ok {
						target = p.NewState()
						pairs[succ] = target
						stack.Push(succ)
					}
					current.AddTransition(target, label, oplus(out.Weight, in.Weight))
				}
			}
		}
	}
	return p
}
