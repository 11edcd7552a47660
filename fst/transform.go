package fst

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/wfst"
)

// PushWeights pushes weights toward the initial state: every arc weight is
// re-expressed relative to the cheapest-to-final potentials of its endpoints,
// and final weights discharge their potential. The residual potential of the
// initial state is distributed onto all arcs exiting the initial state's SCC
// and onto all final states within it (if the initial state lies on a cycle,
// no single arc can absorb the residual). Mutates and returns f.
func (f *FST) PushWeights() *FST {
	potentials := f.DijkstraAll()
	for s := range f.states {
		for key, arcs := range s.transitions {
			for i := range arcs {
				phiT, phiS := potentials[arcs[i].Target], potentials[s]
				if phiT.IsInf() || phiS.IsInf() {
					arcs[i].Weight = wfst.Inf()
				} else {
					arcs[i].Weight += phiT - phiS
				}
			}
			s.transitions[key] = arcs
		}
		s.mutated()
	}
	for s := range f.finals {
		s.finalweight -= potentials[s]
	}
	residual := potentials[f.initial]
	if residual != 0 {
		tracer().Debugf("push_weights: distributing residual %v over initial SCC", residual)
		var mainscc map[*State]bool
		for _, scc := range f.SCC() {
			if scc[f.initial] {
				mainscc = scc
				break
			}
		}
		for s := range mainscc {
			for key, arcs := range s.transitions {
				for i := range arcs {
					if !mainscc[arcs[i].Target] { // arc exits the initial SCC
						arcs[i].Weight += residual
					}
				}
				s.transitions[key] = arcs
			}
			s.mutated()
			if f.finals[s] {
				s.finalweight += residual
			}
		}
	}
	return f
}

// EpsilonRemoval returns an equivalent FST without epsilon transitions: for
// every state, the non-epsilon arcs (and finality) of its epsilon closure
// are folded back onto the state, with the closure cost added. If every
// epsilon closure is empty (f has no epsilon transitions, or only epsilon
// self-loops), f is returned unchanged.
func (f *FST) EpsilonRemoval() *FST {
	eclosures := make(map[*State]map[*State]wfst.Weight, len(f.states))
	empty := true
	for s := range f.states {
		ec := f.EpsilonClosure(s)
		eclosures[s] = ec
		if len(ec) > 0 {
			empty = false
		}
	}
	if empty {
		return f
	}
	cp, image := f.copyFiltered(func(l wfst.Label) bool { return !l.IsEpsilon() })
	for state, ec := range eclosures {
		for target, cost := range ec {
			target.EachTransition(func(label wfst.Label, t Transition) {
				if label.IsEpsilon() {
					return
				}
				image[state].AddTransition(image[t.Target], label, cost+t.Weight)
			})
			if f.finals[target] {
				ns := image[state]
				w := cost + target.finalweight
				if !cp.finals[ns] {
					cp.SetFinal(ns, w)
				} else {
					ns.finalweight = wfst.Min(ns.finalweight, w)
				}
			}
		}
	}
	return cp
}

// --- Determinization -------------------------------------------------------

// detMember is one member of a determinization macro-state: an original
// state together with the weight debt not yet discharged onto an arc.
type detMember struct {
	state    *State
	residual wfst.Weight
}

// detKey is the canonical, hashable form of a macro-state.
type detKey struct {
	ID       uint32
	Residual float64
}

func macroKey(members []detMember) string {
	keys := make([]detKey, len(members))
	for i, m := range members {
		keys[i] = detKey{ID: m.state.serial, Residual: float64(m.residual)}
	}
	hash, err := structhash.Hash(struct{ Members []detKey }{keys}, 1)
	if err != nil {
		panic(fmt.Sprintf("cannot hash macro-state: %v", err))
	}
	return hash
}

// canonical sorts members by state and residual and drops exact duplicates.
func canonical(members []detMember) []detMember {
	sort.Slice(members, func(i, j int) bool {
		if members[i].state.serial != members[j].state.serial {
			return members[i].state.serial < members[j].state.serial
		}
		return members[i].residual < members[j].residual
	})
	dedup := members[:0]
	for i, m := range members {
		if i > 0 && m == members[i-1] {
			continue
		}
		dedup = append(dedup, m)
	}
	return dedup
}

// Determinize performs weighted subset construction over the tropical
// semiring. The result has at most one outgoing arc per label per state and
// accepts the same weighted language. Residual weights ("debt") carried in
// the macro-states discharge onto later arcs or final weights.
func (f *FST) Determinize() *FST {
	return f.determinize(
		func(w wfst.Weight) wfst.Weight { return w },
		func(ws []wfst.Weight) wfst.Weight {
			min := ws[0]
			for _, w := range ws[1:] {
				min = wfst.Min(min, w)
			}
			return min
		})
}

// DeterminizeUnweighted is plain DFA subset construction: residuals are
// dropped and all constructed arcs carry weight 0.
func (f *FST) DeterminizeUnweighted() *FST {
	return f.determinize(
		func(wfst.Weight) wfst.Weight { return 0 },
		func([]wfst.Weight) wfst.Weight { return 0 })
}

// DeterminizeAsDFA shifts every arc weight into an extra label tape, runs
// unweighted subset construction, and shifts the weights back. Weights thus
// distinguish arcs instead of being ⊕-combined.
func (f *FST) DeterminizeAsDFA() *FST {
	shifted := f.copyMod(
		func(l wfst.Label, w wfst.Weight) wfst.Label {
			return l.Extended(false, formatWeight(w))
		},
		func(wfst.Label, wfst.Weight) wfst.Weight { return 0 })
	determinized := shifted.DeterminizeUnweighted()
	return determinized.copyMod(
		func(l wfst.Label, _ wfst.Weight) wfst.Label {
			return l[:len(l)-1]
		},
		func(l wfst.Label, _ wfst.Weight) wfst.Weight {
			w, err := strconv.ParseFloat(l.Out(), 64)
			if err != nil {
				panic(fmt.Sprintf("malformed weight tape %q", l.Out()))
			}
			return wfst.Weight(w)
		})
}

// determinize is the common core. staterep transforms the residual carried
// into successor macro-states; oplus combines the weights competing for one
// arc.
func (f *FST) determinize(staterep func(wfst.Weight) wfst.Weight,
	oplus func([]wfst.Weight) wfst.Weight) *FST {
	//
	cp := New()
	cp.alphabet = f.copyAlphabet()
	first := []detMember{{state: f.initial, residual: 0}}
	macros := map[string]*State{macroKey(first): cp.initial}
	if f.finals[f.initial] {
		cp.SetFinal(cp.initial, f.initial.finalweight)
	}
	type arcGroup struct {
		label wfst.Label
		arcs  []Transition
		from  []detMember
	}
	stack := arraystack.New()
	stack.Push(first)
	for !stack.Empty() {
		top, _ := stack.Pop()
		currentQ := top.([]detMember)
		current := macros[macroKey(currentQ)]
		// collect, per outgoing label, every (member, arc) pair of the macro
		collect := make(map[string]*arcGroup)
		var keys []string
		for _, m := range currentQ {
			m.state.EachTransition(func(label wfst.Label, t Transition) {
				key := label.Key()
				grp, ok := collect[key]
				if !ok {
					grp = &arcGroup{label: label}
					collect[key] = grp
					keys = append(keys, key)
				}
				grp.arcs = append(grp.arcs, t)
				grp.from = append(grp.from, m)
			})
		}
		sort.Strings(keys)
		for _, key := range keys {
			grp := collect[key]
			// wprime is the most the competing arcs have in common; paths may
			// accumulate debt, stored in the successor macro-state for future
			// discharge.
			weights := make([]wfst.Weight, len(grp.arcs))
			for i, t := range grp.arcs {
				weights[i] = t.Weight + grp.from[i].residual
			}
			wprime := oplus(weights)
			newQ := make([]detMember, len(grp.arcs))
			anyFinal := false
			var finalWeights []wfst.Weight
			for i, t := range grp.arcs {
				newQ[i] = detMember{
					state:    t.Target,
					residual: staterep(t.Weight + grp.from[i].residual - wprime),
				}
				if f.finals[t.Target] {
					anyFinal = true
					finalWeights = append(finalWeights,
						t.Target.finalweight+staterep(t.Weight+grp.from[i].residual-wprime))
				}
			}
			newQ = canonical(newQ)
			qkey := macroKey(newQ)
			newstate, seen := macros[qkey]
			if !seen {
				newstate = cp.NewState()
				macros[qkey] = newstate
				stack.Push(newQ)
			}
			current.AddTransition(newstate, grp.label, wprime)
			if anyFinal {
				cp.SetFinal(newstate, oplus(finalWeights))
			}
		}
	}
	return cp
}

// Minimize minimizes through Brzozowski's double reversal: reverse, then
// determinize, then reverse and determinize again.
func (f *FST) Minimize() *FST {
	return f.Reverse().Determinize().Reverse().Determinize()
}
