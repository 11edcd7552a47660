/*
Package fst implements an algebra for weighted finite-state transducers
over the tropical semiring.

Transducers are built from primitives (single labels, character ranges,
right-linear grammars) and combined with the usual closure/product family of
operations: union, concatenation, Kleene closure, composition, intersection,
difference, cross-product, projection, inversion, reversal. Structural
simplification covers trimming, epsilon-removal, determinization (weighted
and DFA-style), Brzozowski minimization and weight pushing. Path enumeration
yields the accepted words either breadth-first or in order of increasing
cost.

A transducer owns its states exclusively. Binary operations never mutate
their operands; they work on copies of the operand state graphs. The unary
operations AddWeight, Invert, Project and Optional mutate in place and
return the receiver to allow chaining.

The package is not safe for concurrent use; every operation is synchronous
and returns on completion.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fst

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wfst.fst'.
func tracer() tracing.Trace {
	return tracing.Select("wfst.fst")
}
