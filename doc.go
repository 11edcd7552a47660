/*
Package wfst is a toolbox for weighted finite-state transducers.

WFSTs are labeled, weighted, nondeterministic graphs whose paths accept pairs
of symbol sequences (generalizable to n tapes) and assign each path a cost in
the tropical semiring. Package structure is as follows:

■ fst: Package fst implements the transducer algebra: construction from
primitives, the closure/product family of operations (union, concatenation,
Kleene closure, composition, intersection, difference, cross-product, …),
structural simplification (trimming, epsilon-removal, determinization,
minimization, weight pushing), and path enumeration.

■ regex: Package regex compiles an extended regular-expression syntax into
transducers, using the algebra of package fst.

The base package contains data types which are used throughout the other
packages: label tuples and tropical weights.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package wfst
