/*
Package regex compiles extended regular expressions into weighted
finite-state transducers.

The surface syntax supports the usual operators — union '|', intersection
'&', difference '-', composition '@', juxtaposition for concatenation,
cross-product ':', closures '*' and '+', option '?' — plus character classes
with ranges and negation, quoted and escaped literals, numeric repetition
{m,n}, inline weights <w>, user-defined variables $name, and function calls
$^name(…). Functions resolve against a caller-supplied registry first, then
against the builtins reverse, invert, minimize, determinize and ignore.

The pipeline is conventional: a pattern-dispatch tokenizer, insertion of
implicit concatenation, a shunting-yard pass to postfix, and a postfix
evaluator driving the algebra of package fst. The compiled result is
trimmed, weight-pushed and minimized.

Diagnostics carry the source expression together with line and column of
the offending token; see Error.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package regex

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wfst.regex'.
func tracer() tracing.Trace {
	return tracing.Select("wfst.regex")
}
