package regex

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// parse shunts the augmented token stream into postfix order. Operands and
// postfix unaries flush directly to the output; COMPLEMENT, FUNC and LPAREN
// are stacked. A closing parenthesis pops to its LPAREN and then emits a
// function head sitting below. Binary operators pop all stacked operators
// of greater or equal precedence (every binary operator associates left).
//
// An unmatched LPAREN survives into the postfix stream and is rejected by
// the compiler.
func parse(tokens []token, source string) ([]token, error) {
	var output, stack []token
	for _, tok := range tokens {
		switch {
		case isOperand(tok.op) || isUnaryPostfix(tok.op):
			output = append(output, tok)
		case tok.op == tokComplement || tok.op == tokFunc || tok.op == tokLParen:
			stack = append(stack, tok)
		case tok.op == tokRParen:
			for {
				if len(stack) == 0 {
					return nil, newError(ParseError, "too many closing parentheses",
						tok.line, tok.col, source)
				}
				if stack[len(stack)-1].op == tokLParen {
					break
				}
				output = append(output, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = stack[:len(stack)-1] // discard the LPAREN
			if len(stack) > 0 && stack[len(stack)-1].op == tokFunc {
				output = append(output, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
		default:
			prec, isOperator := precedence[tok.op]
			if !isOperator {
				continue
			}
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				topPrec, topIsOperator := precedence[top.op]
				if !topIsOperator || topPrec < prec {
					break
				}
				output = append(output, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		}
	}
	for len(stack) > 0 {
		output = append(output, stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}
	return output, nil
}
