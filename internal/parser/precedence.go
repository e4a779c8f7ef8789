package parser

import "github.com/weavelang/weave/internal/token"

// Precedence levels, lowest to highest (spec §4.1's expression grammar).
// Grounded on the teacher's precedences table/LOWEST..MEMBER constants,
// reordered to Weave's actual operator set: && / || / ?? are lowered to
// their own short-circuiting AST nodes rather than BinaryExpr (spec §4.2)
// but still need a slot in the climbing order. Range (`..`/`..=`) has no
// teacher analog; it sits between `&&` and `==`, so a range binds
// tighter than the boolean operators and looser than equality.
const (
	_ int = iota
	LOWEST
	COALESCE // ??
	OR       // ||
	AND      // &&
	RANGE    // .. ..=
	EQUALITY // == !=
	COMPARE  // < <= > >= in
	BITOR    // |
	BITXOR   // ^
	BITAND   // &
	SHIFT    // << >>
	SUM      // + -
	PRODUCT  // * / %
	POWER    // **
	PREFIX   // unary - + ! ~
	POSTFIX  // call / index / member / ?. ?[
)

var precedenceTable = map[token.Kind]int{
	token.COALESCE:   COALESCE,
	token.OR:         OR,
	token.AND:        AND,
	token.RANGE:      RANGE,
	token.RANGE_INCL: RANGE,
	token.EQ:         EQUALITY,
	token.NEQ:        EQUALITY,
	token.LT:         COMPARE,
	token.LTE:        COMPARE,
	token.GT:         COMPARE,
	token.GTE:        COMPARE,
	token.IN:         COMPARE,
	token.BIT_OR:     BITOR,
	token.PIPE:       BITOR, // the lexer never distinguishes standalone "|" from BIT_OR; see parseBitOrInfix
	token.BIT_XOR:    BITXOR,
	token.BIT_AND:    BITAND,
	token.SHL:        SHIFT,
	token.SHR:        SHIFT,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.STAR:       PRODUCT,
	token.SLASH:      PRODUCT,
	token.PERCENT:    PRODUCT,
	token.POW:        POWER,
	token.LBRACKET:       POSTFIX,
	token.QUESTION_INDEX: POSTFIX,
	token.DOT:            POSTFIX,
	token.QUESTION_DOT:   POSTFIX,
}

func precedenceOf(k token.Kind) int {
	if prec, ok := precedenceTable[k]; ok {
		return prec
	}
	return LOWEST
}
