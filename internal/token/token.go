// Package token defines the lexical token kinds and source positions shared
// by the lexer and parser.
package token

import "fmt"

// Position is a 1-indexed line/column pair. Line 0 is never produced by the
// lexer; Position{} (the zero value) is reserved for internally generated
// errors that have no source location, matching NONE in the error model.
type Position struct {
	Line   int
	Column int
}

// None is the sentinel position for internal errors with no source origin.
var None = Position{}

// IsNone reports whether p is the sentinel "no position" value.
func (p Position) IsNone() bool { return p.Line == 0 }

func (p Position) String() string {
	if p.IsNone() {
		return "<none>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind identifies the lexical category of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	LEXERROR // carries a structured lex error; never fatal at tokenize time

	// Identifiers & literals.
	IDENT
	INT
	FLOAT
	DECIMAL
	CHAR
	STRING
	// Interpolated-string structural pieces: a run of literal text between
	// backtick/`${`/`}` boundaries, the `${` that opens an embedded
	// expression, and the `}` that closes it. A backtick string with no
	// interpolation at all is simply one INTERP_STRING_CHUNK with no
	// following INTERP_EXPR_START.
	INTERP_STRING_CHUNK
	INTERP_EXPR_START // ${
	INTERP_EXPR_END   // }

	literalsEnd

	// Keywords.
	keywordsStart
	LET
	CONST
	FN
	IF
	ELSE
	SWITCH
	WHILE
	LOOP
	DO
	UNTIL
	FOR
	IN
	BREAK
	CONTINUE
	RETURN
	THROW
	TRY
	CATCH
	IMPORT
	EXPORT
	AS
	TRUE
	FALSE
	keywordsEnd

	// Operators & punctuation.
	PLUS
	MINUS
	UNARY_MINUS // disambiguated at parse time from MINUS
	UNARY_PLUS
	STAR
	SLASH
	PERCENT
	POW

	EQ
	NEQ
	LT
	LTE
	GT
	GTE

	AND // &&
	OR  // ||
	NOT // !
	COALESCE // ??

	BIT_AND
	BIT_OR
	BIT_XOR
	BIT_NOT
	SHL
	SHR

	RANGE       // ..
	RANGE_INCL  // ..=

	ASSIGN // =
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN

	QUESTION_DOT   // ?.
	QUESTION_INDEX // ?[
	DOT
	COMMA
	COLON
	SEMICOLON
	ARROW // ->, reserved for future use, not part of any grammar rule yet

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	PIPE // | closure parameter delimiter in prefix position, bitwise or in infix position (the lexer emits PIPE, not BIT_OR, for a single |)
	HASH // # prefixing a map literal: #{ ... }

	DOC_COMMENT
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", LEXERROR: "LEXERROR",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", DECIMAL: "DECIMAL",
	CHAR: "CHAR", STRING: "STRING",
	INTERP_STRING_CHUNK: "INTERP_STRING_CHUNK",
	INTERP_EXPR_START:   "INTERP_EXPR_START",
	INTERP_EXPR_END:     "INTERP_EXPR_END",
	LET: "let", CONST: "const", FN: "fn", IF: "if", ELSE: "else", SWITCH: "switch",
	WHILE: "while", LOOP: "loop", DO: "do", UNTIL: "until", FOR: "for", IN: "in",
	BREAK: "break", CONTINUE: "continue", RETURN: "return", THROW: "throw",
	TRY: "try", CATCH: "catch", IMPORT: "import", EXPORT: "export", AS: "as",
	TRUE: "true", FALSE: "false",
	PLUS: "+", MINUS: "-", UNARY_MINUS: "u-", UNARY_PLUS: "u+", STAR: "*",
	SLASH: "/", PERCENT: "%", POW: "**",
	EQ: "==", NEQ: "!=", LT: "<", LTE: "<=", GT: ">", GTE: ">=",
	AND: "&&", OR: "||", NOT: "!", COALESCE: "??",
	BIT_AND: "&", BIT_OR: "|", BIT_XOR: "^", BIT_NOT: "~", SHL: "<<", SHR: ">>",
	RANGE: "..", RANGE_INCL: "..=",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=",
	SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=",
	QUESTION_DOT: "?.", QUESTION_INDEX: "?[", DOT: ".", COMMA: ",", COLON: ":",
	SEMICOLON: ";", ARROW: "->",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	PIPE: "|", HASH: "#", DOC_COMMENT: "DOC_COMMENT",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps the textual spelling to its Kind, built once from names so
// the two tables cannot drift.
var keywords = func() map[string]Kind {
	m := make(map[string]Kind, keywordsEnd-keywordsStart)
	for k := keywordsStart + 1; k < keywordsEnd; k++ {
		m[names[k]] = k
	}
	return m
}()

// LookupIdent reports the keyword Kind for ident, or IDENT if it is not a
// reserved word. Reserved words may never be used as identifiers; the
// parser consults this to reject shadowing attempts (spec §4.1).
func LookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// IsReserved reports whether ident is a language keyword.
func IsReserved(ident string) bool {
	_, ok := keywords[ident]
	return ok
}

// Token is one lexical unit together with the position of its first rune.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Literal, t.Pos)
}
