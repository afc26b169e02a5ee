// Code generated by "stringer -type=tokType"; adapted by hand because the
// generated file is not checked in and `go generate` was not run for this
// build. Keep the name list in lockstep with the tokType const block in
// lexer.go.

package jmespath

import "strconv"

var tokTypeNames = [...]string{
	"tUnknown",
	"tStar",
	"tDot",
	"tFilter",
	"tFlatten",
	"tLparen",
	"tRparen",
	"tLbracket",
	"tRbracket",
	"tLbrace",
	"tRbrace",
	"tOr",
	"tPipe",
	"tNumber",
	"tUnquotedIdentifier",
	"tQuotedIdentifier",
	"tComma",
	"tColon",
	"tLT",
	"tLTE",
	"tGT",
	"tGTE",
	"tEQ",
	"tNE",
	"tJSONLiteral",
	"tStringLiteral",
	"tCurrent",
	"tExpref",
	"tAnd",
	"tNot",
	"tEOF",
}

func (t tokType) String() string {
	if t < 0 || int(t) >= len(tokTypeNames) {
		return "tokType(" + strconv.Itoa(int(t)) + ")"
	}
	return tokTypeNames[t]
}
