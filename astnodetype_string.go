// Code generated by "stringer -type ASTNodeType"; adapted by hand because
// the generated file is not checked in and `go generate` was not run for
// this build. Keep the name list in lockstep with the ASTNodeType const
// block in parser.go.

package jmespath

import "strconv"

var astNodeTypeNames = [...]string{
	"ASTEmpty",
	"ASTComparator",
	"ASTCurrentNode",
	"ASTExpRef",
	"ASTFunctionExpression",
	"ASTField",
	"ASTFilterProjection",
	"ASTFlatten",
	"ASTIdentity",
	"ASTIndex",
	"ASTIndexExpression",
	"ASTKeyValPair",
	"ASTLiteral",
	"ASTMultiSelectHash",
	"ASTMultiSelectList",
	"ASTOrExpression",
	"ASTAndExpression",
	"ASTNotExpression",
	"ASTPipe",
	"ASTProjection",
	"ASTSubexpression",
	"ASTSlice",
	"ASTValueProjection",
}

func (t ASTNodeType) String() string {
	if t < 0 || int(t) >= len(astNodeTypeNames) {
		return "ASTNodeType(" + strconv.Itoa(int(t)) + ")"
	}
	return astNodeTypeNames[t]
}
