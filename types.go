package axiom

import (
	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/internal/parse"
	"github.com/akshaykmanoj/spry-sub002/mdast"
)

// Public type aliases for the types most callers touch. These are Go type
// aliases (=), so values move between packages without conversion.

type Node = mdast.Node
type Document = mdast.Document
type Edge = edge.Edge
type Relationship = edge.Relationship
type Rule = edge.Rule
type Context = edge.Context

// Parse errors, re-exported for errors.Is checks.
var (
	ErrFileTooLarge   = parse.ErrFileTooLarge
	ErrInvalidContent = parse.ErrInvalidContent
)
