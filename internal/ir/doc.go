// Package ir provides the intermediate representation consumed by the
// lowering pass: a typed tree of definitions, statements and expressions.
//
// This package imports nothing internal except canonical. Every other
// internal package builds on ir, never the other way round.
//
// Key design constraints:
//   - Node, Expr, Literal and Type are closed unions (unexported marker methods)
//   - Nodes are immutable once built; passes read them and allocate new trees
//   - One IR model; each node reports its Layer (module, definition,
//     statement, expression) instead of living in a parallel taxonomy
//   - Traversals implement Visitor and are driven by Visit/VisitExpr, so
//     adding a node kind breaks every traversal at compile time
//   - All JSON uses snake_case and a "kind" discriminator
package ir
