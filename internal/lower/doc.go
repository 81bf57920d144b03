// Package lower rewrites IR trees into the backend's untyped target tree.
//
// Lowerer implements ir.Visitor[Fragment]. Each visit produces a Fragment
// (an expression, a definition or a whole script) and callers narrow it with
// AsExpr, AsDefinition or AsScript, which fail with an *Error instead of
// panicking. Assemble wraps a lowered script into a validator module.
//
// Lowering is a pure function of the input tree and the Options: a Lowerer
// holds no mutable state and never modifies the IR. The first error aborts
// the pass; there are no partial results.
//
// Two rules are deliberately approximate and are controlled by Options:
//   - if statements: by default both the branch body and the final else are
//     lowered from the else arm (IfBranchElse); IfBranchThen uses the then arm
//     for the branch body
//   - float literals: by default only finite integral values are accepted
//     (FloatsRejectFractional); FloatsText passes the shortest decimal text
//     through unchecked
//
// The operator table maps both < and <= to LtEqInt.
package lower
