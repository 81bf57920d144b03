// Package target models the untyped syntax tree accepted by the smart-contract
// backend: expressions, function definitions and the module that carries them.
//
// The backend type checks and generates code from this tree; here it is only
// built, rendered (Format), encoded (Encode, MarshalModule) and fingerprinted.
// Like the IR, the tree is walked through a Visitor driven by free dispatch
// functions.
package target
