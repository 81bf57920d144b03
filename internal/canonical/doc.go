// Package canonical provides the canonical JSON encoding and the
// domain-separated hashes used to fingerprint IR trees, lowered target
// modules and translation options.
//
// Canonical JSON follows RFC 8785 for the value subset this module produces:
// objects, arrays, strings, integers and booleans. Floats and null are
// rejected so that a fingerprint never depends on number formatting.
package canonical
