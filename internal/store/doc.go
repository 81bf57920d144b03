// Package store provides a SQLite-backed log of translation runs.
//
// Every call to the compiler's Translate can be recorded as one row:
// which script was translated, the fingerprints of its IR, of the lowering
// options and of the produced module, and either the module itself or the
// stage and message of the failure.
//
// # Patterns
//
// Idempotency
//   - Successful rows are UNIQUE(ir_hash, options_hash, module_hash)
//   - Re-translating an unchanged program writes nothing new
//
// Logical time
//   - Rows are ordered by seq (a logical clock), never by timestamps
//   - Queries use ORDER BY seq, id COLLATE BINARY for deterministic results
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Fingerprints are computed by ir.Fingerprint, target.Fingerprint and
// lower.Options.Hash using canonical JSON and SHA-256 with domain separation.
package store
