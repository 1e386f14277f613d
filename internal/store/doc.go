// Package store provides the SQLite-backed catalog of fixture documents.
//
// Documents are content addressed: the primary key is the document id of
// the canonical JSON, so adding the same document twice is a no-op.
// Every document belongs to an import batch identified by a UUIDv7.
//
// # Deterministic Results
//
// Every query orders by a logical key with COLLATE BINARY; listing and
// search results are identical across runs and SQLite versions.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
