// Package store provides ordered in-memory tables with sequential identity
// assignment.
//
// A Table holds entities of one kind in insertion order. Insert assigns the
// next sequential id (starting at 1) and the id is immutable afterwards;
// Scan returns the full ordered sequence; FindByID is a map lookup used by
// join resolution and entity materialization.
//
// CONCURRENCY:
//
// Tables follow a single-exclusive-writer, multiple-reader discipline:
// Insert takes the write lock, Scan/FindByID/Rows take the read lock. Scan
// and Rows return copies, so callers never observe a partially appended
// collection.
//
// SNAPSHOTS:
//
// Snapshot/Restore serialize a table's rows through msgpack for transport or
// fixture reuse. Restore rebuilds entities through a caller-supplied revive
// function, so the store never depends on concrete entity types.
package store
