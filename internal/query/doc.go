// Package query defines the abstract query representation evaluated by the
// engine: sources, joins, predicates, projections, ordering, grouping, and
// paging.
//
// ARCHITECTURE:
//
// The query layer sits between callers (the session's typed API, the CLI's
// flag parser, the harness's YAML decoder) and the engine:
//
//	[builder / decoder] → [query.Spec] → [engine evaluation]
//
// Predicate and Expr are sealed interfaces using the marker method pattern.
// Only types in this package implement them, which keeps the engine's type
// switches exhaustive and prevents external extensions from bypassing
// validation.
//
// VALIDATION:
//
// Validate checks a Spec against the registered table schemas before any row
// is scanned: every field reference must resolve to a real field of its
// alias, and aggregate arguments must carry a kind the aggregate can digest.
// Construction-time failure means a malformed query never reaches the
// evaluation pipeline.
//
// JOIN MODEL:
//
// A Spec has one primary source and at most one companion: either Cross (an
// unconditioned second source, filtered only by WHERE - the theta-join
// shape) or Join (inner or left, with an ON predicate that may reference any
// field of either side). Left joins preserve unmatched left rows; the absent
// right side reads as null through ordinary field access.
package query
