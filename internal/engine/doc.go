// Package engine evaluates query specs against registered row sources.
//
// EVALUATION PIPELINE:
//
//  1. Build the row set: single source scan, cartesian product (Cross), or
//     inner/left join under the ON predicate. A left join preserves left
//     rows with no match; the absent right side reads as null.
//  2. Apply WHERE under three-valued logic: rows whose predicate is false
//     or unknown are dropped. Only explicit null-checks observe absence.
//  3. With GROUP BY: partition retained rows by the group key, in order of
//     each key's first appearance, and compute the requested aggregates
//     per group.
//  4. Without GROUP BY but with aggregate projections: one aggregate row
//     over all retained rows.
//  5. Row-level queries: stable multi-key ORDER BY with per-key null
//     placement (default: nulls first ascending, last descending).
//  6. Paging: skip Offset rows, take up to Limit.
//  7. Materialize tuples or rows.
//
// Count reports the retained-row total independent of paging, for callers
// building page-count UIs.
//
// Specs are validated against the registered schemas before step 1, so
// malformed queries and aggregate type mismatches fail without scanning a
// single row.
//
// Evaluation is single-threaded and synchronous; sources are snapshots
// taken at fetch time, giving read-your-writes visibility within one unit
// of work.
package engine
