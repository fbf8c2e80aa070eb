// Package ir defines the scalar value domain shared by the store, the query
// AST, and the engine.
//
// Values are a sealed interface over Null, String, Int, Float, and Bool.
// Sealing keeps type switches exhaustive: the engine can dispatch on every
// possible value kind and the compiler knows the list is closed.
//
// COMPARISON MODEL:
//
// Equal and Compare implement three-valued logic. Any comparison in which
// either operand is absent has no answer (ok=false); predicates treat "no
// answer" as not-satisfied. Only an explicit null-check observes absence as
// a positive fact. Int and Float inter-compare numerically; Bool supports
// equality only.
//
// NORMALIZATION:
//
// NewString normalizes text to Unicode NFC, so equality and ordering operate
// on canonical byte sequences. All strings entering the domain (entity
// constructors, dataset loaders, query constants) are built through it.
package ir
