// Package harness runs declarative query scenarios against inline datasets
// and compares results to golden files.
//
// A scenario is a YAML file naming a dataset (teams and members), a query
// over it, and an identifying name. Running the scenario builds a fresh
// session, evaluates the query, and renders the result as deterministic
// JSON for golden comparison. Scenarios double as end-to-end conformance
// tests and as worked examples of the query surface.
package harness
