// Package tasks implements the reconciliation engine: the set and sequence
// algorithms behind cleanup, subtract, merge, sort, overflow, and diff.
//
// Every operation takes item collections that were already fetched, so the
// algorithms stay decoupled from pagination and can run against fakes in
// tests. Mutations go through the narrow Mutator interface and are gated by a
// per-operation Commit flag; a dry run computes the same counts as a real run
// but issues zero remote calls.
package tasks
