// Package mock provides deterministic test doubles for the ai interfaces.
//
// Each mock supports behavior injection via exported function fields and
// tracks call counts for assertions. The default embedder derives unit
// vectors from an FNV hash of the input text, so identical texts always
// embed identically and tests stay reproducible without a model server.
package mock
