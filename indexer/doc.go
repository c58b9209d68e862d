// Package indexer loads policy catalogs into storage and builds the vector
// index behind retrieval. Embedding runs across a worker pool with retry,
// and vectors are unit-normalized before they are written.
package indexer
