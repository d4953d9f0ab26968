// Package uploads implements the start → chunk → finalize upload protocol.
//
// An upload lives in a staging file derived from its token. Chunks are
// written at arbitrary offsets, finalize verifies the MD5 of the staging
// file and renames it to the final path, after which readers can see it.
//
// Concurrency contract: there is no per-token lock. Concurrent WriteChunk
// calls on one token are safe only for disjoint byte ranges, and Finalize
// must be called only after every WriteChunk for the token has returned.
// Different tokens never share a path and can be used fully in parallel.
package uploads
