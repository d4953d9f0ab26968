// Package cli provides the chunkstore command-line client.
//
// Commands:
//
//	upload <file>          send a file, print its reference
//	download <ref> <out>   fetch a file by reference into out
//	meta <ref>             print the stored size
//	limit                  print the server's upload limit
//
// A progress line is drawn on stderr when stderr is a terminal.
package cli
