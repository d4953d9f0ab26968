// Package fileref encodes and decodes the opaque reference token that names
// an uploaded file.
//
// A token is the protobuf wire encoding of
//
//	message FileRef   { oneof version { FileRefV1 v1 = 1; } }
//	message FileRefV1 { uint64 created_at = 1; bytes random = 2; optional uint64 size = 3; }
//
// rendered as unpadded URL-safe base64. The token is the only record of an
// upload: it carries everything needed to derive the file's storage path.
package fileref
