// Package cache implements the local emoji cache: a flat file of 4-byte
// code point records in host byte order, with no header and no index.
//
// The file is created once with create-new semantics and never modified
// afterwards, so readers open it without locking.
package cache
