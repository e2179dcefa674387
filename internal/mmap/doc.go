// Package mmap maps snapshot files read-only into memory.
//
//	m, err := mmap.Open("grid.psom")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// On Unix the file is mapped with mmap(2); elsewhere it is read into the
// heap so callers see the same API. Close is idempotent. Callers must not
// touch a slice from Bytes after Close.
package mmap
