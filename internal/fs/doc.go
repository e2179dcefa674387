// Package fs abstracts the file operations behind blob writes so tests can
// inject failures.
//
//   - [LocalFS]: production implementation on the os package
//   - [FaultyFS]: wrapper that fails writes, syncs, closes or renames of
//     matching files
//
// Tests swap in a [FaultyFS] to check that an interrupted write never
// leaves a partial blob behind:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: 1024})
//
// Operations take no context. Local file calls are short and cannot be
// interrupted at the syscall level.
package fs
