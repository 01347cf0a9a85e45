package source

import "fmt"

// FileID identifies a file within a FileSet. Krate file indices map to
// FileIDs in load order.
type FileID uint32

// FileFlags records how a file entered the set.
type FileFlags uint8

const (
	// FileVirtual marks in-memory content (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileMissing marks a path referenced by the krate whose content could not be read.
	FileMissing
	FileNormalizedCRLF
)

// File is one source file with its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Flags   FileFlags
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Span is a half-open byte range [Start, End) inside one file. The
// lowering pass copies spans from its input to its output unchanged.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}
