package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages a collection of inspected documents and resolves byte
// offsets into human-readable positions. One analysis owns one FileSet;
// the current and previous versions of a document are two files in it.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// BaseDir возвращает текущую базовую директорию.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores a document, computes its line index and hash, and returns a new
// FileID. Adding the same path twice keeps both versions; the index points at
// the latest.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a document from disk, strips a BOM if present, and calls Add.
// Content is kept byte-for-byte otherwise: offsets reported by sleuth must
// index into what is actually on disk.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory document (stdin, API payload, test).
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the document metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into 1-based line and column positions.
// Offsets are clamped into [0, len(content)]; Resolve never fails.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, f.clamp(span.Start)), toLineCol(f.LineIdx, f.clamp(span.End))
}

func (f *File) clamp(off uint32) uint32 {
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if off > lenContent {
		return lenContent
	}
	return off
}

// LineCount returns the number of lines in the document.
func (f *File) LineCount() uint32 {
	return uint32(len(f.LineIdx))
}

// LineOf returns the 1-based line number containing the given byte offset.
func (f *File) LineOf(off uint32) uint32 {
	return toLineCol(f.LineIdx, f.clamp(off)).Line
}

// GetLine возвращает строку с заданным номером (1-based) без завершающего
// перевода строки. Для несуществующих номеров возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || lineNum > uint32(len(f.LineIdx)) {
		return ""
	}

	start := f.LineIdx[lineNum-1]
	var end uint32
	if lineNum < uint32(len(f.LineIdx)) {
		end = f.LineIdx[lineNum]
		// отрезаем разделитель строки
		for end > start && (f.Content[end-1] == '\n' || f.Content[end-1] == '\r') {
			end--
		}
	} else {
		end = f.clamp(uint32(len(f.Content)))
	}

	if start >= uint32(len(f.Content)) {
		return ""
	}
	return string(f.Content[start:end])
}

// LineSpan returns the span covering the given 1-based line, without the
// terminator. An out-of-range line yields an empty span at end of file.
func (f *File) LineSpan(lineNum uint32) Span {
	if lineNum == 0 || lineNum > uint32(len(f.LineIdx)) {
		n := uint32(len(f.Content))
		return Span{File: f.ID, Start: n, End: n}
	}
	start := f.LineIdx[lineNum-1]
	var end uint32
	if lineNum < uint32(len(f.LineIdx)) {
		end = f.LineIdx[lineNum]
		for end > start && (f.Content[end-1] == '\n' || f.Content[end-1] == '\r') {
			end--
		}
	} else {
		end = uint32(len(f.Content))
	}
	return Span{File: f.ID, Start: start, End: end}
}

// TextAt returns the raw text covered by span, with both ends clamped.
func (f *File) TextAt(span Span) string {
	start := f.clamp(span.Start)
	end := f.clamp(span.End)
	if end < start {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
