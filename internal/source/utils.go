package source

import (
	"path/filepath"
)

// removeBOM strips a leading UTF-8 byte order mark.
func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// buildLineIndex возвращает смещения начал строк. Разделителями считаются
// \n, \r\n и одиночный \r; пара \r\n даёт ровно одну новую строку.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 1, 16)
	out[0] = 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			out = append(out, uint32(i+1))
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				i++ // не считаем \r\n дважды
			}
			out = append(out, uint32(i+1))
		}
	}
	return out
}

// toLineCol maps a byte offset to a 1-based line/column pair.
// The offset is clamped into [0, contentLen] by the caller.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// бинпоиск: наибольший lineIdx[i] <= off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi
	if line < 0 {
		line = 0
	}

	return LineCol{Line: uint32(line + 1), Col: off - lineIdx[line] + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns an absolute representation of path.
func AbsolutePath(path string) (string, error) {
	return filepath.Abs(path)
}

// RelativePath returns path relative to base.
func RelativePath(path, base string) (string, error) {
	return filepath.Rel(base, path)
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}
