package record

import (
	"regexp"
	"strings"
)

// Format identifies the text format of an inspected document.
type Format uint8

const (
	FormatAuto Format = iota
	FormatJSON
	FormatCSV
	FormatXML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatXML:
		return "xml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// ParseFormat converts a user-supplied hint into a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, true
	case "json":
		return FormatJSON, true
	case "csv":
		return FormatCSV, true
	case "xml":
		return FormatXML, true
	case "yaml", "yml":
		return FormatYAML, true
	}
	return FormatAuto, false
}

// FormatForPath guesses a format from a file extension; FormatAuto when
// the extension says nothing.
func FormatForPath(path string) Format {
	switch {
	case strings.HasSuffix(path, ".json"):
		return FormatJSON
	case strings.HasSuffix(path, ".csv"):
		return FormatCSV
	case strings.HasSuffix(path, ".xml"):
		return FormatXML
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return FormatYAML
	}
	return FormatAuto
}

var yamlLineRe = regexp.MustCompile(`^\w+:\s*.+$`)

// Detect sniffs the format from content. The rules, in order: a leading
// '{' or '[' means JSON; a leading '<' means XML; several lines that all
// contain commas mean CSV; a key: value first line means YAML; anything
// else is treated as JSON so the structure stage can explain why it does
// not parse.
func Detect(content []byte) Format {
	trimmed := strings.TrimLeft(string(content), " \t\r\n")
	if trimmed == "" {
		return FormatJSON
	}

	switch trimmed[0] {
	case '{', '[':
		return FormatJSON
	case '<':
		return FormatXML
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) > 1 {
		withComma := 0
		checked := 0
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			checked++
			if strings.Contains(line, ",") {
				withComma++
			}
			if checked == 10 {
				break
			}
		}
		if checked > 1 && withComma == checked {
			return FormatCSV
		}
	}

	if yamlLineRe.MatchString(strings.TrimRight(lines[0], "\r")) {
		return FormatYAML
	}
	return FormatJSON
}
