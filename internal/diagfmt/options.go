package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of findings.
type PrettyOpts struct {
	Color    bool
	Context  int8 // строки контекста вокруг находки
	PathMode PathMode
	// ShowDetails prints evidence, why-it-matters and suggested actions.
	ShowDetails bool
	ShowNotes   bool
	ShowFixes   bool
}

// JSONOpts configures JSON output of findings.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
