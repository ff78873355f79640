package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sleuth/internal/diag"
	"sleuth/internal/source"
)

type prettyStyles struct {
	err    lipgloss.Style
	warn   lipgloss.Style
	info   lipgloss.Style
	gutter lipgloss.Style
	caret  lipgloss.Style
	detail lipgloss.Style
}

func newPrettyStyles(color bool) prettyStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return prettyStyles{err: plain, warn: plain, info: plain, gutter: plain, caret: plain, detail: plain}
	}
	return prettyStyles{
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		info:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		gutter: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		caret:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		detail: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	}
}

func (s prettyStyles) severity(sev diag.Severity) lipgloss.Style {
	switch sev {
	case diag.SevError:
		return s.err
	case diag.SevWarning:
		return s.warn
	}
	return s.info
}

// Pretty форматирует находки в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой находки печатает:
// <path>:<line>:<col>: <SEV> <CODE> [<confidence>]: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем
// доказательство, объяснение и заметки.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	styles := newPrettyStyles(opts.Color)

	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printFinding(w, d, fs, opts, styles)
	}
}

func printFinding(w io.Writer, d diag.Finding, fs *source.FileSet, opts PrettyOpts, styles prettyStyles) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	sevStyle := styles.severity(d.Severity)

	fmt.Fprintf(w, "%s: %s: %s\n",
		formatPos(f, fs, opts.PathMode, start),
		sevStyle.Render(fmt.Sprintf("%s %s [%s]", d.Severity, d.Code.ID(), d.Confidence)),
		d.Message,
	)

	printContext(w, f, start, end, opts, styles)

	if opts.ShowDetails {
		printDetail(w, styles, "observed", d.Evidence.Observed)
		printDetail(w, styles, "expected", d.Evidence.ExpectedRange)
		printDetail(w, styles, "statistic", d.Evidence.Statistic)
		printDetail(w, styles, "context", d.Evidence.Context)
		printDetail(w, styles, "baseline", d.Evidence.Baseline)
		printDetail(w, styles, "why", d.WhyItMatters)
		printDetail(w, styles, "action", d.SuggestedAction)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nf := fs.Get(note.Span.File)
			npos, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  %s %s (%s)\n",
				styles.detail.Render("note:"), note.Msg, formatPos(nf, fs, opts.PathMode, npos))
		}
	}

	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s [%s]\n",
				styles.detail.Render("fix:"), fix.Title, fix.Applicability)
		}
	}
}

func printDetail(w io.Writer, styles prettyStyles, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %s %s\n", styles.detail.Render(label+":"), value)
}

// printContext renders the source lines around the span with a caret
// underline on the first line of the finding.
func printContext(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, styles prettyStyles) {
	first := int(start.Line) - int(opts.Context)
	if first < 1 {
		first = 1
	}
	last := int(start.Line) + int(opts.Context)
	if last > int(f.LineCount()) {
		last = int(f.LineCount())
	}
	gutter := len(fmt.Sprintf("%d", last))

	for line := first; line <= last; line++ {
		text := f.GetLine(uint32(line))
		fmt.Fprintf(w, "  %s %s\n",
			styles.gutter.Render(fmt.Sprintf("%*d |", gutter, line)),
			expandTabs(text))

		if uint32(line) != start.Line {
			continue
		}

		// подчёркивание: ^ в начале спана, ~ до конца (в пределах строки)
		prefix := prefixWidth(text, int(start.Col)-1)
		length := 1
		if end.Line == start.Line && end.Col > start.Col {
			length = spanWidth(text, int(start.Col)-1, int(end.Col)-1)
		}
		underline := "^"
		if length > 1 {
			underline += strings.Repeat("~", length-1)
		}
		fmt.Fprintf(w, "  %s %s%s\n",
			styles.gutter.Render(fmt.Sprintf("%*s |", gutter, "")),
			strings.Repeat(" ", prefix),
			styles.caret.Render(underline))
	}
}

const tabWidth = 4

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// prefixWidth is the display width of the first col bytes of the line,
// with tabs expanded. Wide runes count for their real terminal width.
func prefixWidth(line string, col int) int {
	if col < 0 {
		return 0
	}
	if col > len(line) {
		col = len(line)
	}
	return runewidth.StringWidth(expandTabs(line[:col]))
}

func spanWidth(line string, fromCol, toCol int) int {
	if fromCol < 0 {
		fromCol = 0
	}
	if toCol > len(line) {
		toCol = len(line)
	}
	if toCol <= fromCol {
		return 1
	}
	w := runewidth.StringWidth(expandTabs(line[fromCol:toCol]))
	if w < 1 {
		return 1
	}
	return w
}

func formatPos(f *source.File, fs *source.FileSet, mode PathMode, pos source.LineCol) string {
	var path string
	switch mode {
	case PathModeAbsolute:
		path = f.FormatPath("absolute", "")
	case PathModeRelative:
		path = f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		path = f.FormatPath("basename", "")
	default:
		path = f.FormatPath("auto", "")
	}
	return fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Col)
}
