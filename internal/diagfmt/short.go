package diagfmt

import (
	"fmt"
	"io"

	"sleuth/internal/diag"
	"sleuth/internal/source"
)

// Short печатает одну строку на находку:
// <path>:<line>:<col>: <SEV> <CODE> <message>
// Формат стабилен и удобен для golden-файлов и grep.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s: %s %s %s\n",
			formatPos(f, fs, mode, start),
			d.Severity, d.Code.ID(), d.Message)
	}
}
