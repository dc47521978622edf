// Package diagfmt renders collected diagnostics for humans.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"loom/internal/diag"
	"loom/internal/source"
)

// PrettyOpts control the human-readable renderer.
type PrettyOpts struct {
	// Color enables ANSI colors on severities and carets.
	Color bool
	// Context prints the offending source line with a caret underline.
	Context bool
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	spotColor = color.New(color.FgGreen)
)

// Pretty writes each diagnostic as
//
//	<path>:<line>:<col>: <SEV> <code>: <message>
//
// followed, when Context is set, by the source line and a ^~~~ underline
// over the span, then the notes in the same shape. Callers sort the bag
// first for stable output.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s%s %s: %s\n",
			position(fs, d.Primary), severityLabel(d.Severity, opts.Color), d.Code, d.Message)
		if opts.Context {
			writeContext(w, fs, d.Primary, opts.Color)
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s%s\n", position(fs, n.Span), n.Msg)
			if opts.Context {
				writeContext(w, fs, n.Span, opts.Color)
			}
		}
	}
}

// position renders "path:line:col: " or nothing when the span's file is
// not in the set (project-level findings carry no location).
func position(fs *source.FileSet, span source.Span) string {
	if fs.Get(span.File) == nil {
		return ""
	}
	return fs.Position(span) + ": "
}

func severityLabel(sev diag.Severity, colored bool) string {
	label := sev.String()
	if !colored {
		return label
	}
	switch sev {
	case diag.SevError:
		return errColor.Sprint(label)
	case diag.SevWarning:
		return warnColor.Sprint(label)
	default:
		return infoColor.Sprint(label)
	}
}

// writeContext prints the first line covered by the span with a caret
// underline. Column math uses display width so the caret stays aligned
// under tabs and wide runes.
func writeContext(w io.Writer, fs *source.FileSet, span source.Span, colored bool) {
	file := fs.Get(span.File)
	if file == nil || len(file.Content) == 0 {
		return
	}
	start, _ := fs.Resolve(span)
	line := lineAt(file, start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(line, "\t", " "))

	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	pad := runewidth.StringWidth(strings.ReplaceAll(line[:col], "\t", " "))

	length := int(span.Len())
	if rest := len(line) - col; length > rest {
		length = rest
	}
	underlined := 1
	if length > 1 {
		underlined = runewidth.StringWidth(line[col : col+length])
	}
	marker := "^" + strings.Repeat("~", max(underlined-1, 0))
	if colored {
		marker = spotColor.Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), marker)
}

// lineAt extracts 1-based line n from the file content.
func lineAt(file *source.File, n uint32) string {
	if n == 0 || int(n) > len(file.LineIdx) {
		return ""
	}
	begin := file.LineIdx[n-1]
	end := uint32(len(file.Content))
	if int(n) < len(file.LineIdx) {
		end = file.LineIdx[n]
	}
	return strings.TrimRight(string(file.Content[begin:end]), "\r\n")
}
