package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sstlower/internal/diag"
	"sstlower/internal/source"
)

type palette struct {
	err, warn, info, code, path, caret, note, gutter *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Faint),
		path:   mk(color.Bold),
		caret:  mk(color.FgRed),
		note:   mk(color.FgBlue),
		gutter: mk(color.FgBlue),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes the items of bag (expected to be sorted) in human-readable form:
//
//	<path>:<line>:<col>: SEV CODE: message
//
// followed by the source line with a caret underline and the notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(location(d.Primary, fs, opts.PathMode, opts.BaseDir)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		excerpt(w, p, fs, d.Primary, d.Label, int(opts.Context))
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n",
				p.note.Sprint("note:"),
				location(n.Span, fs, opts.PathMode, opts.BaseDir),
				n.Msg)
			excerpt(w, p, fs, n.Span, "", 0)
		}
	}
}

func location(sp source.Span, fs *source.FileSet, mode source.PathMode, baseDir string) string {
	f := fs.Get(sp.File)
	if f == nil {
		return fmt.Sprintf("<file %d>:%d", sp.File, sp.Start)
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath(mode, baseDir), start.Line, start.Col)
}

// excerpt prints the primary line of sp with context lines and a caret
// underline. Columns are measured in display cells.
func excerpt(w io.Writer, p palette, fs *source.FileSet, sp source.Span, label string, context int) {
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	first := max(1, int(start.Line)-context)
	last := int(start.Line) + context
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(uint32(ln))
		if ln != int(start.Line) && text == "" {
			continue
		}
		text = strings.ReplaceAll(text, "\t", "    ")
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), text)
		if ln != int(start.Line) {
			continue
		}
		line := f.GetLine(start.Line)
		from := min(int(start.Col)-1, len(line))
		to := len(line)
		if end.Line == start.Line {
			to = min(int(end.Col)-1, len(line))
		}
		pad := runewidth.StringWidth(strings.ReplaceAll(line[:from], "\t", "    "))
		width := max(1, runewidth.StringWidth(line[from:max(from, to)]))
		underline := "^" + strings.Repeat("~", width-1)
		if label != "" {
			underline += " " + label
		}
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", pad),
			p.caret.Sprint(underline))
	}
}
