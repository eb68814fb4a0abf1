package diag

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatYAML:
		return Format(s), nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown diagnostics format %q (use text or yaml)", s)
}

// Printer writes diagnostics to a stream, one per line in text format or as
// a YAML sequence.
type Printer struct {
	w      io.Writer
	format Format

	location *color.Color
	label    *color.Color
	trace    *color.Color
}

func NewPrinter(w io.Writer, format Format, colored bool) *Printer {
	p := &Printer{
		w:        w,
		format:   format,
		location: color.New(color.Bold),
		label:    color.New(color.FgRed, color.Bold),
		trace:    color.New(color.Faint),
	}

	for _, c := range []*color.Color{p.location, p.label, p.trace} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// Prints every diagnostic carried by err. Errors which are not diagnostics
// are printed as plain messages.
func (p *Printer) Print(err error) error {
	if err == nil {
		return nil
	}

	var list List
	var single *Diagnostic
	switch {
	case errors.As(err, &list):
	case errors.As(err, &single):
		list = List{single}
	default:
		_, werr := fmt.Fprintln(p.w, err.Error())
		return werr
	}

	if p.format == FormatYAML {
		return p.printYAML(list)
	}

	for _, d := range list {
		if werr := p.printText(d); werr != nil {
			return werr
		}
	}
	return nil
}

func (p *Printer) printText(d *Diagnostic) error {
	kind := "Error"
	if d.Category == Runtime {
		kind = "Runtime error"
	}
	at := ""
	if d.Where != "" {
		at = " at " + d.Where
	}

	_, err := fmt.Fprintf(p.w, "%v %v%v: %v\n",
		p.location.Sprintf("[line %v:%v]", d.Line, d.Column),
		p.label.Sprint(kind), at, d.Message,
	)
	if err != nil {
		return err
	}

	for i, frame := range d.Trace {
		_, err = fmt.Fprintln(p.w, p.trace.Sprintf(
			"%5v: [line %v] in %v", i, frame.Line, frame.Function,
		))
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Printer) printYAML(list List) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)

	if err := enc.Encode(list); err != nil {
		return err
	}
	return enc.Close()
}
