package output

import "io"

// Option is a functional option for configuring Printer instances.
type Option func(*Printer)

// WithWriter configures the printer to write output to the specified writer.
// Default is os.Stdout if not specified.
func WithWriter(writer io.Writer) Option {
	return func(p *Printer) {
		if writer != nil {
			p.writer = writer
		}
	}
}

// WithMode configures whether the printer styles its output.
func WithMode(mode Mode) Option {
	return func(p *Printer) {
		p.mode = mode
	}
}
