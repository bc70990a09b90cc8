package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Printer writes lines to a writer, styling them by semantic type when
// styling is enabled.
type Printer struct {
	writer io.Writer
	mode   Mode
	styles Styles
	styled bool

	mu sync.Mutex
}

// NewPrinter creates a new Printer with the given options.
// By default, it writes to os.Stdout with automatic mode detection.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
		mode:   ModeAuto,
		styles: DefaultStyles(),
	}
	for _, opt := range options {
		opt(p)
	}

	switch p.mode {
	case ModeStyled:
		p.styled = true
	case ModePlain:
		p.styled = false
	default:
		p.styled = colorSupported()
	}
	return p
}

// Println outputs text with a newline.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Success outputs a passing line.
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

// Failure outputs a failing line.
func (p *Printer) Failure(text string) {
	p.output(SemanticFailure, text, true)
}

// Error outputs an error line.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Progress outputs progress text without a trailing newline.
func (p *Printer) Progress(text string) {
	p.output(SemanticProgress, text, false)
}

// Detail outputs a block of failure details.
func (p *Printer) Detail(text string) {
	p.output(SemanticDetail, text, true)
}

func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := text
	if p.styled {
		if style, ok := p.styles[semantic]; ok {
			result = style.Render(text)
		}
	}
	if addNewline && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	_, _ = fmt.Fprint(p.writer, result) // Ignore write errors for output operations
}
