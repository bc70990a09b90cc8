package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"shelltest/internal/config"
	"shelltest/internal/logger"
)

// DirectiveMarker starts every directive line.
const DirectiveMarker = "#[sht]"

var (
	directivePattern = regexp.MustCompile(`^#\[sht\]\s*([a-zA-Z0-9_]+)\s*=\s*(.+?)\s*$`)
	commentPattern   = regexp.MustCompile(`^\s*#`)
)

// Options tune parser strictness.
type Options struct {
	// Strict rejects header lines that carry the directive marker but do not
	// form a valid directive.
	Strict bool
}

type pendingTest struct {
	command string
	line    int
	output  strings.Builder
	cfg     *config.Config
}

// Parser is the line-oriented state machine for a single test file.
// Feed it lines with Next and collect the tests with Finalize.
type Parser struct {
	name    string
	cfg     *config.Config
	options Options
	log     *log.Logger

	state      State
	pending    *pendingTest
	continuing bool
	tests      []Test
}

// New creates a parser for the named source. The starting config is copied, so
// directives in the file never affect the caller's config. A nil cfg means defaults.
func New(name string, cfg *config.Config, options Options) *Parser {
	if cfg == nil {
		cfg = config.New()
	}
	return &Parser{
		name:    name,
		cfg:     cfg.Snapshot(),
		options: options,
		log:     logger.NewStyledLogger("Parser"),
		state:   StateHeader,
	}
}

// Next processes one physical line. The line keeps its terminator, if any.
func (p *Parser) Next(line string, lineNum int) error {
	if p.continuing {
		p.continueCommand(line)
		return nil
	}

	switch p.state {
	case StateHeader:
		return p.processHeader(line, lineNum)
	case StateBody:
		p.processBody(line, lineNum)
		return nil
	default:
		return p.fail(lineNum, fmt.Errorf("unknown state: %s", p.state))
	}
}

// Finalize flushes the pending test and returns every test in file order.
func (p *Parser) Finalize() []Test {
	p.finishPending()
	p.continuing = false
	return p.tests
}

func (p *Parser) processHeader(line string, lineNum int) error {
	if m := directivePattern.FindStringSubmatch(line); m != nil {
		key, value := m[1], m[2]
		if err := p.cfg.Set(key, value); err != nil {
			return p.fail(lineNum, err)
		}
		p.log.Debug("directive applied", "file", p.name, "line", lineNum, "option", key, "value", value)
		return nil
	}

	if p.options.Strict && strings.HasPrefix(line, DirectiveMarker) {
		return p.fail(lineNum, fmt.Errorf("%w: %q", ErrMalformedDirective, strings.TrimRight(line, "\r\n")))
	}

	p.parseCommand(line, lineNum)
	return nil
}

func (p *Parser) processBody(line string, lineNum int) {
	if p.parseCommand(line, lineNum) {
		return
	}
	if p.pending != nil {
		p.pending.output.WriteString(line)
	}
}

// parseCommand reports whether line is a command line. A command line always
// flushes the pending test and moves the machine into the body; comment commands
// create no new test.
func (p *Parser) parseCommand(line string, lineNum int) bool {
	cmd, ok := p.command(line)
	if !ok {
		return false
	}

	p.finishPending()
	if p.state != StateBody {
		p.log.Debug("state transition", "file", p.name, "line", lineNum, "state", StateBody)
		p.state = StateBody
	}
	p.continuing = IsEscapedNewline(line)

	if commentPattern.MatchString(cmd) {
		p.log.Debug("command comment skipped", "file", p.name, "line", lineNum)
		return true
	}

	p.pending = &pendingTest{
		command: cmd,
		line:    lineNum,
		cfg:     p.cfg.Snapshot(),
	}
	p.log.Debug("test created", "file", p.name, "line", lineNum, "command", cmd)
	return true
}

// command extracts the command text when line starts with the prompt.
// One separator character after the prompt is dropped before trimming.
func (p *Parser) command(line string) (string, bool) {
	prompt := p.cfg.CommandPrompt()
	if !strings.HasPrefix(line, prompt) {
		return "", false
	}
	rest := line[len(prompt):]
	if _, size := utf8.DecodeRuneInString(rest); size > 0 {
		rest = rest[size:]
	}
	cmd := strings.TrimSpace(rest)
	if cmd == "" {
		return "", false
	}
	return cmd, true
}

// continueCommand joins a continuation line with "\n". CRLF terminators inside
// a command become LF so the shell still reads a backslash-newline.
func (p *Parser) continueCommand(line string) {
	if p.pending != nil {
		p.pending.command += "\n" + trimLineEnding(line)
	}
	p.continuing = IsEscapedNewline(line)
}

func (p *Parser) finishPending() {
	if p.pending == nil {
		return
	}
	p.tests = append(p.tests, Test{
		Command:        p.pending.command,
		ExpectedOutput: p.pending.output.String(),
		Source:         Source{Name: p.name, Line: p.pending.line},
		Config:         p.pending.cfg,
	})
	p.pending = nil
}

func (p *Parser) fail(lineNum int, err error) error {
	return &Error{Source: Source{Name: p.name, Line: lineNum}, Err: err}
}

// Parse reads every line from r and returns the tests it contains.
// Parsing stops at the first error.
func Parse(r io.Reader, name string, cfg *config.Config, options Options) ([]Test, error) {
	p := New(name, cfg, options)
	p.log.Debug("parse started", "file", name, "config", p.cfg)
	reader := bufio.NewReader(r)
	lineNum := 0
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lineNum++
			if perr := p.Next(line, lineNum); perr != nil {
				return nil, perr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}
	return p.Finalize(), nil
}

// ParseFile parses the test file at path.
func ParseFile(path string, cfg *config.Config, options Options) ([]Test, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open test file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Parse(file, path, cfg, options)
}

// IsEscapedNewline reports whether line ends in a newline escaped by an odd
// number of trailing backslashes.
func IsEscapedNewline(line string) bool {
	if !strings.HasSuffix(line, "\n") {
		return false
	}
	body := trimLineEnding(line)
	n := len(body) - len(strings.TrimRight(body, `\`))
	return n%2 == 1
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
