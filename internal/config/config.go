// Package config provides the per-file configuration model for shell tests.
// A Config is seeded from a fixed table of option descriptors and can be changed
// through inline directives before the first command of a file.
package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Option names recognized by the config model.
const (
	CommandPrompt            = "command_prompt"
	CommandShell             = "command_shell"
	IgnoreTrailingWhitespace = "ignore_trailing_whitespace"
	MergeStderr              = "merge_stderr"
	ShellTestExts            = "shell_test_exts"
)

var (
	// ErrUnknownOption is returned when a name does not match any option descriptor.
	ErrUnknownOption = errors.New("unknown option")
	// ErrOptionNotEditable is returned when setting an option whose descriptor forbids it.
	ErrOptionNotEditable = errors.New("option is not editable")
	// ErrInvalidValue is returned when a raw value cannot be coerced by the option parser.
	ErrInvalidValue = errors.New("invalid value")
)

// Option is the static descriptor of a config option.
type Option struct {
	Name     string
	Default  any
	Editable bool
	// Parse coerces a raw directive value into the option's typed value.
	Parse func(raw string) (any, error)
}

// aliases maps alternative spellings onto canonical option names.
var aliases = map[string]string{
	"shell_command": CommandShell,
}

var options = buildOptions(
	Option{Name: CommandPrompt, Default: ">", Editable: true, Parse: parseString},
	Option{Name: CommandShell, Default: "sh -c", Editable: true, Parse: parseString},
	Option{Name: IgnoreTrailingWhitespace, Default: true, Editable: true, Parse: ParseBool},
	Option{Name: MergeStderr, Default: false, Editable: true, Parse: ParseBool},
	Option{Name: ShellTestExts, Default: []string{"sh", "shtest"}, Editable: false, Parse: parseList},
)

func buildOptions(opts ...Option) map[string]Option {
	table := make(map[string]Option, len(opts))
	for _, opt := range opts {
		table[opt.Name] = opt
	}
	return table
}

// Lookup returns the descriptor for name, resolving aliases.
func Lookup(name string) (Option, bool) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	opt, ok := options[name]
	return opt, ok
}

// Names returns the canonical option names in sorted order.
func Names() []string {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config maps option names to their current values.
// It is not safe for concurrent use; each parsed test owns its own snapshot.
type Config struct {
	values map[string]any
}

// New creates a Config holding every option's default value.
func New() *Config {
	c := &Config{values: make(map[string]any, len(options))}
	for name, opt := range options {
		c.values[name] = copyValue(opt.Default)
	}
	return c
}

// Get returns the current value of the named option.
func (c *Config) Get(name string) (any, error) {
	opt, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return copyValue(c.values[opt.Name]), nil
}

// Set coerces raw through the option's parser and stores the result.
// The stored value is left unchanged when an error is returned.
func (c *Config) Set(name, raw string) error {
	opt, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	if !opt.Editable {
		return fmt.Errorf("%w: %q", ErrOptionNotEditable, opt.Name)
	}
	value, err := opt.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w for %q: %v", ErrInvalidValue, opt.Name, err)
	}
	c.values[opt.Name] = value
	return nil
}

// Snapshot returns an independent deep copy of the config.
func (c *Config) Snapshot() *Config {
	cp := &Config{values: make(map[string]any, len(c.values))}
	for name, value := range c.values {
		cp.values[name] = copyValue(value)
	}
	return cp
}

// CommandPrompt returns the literal prefix that marks a command line.
func (c *Config) CommandPrompt() string {
	return c.values[CommandPrompt].(string)
}

// CommandShell returns the interpreter invocation each command is appended to.
func (c *Config) CommandShell() string {
	return c.values[CommandShell].(string)
}

// IgnoreTrailingWhitespace reports whether output comparison is whitespace tolerant.
func (c *Config) IgnoreTrailingWhitespace() bool {
	return c.values[IgnoreTrailingWhitespace].(bool)
}

// MergeStderr reports whether stderr is captured into the actual output.
func (c *Config) MergeStderr() bool {
	return c.values[MergeStderr].(bool)
}

// ShellTestExts returns the file extensions recognized by discovery.
func (c *Config) ShellTestExts() []string {
	return slices.Clone(c.values[ShellTestExts].([]string))
}

// String renders the config as sorted name=value pairs.
func (c *Config) String() string {
	parts := make([]string, 0, len(c.values))
	for _, name := range Names() {
		parts = append(parts, fmt.Sprintf("%s=%v", name, c.values[name]))
	}
	return strings.Join(parts, " ")
}

// ParseBool accepts only "true" or "false", case-insensitively.
func ParseBool(raw string) (any, error) {
	switch strings.ToLower(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, fmt.Errorf("invalid boolean value %q", raw)
}

func parseString(raw string) (any, error) {
	return raw, nil
}

// parseList splits a comma or whitespace separated list.
func parseList(raw string) (any, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty list %q", raw)
	}
	return fields, nil
}

func copyValue(v any) any {
	if list, ok := v.([]string); ok {
		return slices.Clone(list)
	}
	return v
}
