// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nssedit/nssedit/pkg/nss"
)

const (
	// ColorSchemeAuto detects the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark rendering.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light rendering.
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidMatchStrategy is returned for unknown directive match strategies.
	ErrInvalidMatchStrategy = errors.New("invalid match strategy")
	// ErrInvalidFilePath is returned for blank file settings.
	ErrInvalidFilePath = errors.New("invalid file path")
	// ErrInvalidDebounce is returned for negative watch debounce intervals.
	ErrInvalidDebounce = errors.New("invalid debounce interval")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects how styled output and issue pages are rendered.
	ColorScheme string

	// LogLevel is the minimum level written to stderr.
	LogLevel string

	// InvalidValueError reports a single bad setting. It wraps one of the
	// ErrInvalid* sentinels.
	InvalidValueError struct {
		Key   string
		Value string
		Err   error
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		Files      FilesConfig      `json:"files" mapstructure:"files"`
		Directives DirectivesConfig `json:"directives" mapstructure:"directives"`
		UI         UIConfig         `json:"ui" mapstructure:"ui"`
		Watch      WatchConfig      `json:"watch" mapstructure:"watch"`
		Log        LogConfig        `json:"log" mapstructure:"log"`
	}

	// FilesConfig locates the files an editing session works on.
	FilesConfig struct {
		// ProjectRoot is the directory relative paths are resolved against.
		ProjectRoot string `json:"project_root" mapstructure:"project_root"`
		// Target is the managed file, relative to ProjectRoot unless absolute.
		Target string `json:"target" mapstructure:"target"`
		// Imports is the file holding import lines.
		Imports string `json:"imports" mapstructure:"imports"`
	}

	// DirectivesConfig tunes modify directive handling.
	DirectivesConfig struct {
		// MatchStrategy is the default for deleting modify directives.
		MatchStrategy nss.MatchStrategy `json:"match_strategy" mapstructure:"match_strategy"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		// Confirm asks before deletes that affect more than one line.
		Confirm bool `json:"confirm" mapstructure:"confirm"`
	}

	// WatchConfig configures `nssedit watch`.
	WatchConfig struct {
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}

	// LogConfig configures diagnostic logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Files: FilesConfig{
			ProjectRoot: ".",
			Target:      "imports/modify.nss",
			Imports:     "shell.nss",
		},
		Directives: DirectivesConfig{MatchStrategy: nss.MatchSubstring},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Confirm:     true,
		},
		Watch: WatchConfig{Debounce: 500 * time.Millisecond},
		Log:   LogConfig{Level: LogLevelWarn},
	}
}

// Validate checks every field and returns an *InvalidConfigError listing
// all problems, or nil.
func (c Config) Validate() error {
	var errs []error
	for _, f := range []struct{ key, value string }{
		{"files.project_root", c.Files.ProjectRoot},
		{"files.target", c.Files.Target},
		{"files.imports", c.Files.Imports},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, &InvalidValueError{Key: f.key, Value: f.value, Err: ErrInvalidFilePath})
		}
	}
	if !c.Directives.MatchStrategy.IsValid() {
		errs = append(errs, &InvalidValueError{
			Key: "directives.match_strategy", Value: string(c.Directives.MatchStrategy), Err: ErrInvalidMatchStrategy,
		})
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Log.Level.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, &InvalidValueError{Key: "watch.debounce", Value: c.Watch.Debounce.String(), Err: ErrInvalidDebounce})
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %v %q", e.Key, e.Err, e.Value)
}

func (e *InvalidValueError) Unwrap() error { return e.Err }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap exposes ErrInvalidConfig and every field error to errors.Is.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns an error wrapping ErrInvalidColorScheme for unknown values.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidValueError{Key: "ui.color_scheme", Value: string(cs), Err: ErrInvalidColorScheme}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Validate returns an error wrapping ErrInvalidLogLevel for unknown values.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidValueError{Key: "log.level", Value: string(l), Err: ErrInvalidLogLevel}
	}
}
