package parser

import "fmt"

// ConfigError is the parser's single error kind: on any grammar
// mismatch it reports one single-line message and does not attempt
// recovery.
type ConfigError struct{ Msg string }

func (e *ConfigError) Error() string { return e.Msg }

func errf(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
