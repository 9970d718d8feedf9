package engineerr

import (
	"errors"
	"testing"
)

func TestErrorMessageFormat(t *testing.T) {
	e := New(InvalidInvariant, "empty body")
	if e.Error() != "InvalidInvariant: empty body" {
		t.Errorf("got %q", e.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("file not found")
	e := Wrap(IoError, "failed to read invariant library", cause)
	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to unwrap to cause")
	}
	if e.Error() != "IoError: failed to read invariant library: file not found" {
		t.Errorf("got %q", e.Error())
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	kinds := []Kind{IoError, InvalidInvariant, UndefinedIdentifier, TypeMismatch,
		Unsupported, AnalysisFailed, GenerationFailed, SimulationFailed, ConfigError, Custom}
	for _, k := range kinds {
		if k.String() == "Unknown" {
			t.Errorf("kind %d unexpectedly stringified as Unknown", k)
		}
	}
}
