package failure

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrUnavailable   = errors.New("dependency unavailable")
	ErrExternalTool  = errors.New("external tool error")
)

// Exit statuses for failures that did not come from a checker.
const (
	StatusError       = 1
	StatusUsage       = 2
	StatusUnavailable = 3
)

// ExitStatuser is implemented by errors that carry their own process exit
// status, such as a failing checker.
type ExitStatuser interface {
	ExitStatus() int
}

// Wrap builds an error message that includes component context while tagging
// it with marker for later classification.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitStatus maps an error to the status checkgate exits with. A nil error
// maps to zero.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var carrier ExitStatuser
	if errors.As(err, &carrier) {
		if code := carrier.ExitStatus(); code != 0 {
			return code
		}
		return StatusError
	}
	switch {
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrValidation):
		return StatusUsage
	case errors.Is(err, ErrUnavailable):
		return StatusUnavailable
	default:
		return StatusError
	}
}

// Silencer is implemented by errors that know whether their cause already
// printed its own diagnostics.
type Silencer interface {
	Silent() bool
}

// Silent reports whether err already explained itself to the user. A checker
// that ran printed its own findings, so the CLI adds nothing; a checker that
// could not be started printed nothing and is reported.
func Silent(err error) bool {
	var s Silencer
	if errors.As(err, &s) {
		return s.Silent()
	}
	var carrier ExitStatuser
	return errors.As(err, &carrier)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "checkgate failure"
	}
	return strings.Join(parts, ": ")
}
