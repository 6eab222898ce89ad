package command

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emberdb/emberdb/internal/resp"
)

// validate checks that the request names the expected command and
// carries at least minArgs trailing arguments (exactly minArgs when
// exact is set). The request frame is assumed to be a non-empty array;
// Parse guarantees that.
func validate(req resp.Frame, name string, minArgs int, exact bool) error {
	head := req.Array[0]
	if !head.IsBulk() || !strings.EqualFold(head.Str, name) {
		return fmt.Errorf("%w: expected '%s'", ErrUnknownCommand, name)
	}

	got := len(req.Array) - 1
	if exact && got != minArgs {
		return fmt.Errorf("%w for '%s': want %d, got %d", ErrWrongArgCount, name, minArgs, got)
	}
	if got < minArgs {
		return fmt.Errorf("%w for '%s': want at least %d, got %d", ErrWrongArgCount, name, minArgs, got)
	}
	return nil
}

// extractArgs returns the trailing arguments of the request, dropping
// the leading skip elements (normally 1, the command name).
func extractArgs(req resp.Frame, skip int) ([]resp.Frame, error) {
	if len(req.Array) < skip {
		return nil, fmt.Errorf("%w: request shorter than %d", ErrWrongArgCount, skip)
	}
	args := make([]resp.Frame, len(req.Array)-skip)
	copy(args, req.Array[skip:])
	return args, nil
}

// argText extracts the text payload of a bulk-string argument. A
// non-bulk frame is a type error; a bulk string whose bytes are not
// valid UTF-8 is a distinct encoding error. The what tag names the
// argument in error messages.
func argText(f resp.Frame, what string) (string, error) {
	if !f.IsBulk() {
		return "", fmt.Errorf("%w: %s must be a bulk string", ErrWrongArgType, what)
	}
	if !utf8.ValidString(f.Str) {
		return "", fmt.Errorf("%w: %s", ErrInvalidText, what)
	}
	return f.Str, nil
}
