package panel

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

var (
	// DefaultMaxMessageSize bounds a node message coming from a transport.
	DefaultMaxMessageSize = 4096
	// EnvMaxMessageSize is the environment variable to override the default.
	EnvMaxMessageSize = "FLOWCANVAS_MAX_MESSAGE_SIZE"
)

var (
	ErrMessageTooLarge = errors.New("message exceeds maximum allowed size")
	ErrInvalidUTF8     = errors.New("message contains invalid UTF-8 sequences")
)

// Sanitize checks text typed into the panel from outside the process: it
// enforces the size limit, requires valid UTF-8, removes terminal escape
// sequences and strips control characters other than newline, tab and
// carriage return.
func Sanitize(text string) (string, error) {
	limit := maxMessageSize()
	if len(text) > limit {
		// Reject rather than truncate so a saved message is never silently cut.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrMessageTooLarge, len(text), limit)
	}

	if !utf8.ValidString(text) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range text {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return text, nil
	}

	text = ansi.Strip(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func maxMessageSize() int {
	if val := os.Getenv(EnvMaxMessageSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxMessageSize
}
