package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/voyage/pkg/domain"
)

var (
	// DefaultMaxAnswerSize bounds a reply to an interview question or menu.
	DefaultMaxAnswerSize = 1024
	// DefaultMaxCredentialSize bounds a pasted API key. Provider keys and
	// service-account tokens run longer than any sensible answer.
	DefaultMaxCredentialSize = 4096

	// EnvMaxAnswerSize overrides DefaultMaxAnswerSize.
	EnvMaxAnswerSize = "VOYAGE_MAX_ANSWER_SIZE"
	// EnvMaxCredentialSize overrides DefaultMaxCredentialSize.
	EnvMaxCredentialSize = "VOYAGE_MAX_CREDENTIAL_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeAnswer rejects oversized or invalid UTF-8 answers and strips
// control characters other than newline, tab and carriage return.
func SanitizeAnswer(input string) (string, error) {
	if err := checkInput(input, limit(EnvMaxAnswerSize, DefaultMaxAnswerSize)); err != nil {
		return "", err
	}
	return strip(input, isSafeControl), nil
}

// SanitizeCredential applies the credential cap and removes every control
// character and surrounding space, so a key pasted across wrapped lines
// comes back as one token.
func SanitizeCredential(input string) (string, error) {
	if err := checkInput(input, limit(EnvMaxCredentialSize, DefaultMaxCredentialSize)); err != nil {
		return "", err
	}
	return strings.TrimSpace(strip(input, func(rune) bool { return false })), nil
}

// SanitizeFor picks the rule matching the kind of input being requested.
func SanitizeFor(t domain.InputType, input string) (string, error) {
	if t == domain.InputSecret {
		return SanitizeCredential(input)
	}
	return SanitizeAnswer(input)
}

// SanitizeEvent cleans ev.Value according to ev.Kind.
func SanitizeEvent(ev domain.Event) (domain.Event, error) {
	var err error
	if ev.Kind == domain.EventSubmitCredential {
		ev.Value, err = SanitizeCredential(ev.Value)
	} else {
		ev.Value, err = SanitizeAnswer(ev.Value)
	}
	return ev, err
}

func checkInput(input string, limit int) error {
	if len(input) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return ErrInvalidUTF8
	}
	return nil
}

// strip drops control characters for which keep returns false.
func strip(input string, keep func(rune) bool) string {
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !keep(r) {
			clean = false
			break
		}
	}
	if clean {
		return input
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func limit(env string, def int) int {
	if val := os.Getenv(env); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return def
}
