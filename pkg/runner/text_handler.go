package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TextHandler implements the interactive terminal interface.
type TextHandler struct {
	source   io.Reader
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// ReadSecret reads a credential without echo. It is set when the source
	// is a terminal and is only used before the line pump starts.
	ReadSecret func() (string, error)

	output    *termenv.Output
	inputChan chan inputResult
	startOnce sync.Once
	started   bool
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		source: r,
		Reader: bufio.NewReader(r),
		Writer: w,
		output: termenv.NewOutput(w),
	}

	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		h.ReadSecret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(h.Writer)
			return string(b), err
		}
	}

	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.started = true
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

// Output prints messages and describes the pending input request.
func (h *TextHandler) Output(ctx context.Context, effects []domain.Effect) (bool, error) {
	needsInput := false
	for _, e := range effects {
		switch e.Type {
		case domain.EffectMessage:
			out := e.Text
			if h.Renderer != nil {
				if rendered, err := h.Renderer(out); err == nil {
					out = rendered
				}
			}
			fmt.Fprintln(h.Writer, strings.TrimSpace(out))
			fmt.Fprintln(h.Writer)

		case domain.EffectRequestInput:
			needsInput = true
			if e.Input != nil {
				h.describe(*e.Input)
			}
		}
	}
	return needsInput, nil
}

func (h *TextHandler) describe(req domain.InputRequest) {
	if req.Type == domain.InputChoice || req.Type == domain.InputAction || req.Type == domain.InputConfirm {
		for i, opt := range req.Options {
			fmt.Fprintf(h.Writer, "  [%d] %s\n", i+1, opt)
		}
	}
	if req.Type == domain.InputConfirm {
		fmt.Fprintln(h.Writer, h.output.String("  (press Enter to confirm, or type 'no' to start over)").Faint())
	}
}

// Input reads one line. Secret requests on a terminal are read without echo.
func (h *TextHandler) Input(ctx context.Context, req domain.InputRequest) (string, error) {
	if req.Type == domain.InputSecret && h.ReadSecret != nil && !h.started {
		fmt.Fprintf(h.Writer, "%s: ", req.Prompt)
		text, err := h.ReadSecret()
		if err != nil {
			return "", err
		}
		return SanitizeCredential(text)
	}

	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := SanitizeFor(req.Type, strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints a styled meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	styled := h.output.String("[System] " + msg).Foreground(h.output.Color("6"))
	fmt.Fprintf(h.Writer, "\n%s\n", styled)
	return nil
}
