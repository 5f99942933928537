package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/voyage/pkg/domain"
)

// JSONHandler implements IOHandler over newline-delimited JSON.
// Each Output call writes one line holding the effect array. Replies are one
// line each: a JSON string, a JSON event object or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, effects []domain.Effect) (bool, error) {
	if len(effects) == 0 {
		return false, nil
	}
	if err := h.Encoder.Encode(effects); err != nil {
		return false, err
	}
	return domain.PendingInput(effects) != nil, nil
}

func (h *JSONHandler) Input(ctx context.Context, req domain.InputRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return SanitizeFor(req.Type, text)
}

// systemMessage is the envelope of SystemOutput lines.
type systemMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(systemMessage{Type: "system", Text: msg})
}
