package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Output(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	needsInput, err := handler.Output(context.Background(), []domain.Effect{
		domain.Say("Hello"),
		domain.Ask(domain.InputRequest{Type: domain.InputText}),
	})
	require.NoError(t, err)
	assert.True(t, needsInput)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var decoded []domain.Effect
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Hello", decoded[0].Text)
	assert.Equal(t, domain.InputText, decoded[1].Input.Type)
}

func TestJSONHandler_Input(t *testing.T) {
	input := "\"quoted value\"\nplain value\n{\"type\":\"restart\"}\n"
	handler := NewJSONHandler(strings.NewReader(input), io.Discard)
	ctx := context.Background()
	req := domain.InputRequest{Type: domain.InputText}

	val, err := handler.Input(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "quoted value", val)

	val, err = handler.Input(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "plain value", val)

	val, err = handler.Input(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"restart"}`, val)

	_, err = handler.Input(ctx, req)
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler_SystemOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	require.NoError(t, handler.SystemOutput(context.Background(), "hi"))
	assert.JSONEq(t, `{"type":"system","text":"hi"}`, buf.String())
}
