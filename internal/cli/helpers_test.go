package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterruptibleReader(t *testing.T) {
	cancel := make(chan struct{})
	r := NewInterruptibleReader(strings.NewReader("hello"), cancel)

	buf := make([]byte, 5)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	close(cancel)
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestHandleExecutionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eof", io.EOF, false},
		{"canceled", fmt.Errorf("play: %w", context.Canceled), false},
		{"interrupted", ErrInterrupted, false},
		{"real failure", errors.New("boom"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handleExecutionError(tt.err) != nil)
		})
	}
}

func TestLogCompletion(t *testing.T) {
	var buf bytes.Buffer
	logCompletion(&buf, "replaying x", nil, nil)
	assert.Equal(t, ">>> Finished replaying x.\n", buf.String())

	buf.Reset()
	logCompletion(&buf, "replaying x", context.Canceled, os.Interrupt)
	assert.Equal(t, "[CTRL+C]\n>>> Interrupted replaying x.\n", buf.String())

	buf.Reset()
	logCompletion(&buf, "replaying x", errors.New("boom"), nil)
	assert.Empty(t, buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatSummary, f)

	f, err = ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	_, err = ParseFormat("png")
	assert.Error(t, err)
}

func TestPrinter(t *testing.T) {
	snap := domain.Snapshot{
		SessionID: "s",
		Nodes: []domain.Node{
			{ID: "a", Type: domain.NodeTypeMessage, Data: domain.NewNodeData(domain.NodeTypeMessage, "Hi")},
		},
		Connections: []domain.Connection{},
	}

	var buf bytes.Buffer
	require.NoError(t, Printer{Format: FormatSummary}.Print(&buf, snap))
	assert.Contains(t, buf.String(), "| `a` | message |")

	buf.Reset()
	require.NoError(t, Printer{Format: FormatMermaid}.Print(&buf, snap))
	assert.Contains(t, buf.String(), "graph LR")

	buf.Reset()
	require.NoError(t, Printer{Format: FormatSVG, Viewport: domain.Point{X: 1000, Y: 700}}.Print(&buf, snap))
	assert.True(t, strings.HasPrefix(buf.String(), "<svg"))
	assert.Contains(t, buf.String(), `width="1000"`)

	buf.Reset()
	require.NoError(t, Printer{
		Format:   FormatSummary,
		Markdown: func(md string) (string, error) { return strings.ToUpper(md), nil },
	}.Print(&buf, snap))
	assert.Contains(t, buf.String(), "# CANVAS")
}
