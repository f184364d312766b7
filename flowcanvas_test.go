package flowcanvas_test

import (
	"testing"

	"github.com/aretw0/flowcanvas"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemo(t *testing.T) {
	g, err := flowcanvas.Demo()
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	assert.Len(t, g.Connections(), 3)
	start, ok := g.Node("start")
	require.True(t, ok)
	assert.Equal(t, domain.NodeTypeStart, start.Type)
}

func TestFromBuilder_Error(t *testing.T) {
	b := dsl.New()
	b.Add("a").Go("missing")
	_, err := flowcanvas.FromBuilder(b)
	assert.Error(t, err)
}
