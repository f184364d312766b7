package dsl

import (
	"testing"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New()
	b.Add("welcome").Start("Hello, DSL!").At(0, 0).Go("ask")
	b.Add("ask").Message("What is your name?").At(300, 0).Go("check")
	b.Add("check").Condition("Known user?", "user.known").At(600, 0).Go("notify")
	b.Add("notify").Action("Notify", "send_email").At(900, 0)

	g, err := b.Build()
	require.NoError(t, err)

	nodes := g.Nodes()
	require.Len(t, nodes, 4)
	assert.Equal(t, []string{"welcome", "ask", "check", "notify"}, []string{nodes[0].ID, nodes[1].ID, nodes[2].ID, nodes[3].ID})
	assert.Equal(t, domain.NodeTypeStart, nodes[0].Type)
	assert.Equal(t, domain.Point{X: 600, Y: 0}, nodes[2].Position)
	assert.Equal(t, "send_email", nodes[3].Data.(*domain.ActionData).Action)

	assert.Equal(t, []domain.Connection{
		domain.NewConnection("welcome", "ask"),
		domain.NewConnection("ask", "check"),
		domain.NewConnection("check", "notify"),
	}, g.Connections())
}

func TestBuilder_GoReplacesTarget(t *testing.T) {
	b := New()
	b.Add("a").Go("b").Go("c")
	b.Add("b")
	b.Add("c")

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []domain.Connection{domain.NewConnection("a", "c")}, g.Connections())
}

func TestBuilder_UnknownTarget(t *testing.T) {
	b := New()
	b.Add("a").Go("missing")

	_, err := b.Build()
	assert.ErrorContains(t, err, "missing")
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New()
	first := b.Add("a").Message("one")
	second := b.Add("a")
	assert.Same(t, first, second)

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	n, _ := g.Node("a")
	assert.Equal(t, "one", n.Message())
}
