package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodeType(t *testing.T) {
	assert.Equal(t, NodeTypeStart, ParseNodeType("start"))
	assert.Equal(t, NodeTypeCondition, ParseNodeType("condition"))
	assert.Equal(t, NodeTypeMessage, ParseNodeType("webhook"))
	assert.Equal(t, NodeTypeMessage, ParseNodeType(""))
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, "Text Message", NodeTypeMessage.DefaultMessage())
	assert.Equal(t, "Condition", NodeTypeCondition.DefaultMessage())
	assert.Equal(t, "Action", NodeTypeAction.DefaultMessage())
	assert.Equal(t, "Welcome Message", NodeTypeStart.DefaultMessage())
}

func TestNode_Anchors(t *testing.T) {
	n := msgNode("n", 100, 50, "")
	assert.Equal(t, Point{X: 340, Y: 90}, n.SourceAnchor())
	assert.Equal(t, Point{X: 100, Y: 90}, n.TargetAnchor())
	assert.True(t, n.Bounds().Contains(Point{X: 339, Y: 129}))
	assert.False(t, n.Bounds().Contains(Point{X: 340, Y: 90}))
}

func TestNode_JSONRoundTripKeepsVariant(t *testing.T) {
	in := Node{
		ID:       "condition-1",
		Type:     NodeTypeCondition,
		Position: Point{X: 1.5, Y: 2},
		Data:     &ConditionData{Message: "Is VIP?", Condition: "user.vip"},
	}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"condition-1","type":"condition","position":{"x":1.5,"y":2},"data":{"message":"Is VIP?","condition":"user.vip"}}`, string(raw))

	var out Node
	require.NoError(t, json.Unmarshal(raw, &out))
	data, ok := out.Data.(*ConditionData)
	require.True(t, ok, "expected ConditionData, got %T", out.Data)
	assert.Equal(t, "user.vip", data.Condition)
}

func TestNode_UnmarshalRejectsUnknownType(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"id":"x","type":"webhook","position":{"x":0,"y":0},"data":{"message":""}}`), &n)
	assert.Error(t, err)
}
