package domain

import (
	"encoding/json"
	"fmt"
)

// NodeType tags the kind of step a node represents in the flow.
type NodeType string

const (
	// NodeTypeStart marks the entry point of a flow.
	NodeTypeStart NodeType = "start"
	// NodeTypeMessage sends a text message. It is the only type the toolbar produces.
	NodeTypeMessage NodeType = "message"
	// NodeTypeCondition branches on an expression.
	NodeTypeCondition NodeType = "condition"
	// NodeTypeAction triggers a side-effect.
	NodeTypeAction NodeType = "action"
)

// DefaultNodeType is used when a template carries an unknown type tag.
const DefaultNodeType = NodeTypeMessage

// NodeTypes lists the fixed enumeration in declaration order.
var NodeTypes = []NodeType{NodeTypeStart, NodeTypeMessage, NodeTypeCondition, NodeTypeAction}

// ParseNodeType maps a template tag onto the enumeration.
// Unknown tags fall back to DefaultNodeType.
func ParseNodeType(s string) NodeType {
	for _, t := range NodeTypes {
		if string(t) == s {
			return t
		}
	}
	return DefaultNodeType
}

// Valid reports whether t belongs to the enumeration.
func (t NodeType) Valid() bool {
	for _, known := range NodeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DefaultMessage returns the text a freshly dropped node starts with.
func (t NodeType) DefaultMessage() string {
	switch t {
	case NodeTypeMessage:
		return "Text Message"
	case NodeTypeCondition:
		return "Condition"
	case NodeTypeAction:
		return "Action"
	default:
		return "Welcome Message"
	}
}

// Node is a positioned, typed unit of the flow carrying editable data.
type Node struct {
	ID       string
	Type     NodeType
	Position Point
	Data     NodeData
}

// Message is a shortcut for the required text of the node payload.
func (n Node) Message() string {
	if n.Data == nil {
		return ""
	}
	return n.Data.Text()
}

// Bounds returns the node's bounding box on the canvas.
func (n Node) Bounds() Rect {
	return Rect{Min: n.Position, Max: n.Position.Add(Point{X: NodeWidth, Y: NodeHeight})}
}

// SourceAnchor is where an outgoing connection leaves the node (right edge, vertical middle).
func (n Node) SourceAnchor() Point {
	return n.Position.Add(Point{X: NodeWidth, Y: NodeHeight / 2})
}

// TargetAnchor is where incoming connections arrive (left edge, vertical middle).
func (n Node) TargetAnchor() Point {
	return n.Position.Add(Point{Y: NodeHeight / 2})
}

type nodeJSON struct {
	ID       string          `json:"id"`
	Type     NodeType        `json:"type"`
	Position Point           `json:"position"`
	Data     json.RawMessage `json:"data"`
}

// MarshalJSON flattens the data variant under "data".
func (n Node) MarshalJSON() ([]byte, error) {
	data := n.Data
	if data == nil {
		data = NewNodeData(n.Type, "")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode data of node %q: %w", n.ID, err)
	}
	return json.Marshal(nodeJSON{ID: n.ID, Type: n.Type, Position: n.Position, Data: raw})
}

// UnmarshalJSON picks the data variant from the node type.
func (n *Node) UnmarshalJSON(b []byte) error {
	var aux nodeJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if !aux.Type.Valid() {
		return fmt.Errorf("node %q: unknown type %q", aux.ID, aux.Type)
	}
	data := NewNodeData(aux.Type, "")
	if len(aux.Data) > 0 && string(aux.Data) != "null" {
		if err := json.Unmarshal(aux.Data, data); err != nil {
			return fmt.Errorf("node %q: invalid data: %w", aux.ID, err)
		}
	}
	n.ID = aux.ID
	n.Type = aux.Type
	n.Position = aux.Position
	n.Data = data
	return nil
}
