package domain

// NodeData is the payload of a node. Each node type has its own variant and
// only carries the fields it uses.
type NodeData interface {
	// Kind returns the node type the variant belongs to.
	Kind() NodeType
	// Text returns the required message string.
	Text() string
	// Clone returns a deep copy so snapshots never alias live nodes.
	Clone() NodeData
}

// MessageData is the payload of a message node.
type MessageData struct {
	Message string `json:"message" mapstructure:"message"`
}

func (d *MessageData) Kind() NodeType  { return NodeTypeMessage }
func (d *MessageData) Text() string    { return d.Message }
func (d *MessageData) Clone() NodeData { c := *d; return &c }

// StartData is the payload of the entry node.
type StartData struct {
	Message string `json:"message" mapstructure:"message"`
}

func (d *StartData) Kind() NodeType  { return NodeTypeStart }
func (d *StartData) Text() string    { return d.Message }
func (d *StartData) Clone() NodeData { c := *d; return &c }

// ConditionData carries the branching expression next to its label.
type ConditionData struct {
	Message   string `json:"message" mapstructure:"message"`
	Condition string `json:"condition,omitempty" mapstructure:"condition"`
}

func (d *ConditionData) Kind() NodeType  { return NodeTypeCondition }
func (d *ConditionData) Text() string    { return d.Message }
func (d *ConditionData) Clone() NodeData { c := *d; return &c }

// ActionData names the side-effect an action node triggers.
type ActionData struct {
	Message string `json:"message" mapstructure:"message"`
	Action  string `json:"action,omitempty" mapstructure:"action"`
}

func (d *ActionData) Kind() NodeType  { return NodeTypeAction }
func (d *ActionData) Text() string    { return d.Message }
func (d *ActionData) Clone() NodeData { c := *d; return &c }

// NewNodeData builds the variant matching t. Unknown types get a MessageData.
func NewNodeData(t NodeType, message string) NodeData {
	switch t {
	case NodeTypeStart:
		return &StartData{Message: message}
	case NodeTypeCondition:
		return &ConditionData{Message: message}
	case NodeTypeAction:
		return &ActionData{Message: message}
	default:
		return &MessageData{Message: message}
	}
}
