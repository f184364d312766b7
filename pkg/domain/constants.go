package domain

// Logical size of every node box on the canvas.
const (
	NodeWidth  = 240.0
	NodeHeight = 80.0
)

// Payload keys understood by UpdateNodeData patches.
const (
	KeyMessage   = "message"
	KeyCondition = "condition"
	KeyAction    = "action"
)
