package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ErrUnknownEvent is returned when an event payload names no known event type.
var ErrUnknownEvent = errors.New("unknown event type")

// Event is a user gesture delivered to the controller.
type Event interface {
	// Name is the wire discriminator stored under "type".
	Name() string
}

// NodeClicked selects a node. Switching selection is direct.
type NodeClicked struct {
	NodeID string `json:"node_id" mapstructure:"node_id" validate:"required"`
}

// CanvasClicked is a click on empty canvas space.
type CanvasClicked struct{}

// ConnectToggled is the "connect" gesture on a node (link button or source handle).
type ConnectToggled struct {
	NodeID string `json:"node_id" mapstructure:"node_id" validate:"required"`
}

// NodeDeleted is the delete gesture on a node.
type NodeDeleted struct {
	NodeID string `json:"node_id" mapstructure:"node_id" validate:"required"`
}

// TemplatePicked starts dragging a toolbar template carrying an opaque type tag.
type TemplatePicked struct {
	Type string `json:"template" mapstructure:"template" validate:"required"`
}

// TemplateDropped ends a template drag with the pointer released at Pointer.
// CanvasOrigin is the canvas' top-left in the same coordinate space and
// GrabOffset is where inside the template the pointer held it.
// OffCanvas marks a drop with no canvas under it.
type TemplateDropped struct {
	Pointer      domain.Point `json:"pointer" mapstructure:"pointer"`
	CanvasOrigin domain.Point `json:"canvas_origin" mapstructure:"canvas_origin"`
	GrabOffset   domain.Point `json:"grab_offset" mapstructure:"grab_offset"`
	OffCanvas    bool         `json:"off_canvas,omitempty" mapstructure:"off_canvas"`
}

// TemplateDragEnded abandons a template drag without dropping.
type TemplateDragEnded struct{}

// PointerDown presses on a node. It selects the node and starts moving it.
// NodePosition is filled in by the Editor from the graph; callers may omit it.
type PointerDown struct {
	NodeID       string       `json:"node_id" mapstructure:"node_id" validate:"required"`
	Pointer      domain.Point `json:"pointer" mapstructure:"pointer"`
	NodePosition domain.Point `json:"node_position" mapstructure:"node_position"`
}

// PointerMoved is a pointer move anywhere on the interaction surface.
type PointerMoved struct {
	Pointer domain.Point `json:"pointer" mapstructure:"pointer"`
}

// PointerUp releases the pointer anywhere on the interaction surface.
type PointerUp struct{}

// PanelEdited replaces the side panel draft.
type PanelEdited struct {
	Text string `json:"text" mapstructure:"text"`
}

// PanelKey is a key press inside the panel text area.
type PanelKey struct {
	Key   string `json:"key" mapstructure:"key" validate:"required"`
	Shift bool   `json:"shift,omitempty" mapstructure:"shift"`
}

// PanelSaved is the save button.
type PanelSaved struct{}

// PanelClosed is the close button.
type PanelClosed struct{}

func (NodeClicked) Name() string       { return "select" }
func (CanvasClicked) Name() string     { return "canvas_click" }
func (ConnectToggled) Name() string    { return "connect" }
func (NodeDeleted) Name() string       { return "delete" }
func (TemplatePicked) Name() string    { return "template_pick" }
func (TemplateDropped) Name() string   { return "template_drop" }
func (TemplateDragEnded) Name() string { return "template_cancel" }
func (PointerDown) Name() string       { return "pointer_down" }
func (PointerMoved) Name() string      { return "pointer_move" }
func (PointerUp) Name() string         { return "pointer_up" }
func (PanelEdited) Name() string       { return "panel_edit" }
func (PanelKey) Name() string          { return "panel_key" }
func (PanelSaved) Name() string        { return "panel_save" }
func (PanelClosed) Name() string       { return "panel_close" }

var factories = map[string]func() Event{
	"select":          func() Event { return &NodeClicked{} },
	"canvas_click":    func() Event { return &CanvasClicked{} },
	"connect":         func() Event { return &ConnectToggled{} },
	"delete":          func() Event { return &NodeDeleted{} },
	"template_pick":   func() Event { return &TemplatePicked{} },
	"template_drop":   func() Event { return &TemplateDropped{} },
	"template_cancel": func() Event { return &TemplateDragEnded{} },
	"pointer_down":    func() Event { return &PointerDown{} },
	"pointer_move":    func() Event { return &PointerMoved{} },
	"pointer_up":      func() Event { return &PointerUp{} },
	"panel_edit":      func() Event { return &PanelEdited{} },
	"panel_key":       func() Event { return &PanelKey{} },
	"panel_save":      func() Event { return &PanelSaved{} },
	"panel_close":     func() Event { return &PanelClosed{} },
}

// EventNames lists every wire discriminator.
func EventNames() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeEvent builds an event from a loosely typed map (decoded JSON/YAML).
// The "type" key selects the event; remaining keys fill its fields.
func DecodeEvent(raw map[string]any) (Event, error) {
	name, _ := raw["type"].(string)
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}

	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "type" {
			fields[k] = v
		}
	}

	ptr := factory()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      ptr,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return nil, fmt.Errorf("invalid %s event: %w", name, err)
	}
	return deref(ptr), nil
}

// ParseEvent decodes a single JSON event object.
func ParseEvent(b []byte) (Event, error) {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("invalid event json: %w", err)
	}
	return DecodeEvent(raw)
}

// EncodeEvent is the inverse of DecodeEvent.
func EncodeEvent(ev Event) (map[string]any, error) {
	raw := map[string]any{}
	if err := mapstructure.Decode(ev, &raw); err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", ev.Name(), err)
	}
	raw["type"] = ev.Name()
	return raw, nil
}

// deref turns the decoding pointer back into the value type Reduce switches on.
func deref(ev Event) Event {
	switch e := ev.(type) {
	case *NodeClicked:
		return *e
	case *CanvasClicked:
		return *e
	case *ConnectToggled:
		return *e
	case *NodeDeleted:
		return *e
	case *TemplatePicked:
		return *e
	case *TemplateDropped:
		return *e
	case *TemplateDragEnded:
		return *e
	case *PointerDown:
		return *e
	case *PointerMoved:
		return *e
	case *PointerUp:
		return *e
	case *PanelEdited:
		return *e
	case *PanelKey:
		return *e
	case *PanelSaved:
		return *e
	case *PanelClosed:
		return *e
	}
	return ev
}
