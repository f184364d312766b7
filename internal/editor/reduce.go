package editor

// Reduce is the interaction state machine. It is pure: given the current
// state and an event it returns the next state plus the graph mutations the
// event implies. Panel text events are not interaction state and pass
// through unchanged.
func Reduce(s State, ev Event) (State, []Command) {
	switch e := ev.(type) {
	case NodeClicked:
		s.SelectedNodeID = e.NodeID
		return s, nil

	case CanvasClicked:
		s.SelectedNodeID = ""
		s.ConnectingFrom = ""
		return s, nil

	case ConnectToggled:
		switch s.ConnectingFrom {
		case "":
			s.ConnectingFrom = e.NodeID
			return s, nil
		case e.NodeID:
			// Same node again cancels.
			s.ConnectingFrom = ""
			return s, nil
		default:
			cmd := AddConnection{Source: s.ConnectingFrom, Target: e.NodeID}
			s.ConnectingFrom = ""
			return s, []Command{cmd}
		}

	case NodeDeleted:
		if s.SelectedNodeID == e.NodeID {
			s.SelectedNodeID = ""
		}
		if s.ConnectingFrom == e.NodeID {
			s.ConnectingFrom = ""
		}
		if s.ActiveDrag != nil && s.ActiveDrag.NodeID == e.NodeID {
			s.ActiveDrag = nil
		}
		return s, []Command{DeleteNode{NodeID: e.NodeID}}

	case TemplatePicked:
		s.DraggedTemplate = e.Type
		s.ActiveDrag = nil
		return s, nil

	case TemplateDropped:
		tmpl := s.DraggedTemplate
		s.DraggedTemplate = ""
		if tmpl == "" || e.OffCanvas {
			return s, nil
		}
		pos := e.Pointer.Sub(e.CanvasOrigin).Sub(e.GrabOffset)
		return s, []Command{AddNode{Type: tmpl, Position: pos}}

	case TemplateDragEnded:
		s.DraggedTemplate = ""
		return s, nil

	case PointerDown:
		s.SelectedNodeID = e.NodeID
		s.DraggedTemplate = ""
		s.ActiveDrag = &Drag{NodeID: e.NodeID, Offset: e.Pointer.Sub(e.NodePosition)}
		return s, nil

	case PointerMoved:
		if s.ActiveDrag == nil {
			return s, nil
		}
		pos := e.Pointer.Sub(s.ActiveDrag.Offset)
		return s, []Command{MoveNode{NodeID: s.ActiveDrag.NodeID, Position: pos}}

	case PointerUp:
		s.ActiveDrag = nil
		return s, nil

	case PanelClosed:
		s.SelectedNodeID = ""
		return s, nil
	}
	return s, nil
}
