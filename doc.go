/*
Package flowcanvas is the core of a visual message-flow editor: a graph of
positioned, typed nodes joined by directed connections, edited through
pointer gestures and a side panel.

# Concept

The graph is plain data. Every gesture (click, drag, connect, delete, edit)
is an event fed to an Editor, which runs it through a pure interaction state
machine and applies the resulting graph mutations. Hosts (the HTTP server,
the MCP server, the console) only translate their inputs into events and
render the resulting snapshot.

# Key Features

  - Single outgoing connection per node: connecting again replaces the edge.
  - Cascading deletes: removing a node removes every connection touching it.
  - Scoped pointer subscription: a node drag owns the surface until release.
  - Deterministic ids through an injectable clock.

# Usage

	ed := flowcanvas.New()
	ctx := context.Background()

	ed.Dispatch(ctx, flowcanvas.TemplatePicked{Type: "message"})
	ed.Dispatch(ctx, flowcanvas.TemplateDropped{Pointer: flowcanvas.Point{X: 300, Y: 200}})

	snap := ed.Snapshot()
	fmt.Println(len(snap.Nodes)) // 1
*/
package flowcanvas
