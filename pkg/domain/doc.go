/*
Package domain contains the core data model of the flowcanvas editor.

It defines the entities of the flow graph and the values exchanged between the
editor and its hosts. This package is kept pure and free of external
dependencies like I/O or transport, following Hexagonal Architecture principles.

# Key Entities

  - Node: A positioned, typed box on the canvas carrying a NodeData variant.
  - NodeData: Tagged union of per-type payloads (Message, Start, Condition, Action).
  - Connection: A directed edge between two node ids. A node has at most one outgoing edge.
  - Snapshot: A detached copy of a session (graph + selection) and its SnapshotDiff.
  - LifecycleHooks: Callbacks fired when the graph changes.
*/
package domain
