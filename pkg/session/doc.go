/*
Package session hosts many canvas editors side by side.

An editor is single-threaded; the Manager gives every session its own lock so
that transports (HTTP, MCP, the console) can drive sessions concurrently while
each session still sees one event at a time.
*/
package session
