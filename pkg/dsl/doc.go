/*
Package dsl provides a fluent builder for constructing flowcanvas graphs in Go.

It is mostly useful for seeding demo canvases and for tests, where node ids must
be predictable instead of timestamp-derived.

Example usage:

	b := dsl.New()
	b.Add("welcome").Start("Hi there!").At(0, 0).Go("ask")
	b.Add("ask").Message("How can we help?").At(300, 0)
	g, err := b.Build()
*/
package dsl
