// Package renderer paints the string produced by an application's view
// function onto the terminal.
//
// A frame is split into lines. Each line is truncated to the terminal width
// and only lines that differ from the previous frame are rewritten. Frames
// can be paced to a maximum rate; a frame submitted too soon is held and
// written when the interval expires, replacing any frame still pending.
//
// Usage:
//
//	r := renderer.NewLineRenderer(term, renderer.Options{MaxFPS: 60})
//	r.Resize(80, 24)
//	r.Render(view(state))
//	defer r.Stop()
package renderer
