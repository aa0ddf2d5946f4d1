// Package mouse decodes terminal mouse reports.
//
// Two wire formats are understood and produce identical events:
//
//   - legacy (X10/normal tracking): ESC [ M followed by three raw bytes,
//     each offset by 32
//   - extended (SGR, mode 1006): ESC [ < code ; col ; row M, or m for a
//     release
//
// The button code layout is shared: the low two bits select the button
// (3 means none or release), 32 flags motion, 64 flags a wheel step, and
// 4, 8 and 16 carry Shift, Alt and Ctrl. Coordinates are 1-indexed on the
// wire and 0-indexed in Event.
//
//	ev, err := mouse.DecodeSGR("0;10;5", 'M')
//	// ev.Button == ButtonLeft, ev.Action == ActionPress, ev.X == 9, ev.Y == 4
//
// ClickCounter turns a stream of presses into single, double and triple
// clicks for applications that want them.
package mouse
