// Package key provides the key event types produced by the terminal input
// decoder.
//
//   - Key: identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: modifier flags (Shift, Alt, Ctrl) laid out like the xterm
//     modifier parameter
//   - Event: a single decoded key press
//
// # Key Specifications
//
// Applications match events against specifications such as "q", "Ctrl+C",
// "Shift+Up" or "<C-s>" with Event.Matches.
package key
