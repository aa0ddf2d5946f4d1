// Package input turns raw terminal bytes into messages.
//
// The pipeline has three layers:
//
//   - ByteSource: single bytes with a read timeout. Pump adapts any
//     io.Reader.
//   - Assembler: the decoding state machine. Control bytes become key
//     messages; ESC starts an escape sequence (CSI, SS3, Alt+key, mouse
//     reports, focus reports) resolved through a keymap.Table; everything
//     else is UTF-8 text.
//   - Reader: the background loop that feeds decoded messages to the
//     program queue until its context ends or input is exhausted.
//
// # Ambiguity
//
// A lone ESC byte is either the Escape key or the start of a sequence. The
// assembler waits up to the ambiguity timeout (100ms by default) for the
// next byte; if none arrives the key is Escape. The same timeout bounds the
// wait for each continuation byte of a sequence, after which the bytes
// read so far are resolved against the keymap or reported as UnknownMsg.
package input
