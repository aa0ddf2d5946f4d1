// Package keymap builds the escape-sequence table used by the input decoder.
//
// A Table maps the bytes that follow ESC to a key event. It is built once
// per session by merging sources in order, and no source overrides a
// binding added by an earlier one:
//
//  1. Terminfo: the capability strings of the current terminal
//  2. Fallback: hardcoded xterm, vt220, rxvt and Linux console sequences
//  3. ModifierVariants: xterm-style modifier forms generated from the
//     unmodified arrow, navigation and function keys bound so far
//
// Table.IsPrefix lets the decoder know whether more bytes could still
// complete a longer binding.
package keymap
