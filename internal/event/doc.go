// Package event defines the messages that flow through a program and the
// bounded queue that carries them.
//
// Every input the runtime produces is a message: decoded keys and mouse
// reports, window size changes, focus changes, quit requests, errors and
// undecodable sequences. Applications add their own message types; any
// value that is not one of the built-in types is an application payload
// and is handed to the update function untouched.
//
// # Queue
//
// Queue is a bounded FIFO shared by every producer (input reader, resize
// watcher, command goroutines, external senders) and drained by exactly one
// consumer, the program loop. Producers block while the queue is full.
// Once the queue is closed, further posts are dropped without error so
// late command results cannot fault.
package event
