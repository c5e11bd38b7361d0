// Package ratelimit provides the per-client fixed-window limiter that guards
// API traffic.
//
// The window is fixed, not sliding: a client can spend its full allowance at
// the end of one window and again at the start of the next, so up to twice the
// nominal rate passes across a boundary.
package ratelimit
