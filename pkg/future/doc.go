// Package future provides a minimal asynchronous-value primitive: a Future
// carrying exactly one Result over a buffered channel, plus the combinators
// needed to compose them (All, Delay, Then, Catch).
//
// The Awaitable interface is deliberately narrow (a single C() method) so
// that any value exposing a settle channel can participate in combination
// and chaining without wrapping.
package future
