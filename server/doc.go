// Package server delivers streaming pipeline output over HTTP, either as
// a plain-text body of successive fragments or as a text/event-stream of
// JSON step events.
package server
