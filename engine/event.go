// Package engine runs a terminal game session.
//
// Event Loop Architecture
//
// Two producer goroutines feed one channel consumed by the caller's goroutine:
//   - Reader: decodes keys from the byte source. Ctrl+C becomes EventTerminate,
//     a read error becomes EventError; either ends the reader.
//   - Ticker: emits EventTick at a target rate, correcting for the time lost in
//     the previous sleep and send so the long-run rate does not drift.
//
// The consumer is the only goroutine that touches the Game: it renders, blocks on
// the channel, and dispatches one event at a time. Events are handled in arrival
// order; ticks are never coalesced, so a slow game works through a backlog.
package engine

import (
	"github.com/lixenwraith/termsweep/terminal"
)

// EventType identifies what an Event carries
type EventType uint8

const (
	EventTick EventType = iota
	EventKey
	EventTerminate
	EventError
)

// Event is one item on the loop channel
type Event struct {
	Type EventType
	Key  terminal.Key // EventKey
	Err  error        // EventError
}

var eventNames = map[EventType]string{
	EventTick:      "Tick",
	EventKey:       "Key",
	EventTerminate: "Terminate",
	EventError:     "Error",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "Unknown"
}
