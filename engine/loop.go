package engine

import (
	"io"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/termsweep/core"
	"github.com/lixenwraith/termsweep/terminal"
)

// eventBacklog bounds how far producers run ahead of a slow game before blocking
const eventBacklog = 256

// Option configures Run
type Option func(*options)

type options struct {
	tickRate int
	clock    Clock
	logger   *log.Logger
}

func defaultOptions() options {
	return options{
		tickRate: DefaultTickRate,
		clock:    SystemClock{},
		logger:   log.Default(),
	}
}

// WithTickRate sets the tick frequency in Hz, non-positive values are ignored
func WithTickRate(hz int) Option {
	return func(o *options) {
		if hz > 0 {
			o.tickRate = hz
		}
	}
}

// WithClock replaces the ticker time source
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger routes loop diagnostics to l instead of the standard logger
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Run drives game until Ctrl+C or an I/O error
// r is owned by the reader goroutine for the rest of its life; a read blocked when Run
// returns ends only when r does, so callers close the underlying source afterwards
// Returns nil on Ctrl+C, the wrapped read or write error otherwise
func Run[G Game](game G, r io.Reader, w io.Writer, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := terminal.ClearScreen(w); err != nil {
		return errors.Wrap(err, "clearing screen")
	}
	renderer := terminal.NewRenderer(w)

	events := make(chan Event, eventBacklog)
	done := make(chan struct{})
	defer close(done)

	go readKeys(terminal.NewDecoder(r), events, done)
	go runTicker(o.clock, time.Second/time.Duration(o.tickRate), events, done)

	err := loop(game, renderer, events)
	if err != nil {
		o.logger.Printf("[ENGINE] session ended: %v", err)
	}
	return err
}

// loop is the consumer side: render, receive one event, dispatch
func loop[G Game](game G, renderer *terminal.Renderer, events <-chan Event) error {
	for {
		if err := renderer.Render(game.Render()); err != nil {
			return errors.Wrap(err, "rendering frame")
		}

		ev, ok := <-events
		if !ok {
			return nil
		}

		switch ev.Type {
		case EventTick:
			game.Tick()
		case EventKey:
			game.ProcessKey(ev.Key)
		case EventTerminate:
			return nil
		case EventError:
			return errors.Wrap(ev.Err, "reading input")
		}
	}
}

// readKeys forwards decoded keys until Ctrl+C, a read error or a panic in the decoder
func readKeys(dec *terminal.Decoder, out chan<- Event, done <-chan struct{}) {
	send := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-done:
			return false
		}
	}

	defer func() {
		if r := recover(); r != nil {
			send(Event{Type: EventError, Err: core.PanicError(r)})
		}
	}()

	for {
		key, err := dec.ReadKey()
		if err != nil {
			send(Event{Type: EventError, Err: err})
			return
		}
		if key == terminal.Control('C') {
			send(Event{Type: EventTerminate})
			return
		}
		if !send(Event{Type: EventKey, Key: key}) {
			return
		}
	}
}
