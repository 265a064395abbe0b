// Package telemetry implements best-effort event reporting. Emissions never
// block the caller, are never retried, and their failures never surface
// anywhere but the log — the assessment flow must behave identically with
// telemetry up, down, or absent.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/vitacheck/internal/api"
)

const (
	queueSize   = 64
	sendTimeout = 5 * time.Second
	drainGrace  = 2 * time.Second
)

// Sender posts one event to the backend. *api.Client satisfies it.
type Sender interface {
	SendTelemetry(ctx context.Context, ev api.TelemetryEvent) error
}

// Journal appends one event to local storage. May be nil on the Emitter.
type Journal interface {
	Append(ctx context.Context, ev api.TelemetryEvent) error
}

// Snapshot is the stage/timer context captured at the moment of emission.
type Snapshot struct {
	Stage        string
	Level        string
	AssessmentID int64 // zero before an attempt starts
	TimeLeft     *int  // nil outside the level/transition stages
}

// Emitter queues events onto a single worker goroutine, preserving emission
// order. A full queue drops the event rather than block the caller.
type Emitter struct {
	sender  Sender
	journal Journal
	log     *slog.Logger

	events    chan api.TelemetryEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewEmitter starts the worker. journal may be nil; logger must not be.
func NewEmitter(sender Sender, journal Journal, logger *slog.Logger) *Emitter {
	e := &Emitter{
		sender:  sender,
		journal: journal,
		log:     logger,
		events:  make(chan api.TelemetryEvent, queueSize),
		done:    make(chan struct{}),
	}
	go e.run()
	return e
}

// Emit enqueues one event. It returns immediately in every case.
func (e *Emitter) Emit(eventType string, snap Snapshot, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	ev := api.TelemetryEvent{
		EventType: eventType,
		Stage:     snap.Stage,
		Level:     snap.Level,
		TimeLeft:  snap.TimeLeft,
		Details:   details,
	}
	if snap.AssessmentID != 0 {
		id := snap.AssessmentID
		ev.AssessmentID = &id
	}

	select {
	case e.events <- ev:
	default:
		e.log.Warn("telemetry queue full, dropping event", "event_type", eventType)
	}
}

// Close stops accepting events and waits briefly for the queue to drain.
func (e *Emitter) Close() {
	e.closeOnce.Do(func() {
		close(e.events)
		select {
		case <-e.done:
		case <-time.After(drainGrace):
			e.log.Warn("telemetry drain timed out")
		}
	})
}

func (e *Emitter) run() {
	defer close(e.done)
	for ev := range e.events {
		e.dispatch(ev)
	}
}

func (e *Emitter) dispatch(ev api.TelemetryEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if e.journal != nil {
		if err := e.journal.Append(ctx, ev); err != nil {
			e.log.Warn("telemetry journal append failed", "event_type", ev.EventType, "error", err)
		}
	}
	if e.sender != nil {
		if err := e.sender.SendTelemetry(ctx, ev); err != nil {
			e.log.Warn("telemetry send failed", "event_type", ev.EventType, "error", err)
		}
	}
}
