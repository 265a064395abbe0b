package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vitacheck/internal/api"
)

type recordingSender struct {
	mu     sync.Mutex
	events []api.TelemetryEvent
	err    error
}

func (r *recordingSender) SendTelemetry(_ context.Context, ev api.TelemetryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingSender) sent() []api.TelemetryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]api.TelemetryEvent(nil), r.events...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmitter_DeliversInOrder(t *testing.T) {
	sender := &recordingSender{}
	e := NewEmitter(sender, nil, discardLogger())

	left := 3599
	e.Emit("assessment_started", Snapshot{Stage: "level", Level: "1", AssessmentID: 7, TimeLeft: &left}, map[string]any{"ready_dwell_seconds": 2})
	e.Emit("assessment_level_timeout", Snapshot{Stage: "level", Level: "1", AssessmentID: 7}, nil)
	e.Close()

	events := sender.sent()
	require.Len(t, events, 2)
	assert.Equal(t, "assessment_started", events[0].EventType)
	assert.Equal(t, "assessment_level_timeout", events[1].EventType)

	require.NotNil(t, events[0].AssessmentID)
	assert.Equal(t, int64(7), *events[0].AssessmentID)
	require.NotNil(t, events[0].TimeLeft)
	assert.Equal(t, 3599, *events[0].TimeLeft)
}

func TestEmitter_ZeroAssessmentIDSentAsNull(t *testing.T) {
	sender := &recordingSender{}
	e := NewEmitter(sender, nil, discardLogger())

	e.Emit("assessment_ready_viewed", Snapshot{Stage: "ready", Level: "1"}, nil)
	e.Close()

	events := sender.sent()
	require.Len(t, events, 1)
	assert.Nil(t, events[0].AssessmentID)
	assert.Nil(t, events[0].TimeLeft)
	assert.NotNil(t, events[0].Details, "details default to an empty object")
}

func TestEmitter_SenderFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("backend down")}
	e := NewEmitter(sender, nil, discardLogger())

	// Must not panic, block, or propagate anything.
	e.Emit("assessment_exit_confirmed", Snapshot{Stage: "level", Level: "2", AssessmentID: 1}, nil)
	e.Close()
}

func TestEmitter_NilSenderAndJournal(t *testing.T) {
	e := NewEmitter(nil, nil, discardLogger())
	e.Emit("assessment_ready_viewed", Snapshot{Stage: "ready", Level: "1"}, nil)
	e.Close()
}

func TestEmitter_CloseIsIdempotent(t *testing.T) {
	e := NewEmitter(&recordingSender{}, nil, discardLogger())
	e.Close()
	e.Close()
}
