package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"singularshift/internal/model"
)

type fakeSession struct {
	starts   int
	stops    int
	startErr error
	lastID   string
	lastOpts StartOptions
}

func (f *fakeSession) Start(_ context.Context, assistantID string, opts StartOptions) error {
	f.starts++
	f.lastID = assistantID
	f.lastOpts = opts
	return f.startErr
}

func (f *fakeSession) Stop(context.Context) error {
	f.stops++
	return nil
}

func final(role model.Role, text string) Event {
	return Event{Type: EventMessage, MessageType: "transcript", Role: role, TranscriptType: TranscriptFinal, Transcript: text}
}

func TestAdapter_StartRequiresAssistantID(t *testing.T) {
	sess := &fakeSession{}
	a := NewAdapter(sess, "  ", zap.NewNop())

	err := a.Start(context.Background(), StartOptions{})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, 0, sess.starts)
}

func TestAdapter_StartPassesOptions(t *testing.T) {
	sess := &fakeSession{}
	a := NewAdapter(sess, "asst_1", zap.NewNop())

	opts := StartOptions{VariableValues: map[string]string{"userName": "Sam"}, MaxDurationSeconds: 600}
	require.NoError(t, a.Start(context.Background(), opts))
	assert.Equal(t, "asst_1", sess.lastID)
	assert.Equal(t, opts, sess.lastOpts)
}

func TestAdapter_StartTransportFailure(t *testing.T) {
	sess := &fakeSession{startErr: errors.New("socket closed")}
	a := NewAdapter(sess, "asst_1", zap.NewNop())

	err := a.Start(context.Background(), StartOptions{})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "start", te.Op)
}

func TestAdapter_OnlyFinalTranscriptsAppended(t *testing.T) {
	a := NewAdapter(&fakeSession{}, "asst_1", zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, SignalStarted, a.Handle(ctx, Event{Type: EventCallStart}))
	assert.True(t, a.Active())

	partial := final(model.RoleUser, "I manage")
	partial.TranscriptType = TranscriptPartial
	assert.Equal(t, SignalNone, a.Handle(ctx, partial))

	assert.Equal(t, SignalTranscript, a.Handle(ctx, final(model.RoleUser, "I manage onboarding")))
	assert.Equal(t, SignalTranscript, a.Handle(ctx, final(model.RoleAssistant, "Tell me more.")))
	assert.Equal(t, SignalNone, a.Handle(ctx, final(model.RoleUser, "   ")))
	assert.Equal(t, SignalNone, a.Handle(ctx, Event{Type: EventMessage, MessageType: "function-call", TranscriptType: TranscriptFinal, Role: model.RoleUser, Transcript: "x"}))
	assert.Equal(t, SignalNone, a.Handle(ctx, final(model.Role("robot"), "beep")))

	assert.Equal(t, []model.Message{
		{Role: model.RoleUser, Content: "I manage onboarding"},
		{Role: model.RoleAssistant, Content: "Tell me more."},
	}, a.Messages())

	assert.Equal(t, SignalEnded, a.Handle(ctx, Event{Type: EventCallEnd}))
	assert.False(t, a.Active())
}

func TestAdapter_SpeakingFlag(t *testing.T) {
	a := NewAdapter(&fakeSession{}, "asst_1", zap.NewNop())
	ctx := context.Background()

	a.Handle(ctx, Event{Type: EventSpeechStart})
	assert.True(t, a.Speaking())
	a.Handle(ctx, Event{Type: EventSpeechEnd})
	assert.False(t, a.Speaking())
	assert.Equal(t, 0, a.Len())
}

func TestAdapter_ErrorStopsSession(t *testing.T) {
	sess := &fakeSession{}
	a := NewAdapter(sess, "asst_1", zap.NewNop())
	ctx := context.Background()

	require.NoError(t, a.Start(ctx, StartOptions{}))
	a.Handle(ctx, Event{Type: EventCallStart})

	assert.Equal(t, SignalFailed, a.Handle(ctx, Event{Type: EventError, Error: "ice failed"}))
	assert.False(t, a.Active())
	assert.Equal(t, 1, sess.stops)

	require.NoError(t, a.Stop(ctx))
	assert.Equal(t, 1, sess.stops)
}

func TestAdapter_StopIdempotent(t *testing.T) {
	sess := &fakeSession{}
	a := NewAdapter(sess, "asst_1", zap.NewNop())
	ctx := context.Background()

	require.NoError(t, a.Stop(ctx))
	require.NoError(t, a.Stop(ctx))
	assert.Equal(t, 1, sess.stops)

	require.NoError(t, a.Start(ctx, StartOptions{}))
	require.NoError(t, a.Stop(ctx))
	assert.Equal(t, 2, sess.stops)
}

func TestAdapter_StartResetsLog(t *testing.T) {
	a := NewAdapter(&fakeSession{}, "asst_1", zap.NewNop())
	ctx := context.Background()

	a.Handle(ctx, final(model.RoleUser, "left over from last call"))
	require.NoError(t, a.Start(ctx, StartOptions{}))
	assert.Empty(t, a.Messages())
}
