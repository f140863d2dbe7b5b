package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"singularshift/internal/audit"
	"singularshift/internal/model"
	"singularshift/internal/voice"
)

type fakeVoice struct {
	mu       sync.Mutex
	starts   int
	stops    int
	startErr error
	opts     voice.StartOptions
}

func (f *fakeVoice) Start(_ context.Context, _ string, opts voice.StartOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.opts = opts
	return f.startErr
}

func (f *fakeVoice) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

type toast struct {
	level   ToastLevel
	message string
}

type fakeNotifier struct {
	mu        sync.Mutex
	toasts    []toast
	redirects []string
	states    []model.SessionState
}

func (n *fakeNotifier) Toast(_ string, level ToastLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast{level, message})
}

func (n *fakeNotifier) Redirect(_ string, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, path)
}

func (n *fakeNotifier) State(status model.SessionStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.states = append(n.states, status.State)
}

func (n *fakeNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, t := range n.toasts {
		out = append(out, t.message)
	}
	return out
}

type fakeProcessor struct {
	mu   sync.Mutex
	subs []audit.Submission
	err  error
	// block, when set, holds Run until closed
	block chan struct{}
}

func (p *fakeProcessor) Run(ctx context.Context, sub audit.Submission) (*model.InterviewDocument, error) {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, sub)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	return &model.InterviewDocument{InterviewID: sub.InterviewID}, nil
}

func (p *fakeProcessor) MinSubstantive() int { return 5 }

func (p *fakeProcessor) runs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

type fakeLock struct {
	ok  bool
	err error
}

func (l fakeLock) AcquireProcessing(context.Context, string) (bool, error) { return l.ok, l.err }

type fixture struct {
	orch      *Orchestrator
	voice     *fakeVoice
	notifier  *fakeNotifier
	processor *fakeProcessor
}

func newFixture(assistantID string) *fixture {
	fv := &fakeVoice{}
	fn := &fakeNotifier{}
	fp := &fakeProcessor{}
	adapter := voice.NewAdapter(fv, assistantID, zap.NewNop())
	o := New("s-1", model.Participant{UserID: "u-1", UserName: "Ada", JobTitle: "Analyst"}, adapter, Deps{
		Processor:          fp,
		Notifier:           fn,
		Logger:             zap.NewNop(),
		MaxDurationSeconds: 1800,
	})
	return &fixture{orch: o, voice: fv, notifier: fn, processor: fp}
}

func final(role model.Role, text string) voice.Event {
	return voice.Event{Type: voice.EventMessage, MessageType: "transcript", Role: role, TranscriptType: voice.TranscriptFinal, Transcript: text}
}

func (f *fixture) live(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.orch.Start(ctx))
	require.Equal(t, model.StateConnecting, f.orch.State())
	f.orch.HandleEvent(ctx, voice.Event{Type: voice.EventCallStart})
	require.Equal(t, model.StateActive, f.orch.State())
}

func (f *fixture) talk(userTurns int, closing string) {
	ctx := context.Background()
	for i := 0; i < userTurns; i++ {
		f.orch.HandleEvent(ctx, final(model.RoleAssistant, fmt.Sprintf("Question number %d?", i+1)))
		f.orch.HandleEvent(ctx, final(model.RoleUser, fmt.Sprintf("This is my detailed answer %d", i+1)))
	}
	if closing != "" {
		f.orch.HandleEvent(ctx, final(model.RoleAssistant, closing))
	}
}

func TestOrchestrator_StartPassesProfile(t *testing.T) {
	f := newFixture("asst-1")
	f.live(t)

	assert.Equal(t, 1, f.voice.starts)
	assert.Equal(t, "Analyst", f.voice.opts.VariableValues["user_jobTitle"])
	assert.Equal(t, "Ada", f.voice.opts.VariableValues["userName"])
	assert.Equal(t, 1800, f.voice.opts.MaxDurationSeconds)
	assert.NotEmpty(t, f.orch.Status().InterviewID)
}

func TestOrchestrator_MissingAssistantID(t *testing.T) {
	f := newFixture("")

	err := f.orch.Start(context.Background())

	assert.True(t, voice.IsConfigurationError(err))
	assert.Equal(t, model.StateInactive, f.orch.State())
	assert.Equal(t, []string{MsgAssistantMissing}, f.notifier.messages())
	assert.Zero(t, f.voice.starts)
}

func TestOrchestrator_StartTransportFailure(t *testing.T) {
	f := newFixture("asst-1")
	f.voice.startErr = errors.New("mic denied")

	err := f.orch.Start(context.Background())

	assert.Error(t, err)
	assert.Equal(t, model.StateInactive, f.orch.State())
	assert.Equal(t, []string{MsgStartFailed}, f.notifier.messages())
}

func TestOrchestrator_StartRejectedWhileBusy(t *testing.T) {
	f := newFixture("asst-1")
	require.NoError(t, f.orch.Start(context.Background()))

	assert.ErrorIs(t, f.orch.Start(context.Background()), ErrBusy)

	f.orch.HandleEvent(context.Background(), voice.Event{Type: voice.EventCallStart})
	assert.ErrorIs(t, f.orch.Start(context.Background()), ErrBusy)
}

func TestOrchestrator_ShortSessionStaysFinished(t *testing.T) {
	for turns := 0; turns < 5; turns++ {
		t.Run(fmt.Sprintf("%d answers", turns), func(t *testing.T) {
			f := newFixture("asst-1")
			f.live(t)
			f.talk(turns, "Have a great day")

			f.orch.HandleEvent(context.Background(), voice.Event{Type: voice.EventCallEnd})
			f.orch.Wait()

			assert.Equal(t, model.StateFinished, f.orch.State())
			assert.Zero(t, f.processor.runs())
			assert.NotContains(t, f.notifier.states, model.StateProcessing)
			assert.Empty(t, f.notifier.redirects)
		})
	}
}

func TestOrchestrator_ShortAnswersDoNotCount(t *testing.T) {
	f := newFixture("asst-1")
	f.live(t)
	for i := 0; i < 8; i++ {
		f.orch.HandleEvent(context.Background(), final(model.RoleUser, "yes"))
	}
	f.orch.HandleEvent(context.Background(), voice.Event{Type: voice.EventCallEnd})
	f.orch.Wait()

	assert.Equal(t, model.StateFinished, f.orch.State())
	assert.Zero(t, f.processor.runs())
}

func TestOrchestrator_ProcessesCompletedInterview(t *testing.T) {
	f := newFixture("asst-1")
	f.live(t)
	f.talk(5, "Thank you so much. Have a great day!")

	f.orch.HandleEvent(context.Background(), voice.Event{Type: voice.EventCallEnd})
	f.orch.Wait()

	assert.Equal(t, model.StateDone, f.orch.State())
	require.Equal(t, 1, f.processor.runs())
	sub := f.processor.subs[0]
	assert.True(t, sub.CompletionObserved)
	assert.Len(t, sub.Messages, 11)
	assert.Equal(t, "u-1", sub.Participant.UserID)
	assert.Equal(t, f.orch.Status().InterviewID, sub.InterviewID)

	assert.Equal(t, []string{MsgProcessing, MsgProcessed}, f.notifier.messages())
	assert.Equal(t, []string{RedirectHome}, f.notifier.redirects)
	assert.Contains(t, f.notifier.states, model.StateProcessing)
}

func TestOrchestrator_DisconnectFinishes(t *testing.T) {
	f := newFixture("asst-1")
	f.live(t)
	f.talk(5, "")

	require.NoError(t, f.orch.Disconnect(context.Background()))
	f.orch.Wait()

	assert.Equal(t, 1, f.voice.stops)
	assert.Equal(t, model.StateDone, f.orch.State())
	require.Equal(t, 1, f.processor.runs())
	assert.False(t, f.processor.subs[0].CompletionObserved)
}

func TestOrchestrator_DisconnectWhileConnecting(t *testing.T) {
	f := newFixture("asst-1")
	require.NoError(t, f.orch.Start(context.Background()))

	require.NoError(t, f.orch.Disconnect(context.Background()))

	assert.Equal(t, model.StateInactive, f.orch.State())
}

func TestOrchestrator_ProcessingIsNotReentrant(t *testing.T) {
	f := newFixture("asst-1")
	f.processor.block = make(chan struct{})
	f.live(t)
	f.talk(5, "Have a great day")

	ctx := context.Background()
	f.orch.HandleEvent(ctx, voice.Event{Type: voice.EventCallEnd})
	f.orch.HandleEvent(ctx, voice.Event{Type: voice.EventCallEnd})
	require.NoError(t, f.orch.Disconnect(ctx))
	assert.Equal(t, model.StateProcessing, f.orch.State())
	assert.ErrorIs(t, f.orch.Start(ctx), ErrBusy)

	close(f.processor.block)
	f.orch.Wait()

	assert.Equal(t, 1, f.processor.runs())
	assert.Equal(t, model.StateDone, f.orch.State())
}

func TestOrchestrator_ProcessingSurvivesCancellation(t *testing.T) {
	f := newFixture("asst-1")
	f.processor.block = make(chan struct{})
	f.live(t)
	f.talk(5, "Have a great day")

	ctx, cancel := context.WithCancel(context.Background())
	f.orch.HandleEvent(ctx, voice.Event{Type: voice.EventCallEnd})
	cancel()
	close(f.processor.block)
	f.orch.Wait()

	assert.Equal(t, []string{MsgProcessing, MsgProcessed}, f.notifier.messages())
}

func TestOrchestrator_PersistenceFailure(t *testing.T) {
	f := newFixture("asst-1")
	f.processor.err = &audit.PersistenceError{InterviewID: "x", Err: errors.New("db down")}
	f.live(t)
	f.talk(5, "Have a great day")

	f.orch.HandleEvent(context.Background(), voice.Event{Type: voice.EventCallEnd})
	f.orch.Wait()

	assert.Equal(t, model.StateDone, f.orch.State())
	assert.Equal(t, []string{MsgProcessing, MsgProcessFailed}, f.notifier.messages())
	assert.Equal(t, []string{RedirectHome}, f.notifier.redirects)
}

func TestOrchestrator_LockHeldElsewhere(t *testing.T) {
	f := newFixture("asst-1")
	f.orch.deps.Lock = fakeLock{ok: false}
	f.live(t)
	f.talk(5, "Have a great day")

	f.orch.HandleEvent(context.Background(), voice.Event{Type: voice.EventCallEnd})
	f.orch.Wait()

	assert.Zero(t, f.processor.runs())
	assert.Equal(t, model.StateDone, f.orch.State())
}

func TestOrchestrator_LockErrorFailsOpen(t *testing.T) {
	f := newFixture("asst-1")
	f.orch.deps.Lock = fakeLock{err: errors.New("redis down")}
	f.live(t)
	f.talk(5, "Have a great day")

	f.orch.HandleEvent(context.Background(), voice.Event{Type: voice.EventCallEnd})
	f.orch.Wait()

	assert.Equal(t, 1, f.processor.runs())
}

func TestOrchestrator_ErrorEventForcesInactive(t *testing.T) {
	f := newFixture("asst-1")
	f.live(t)

	f.orch.HandleEvent(context.Background(), voice.Event{Type: voice.EventError, Error: "network"})

	assert.Equal(t, model.StateInactive, f.orch.State())
	assert.Equal(t, 1, f.voice.stops)
}

func TestOrchestrator_RestartResetsCompletion(t *testing.T) {
	f := newFixture("asst-1")
	f.live(t)
	f.talk(2, "Have a great day")
	f.orch.HandleEvent(context.Background(), voice.Event{Type: voice.EventCallEnd})
	require.Equal(t, model.StateFinished, f.orch.State())

	f.live(t)
	f.talk(5, "")
	f.orch.HandleEvent(context.Background(), voice.Event{Type: voice.EventCallEnd})
	f.orch.Wait()

	require.Equal(t, 1, f.processor.runs())
	assert.False(t, f.processor.subs[0].CompletionObserved)
	assert.Len(t, f.processor.subs[0].Messages, 10)
}

func TestOrchestrator_OpeningCourtesyDoesNotComplete(t *testing.T) {
	f := newFixture("asst-1")
	f.live(t)
	ctx := context.Background()
	f.orch.HandleEvent(ctx, final(model.RoleAssistant, "Hi Ada, thank you for your time today. Let's begin."))
	f.talk(5, "")

	f.orch.HandleEvent(ctx, voice.Event{Type: voice.EventCallEnd})
	f.orch.Wait()

	require.Equal(t, 1, f.processor.runs())
	sub := f.processor.subs[0]
	assert.False(t, sub.CompletionObserved)
	assert.Equal(t, audit.CompletionObserved(sub.Messages), sub.CompletionObserved)
}

func TestOrchestrator_CallEndWhileConnecting(t *testing.T) {
	f := newFixture("asst-1")
	ctx := context.Background()
	require.NoError(t, f.orch.Start(ctx))

	f.orch.HandleEvent(ctx, voice.Event{Type: voice.EventCallEnd})

	assert.Equal(t, model.StateInactive, f.orch.State())
	assert.Zero(t, f.processor.runs())
	require.NoError(t, f.orch.Start(ctx))
	assert.Equal(t, model.StateConnecting, f.orch.State())
}
