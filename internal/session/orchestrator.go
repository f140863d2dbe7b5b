package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"singularshift/internal/audit"
	"singularshift/internal/model"
	"singularshift/internal/voice"
)

// ErrBusy is returned by Start while a session is connecting, live or finishing up
var ErrBusy = errors.New("session busy")

// Deps are the collaborators shared by every orchestrator
type Deps struct {
	Processor Processor
	Notifier  Notifier
	Lock      Lock        // optional
	Statuses  StatusStore // optional
	Logger    *zap.Logger

	MaxDurationSeconds int
}

// Orchestrator drives one interview session through
// INACTIVE → CONNECTING → ACTIVE → FINISHED → PROCESSING → DONE.
type Orchestrator struct {
	id          string
	participant model.Participant
	adapter     *voice.Adapter
	deps        Deps
	logger      *zap.Logger
	onDone      func(id string)

	mu          sync.Mutex
	state       model.SessionState
	interviewID string
	processing  bool
	touched     time.Time

	wg sync.WaitGroup
}

// New creates an INACTIVE orchestrator for participant
func New(id string, participant model.Participant, adapter *voice.Adapter, deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		id:          id,
		participant: participant,
		adapter:     adapter,
		deps:        deps,
		logger:      logger.With(zap.String("sessionId", id), zap.String("userId", participant.UserID)),
		state:       model.StateInactive,
		touched:     time.Now().UTC(),
	}
}

func (o *Orchestrator) ID() string { return o.id }

func (o *Orchestrator) Participant() model.Participant { return o.participant }

// State returns the current lifecycle state
func (o *Orchestrator) State() model.SessionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Status returns a snapshot for the UI
func (o *Orchestrator) Status() model.SessionStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.statusLocked()
}

func (o *Orchestrator) statusLocked() model.SessionStatus {
	return model.SessionStatus{
		ID:           o.id,
		UserID:       o.participant.UserID,
		State:        o.state,
		MessageCount: o.adapter.Len(),
		Speaking:     o.adapter.Speaking(),
		InterviewID:  o.interviewID,
		UpdatedAt:    o.touched,
	}
}

// Start begins a new voice call. The message log is reset on every start.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	switch o.state {
	case model.StateConnecting, model.StateActive, model.StateProcessing, model.StateDone:
		o.mu.Unlock()
		return ErrBusy
	}
	o.state = model.StateConnecting
	o.interviewID = uuid.NewString()
	o.mu.Unlock()
	o.publish(ctx)

	err := o.adapter.Start(ctx, o.startOptions())
	if err == nil {
		return nil
	}

	o.mu.Lock()
	o.state = model.StateInactive
	o.mu.Unlock()

	if voice.IsConfigurationError(err) {
		o.logger.Error("voice assistant is not configured", zap.Error(err))
		o.deps.Notifier.Toast(o.id, ToastError, MsgAssistantMissing)
	} else {
		o.logger.Error("failed to start voice session", zap.Error(err))
		o.deps.Notifier.Toast(o.id, ToastError, MsgStartFailed)
	}
	o.publish(ctx)
	return err
}

func (o *Orchestrator) startOptions() voice.StartOptions {
	p := o.participant
	return voice.StartOptions{
		VariableValues: map[string]string{
			"userId":          p.UserID,
			"userName":        p.UserName,
			"user_jobTitle":   p.JobTitle,
			"user_department": p.Department,
			"user_seniority":  p.Seniority,
			"user_location":   p.Location,
		},
		MaxDurationSeconds: o.deps.MaxDurationSeconds,
	}
}

// HandleEvent applies one voice SDK event
func (o *Orchestrator) HandleEvent(ctx context.Context, ev voice.Event) {
	sig := o.adapter.Handle(ctx, ev)

	o.mu.Lock()
	run := false
	switch sig {
	case voice.SignalStarted:
		if o.state == model.StateConnecting {
			o.state = model.StateActive
		}
	case voice.SignalEnded:
		switch o.state {
		case model.StateConnecting:
			// the call failed before it was answered
			o.state = model.StateInactive
		case model.StateActive:
			o.state = model.StateFinished
		}
		run = o.beginProcessingLocked()
	case voice.SignalFailed:
		if o.state != model.StateProcessing && o.state != model.StateDone {
			o.state = model.StateInactive
		}
	}
	o.mu.Unlock()

	o.publish(ctx)
	if run {
		o.spawnProcessing(ctx)
	}
}

// Disconnect is the user's hang-up action
func (o *Orchestrator) Disconnect(ctx context.Context) error {
	if err := o.adapter.Stop(ctx); err != nil {
		o.logger.Warn("failed to stop voice session", zap.Error(err))
	}

	o.mu.Lock()
	run := false
	switch o.state {
	case model.StateConnecting:
		o.state = model.StateInactive
	case model.StateActive:
		o.state = model.StateFinished
		run = o.beginProcessingLocked()
	}
	o.mu.Unlock()

	o.publish(ctx)
	if run {
		o.spawnProcessing(ctx)
	}
	return nil
}

// beginProcessingLocked moves FINISHED to PROCESSING when the transcript is
// long enough. The guard is set before any I/O.
func (o *Orchestrator) beginProcessingLocked() bool {
	if o.state != model.StateFinished || o.processing {
		return false
	}
	if n := model.CountSubstantive(o.adapter.Messages()); n < o.deps.Processor.MinSubstantive() {
		o.logger.Info("session too short to process",
			zap.Int("substantive", n),
			zap.Int("required", o.deps.Processor.MinSubstantive()))
		o.deps.Notifier.Toast(o.id, ToastInfo, MsgTooShort)
		return false
	}
	o.processing = true
	o.state = model.StateProcessing
	return true
}

func (o *Orchestrator) spawnProcessing(ctx context.Context) {
	// processing outlives the request or socket that ended the call
	detached := context.WithoutCancel(ctx)

	o.mu.Lock()
	messages := o.adapter.Messages()
	sub := audit.Submission{
		InterviewID:        o.interviewID,
		Participant:        o.participant,
		Messages:           messages,
		CompletionObserved: audit.CompletionObserved(messages),
	}
	o.mu.Unlock()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.process(detached, sub)
	}()
}

func (o *Orchestrator) process(ctx context.Context, sub audit.Submission) {
	proceed := true
	if o.deps.Lock != nil {
		ok, err := o.deps.Lock.AcquireProcessing(ctx, o.id)
		switch {
		case err != nil:
			o.logger.Warn("processing lock unavailable, continuing", zap.Error(err))
		case !ok:
			o.logger.Warn("session already processed elsewhere")
			proceed = false
		}
	}

	if proceed {
		o.deps.Notifier.Toast(o.id, ToastInfo, MsgProcessing)
		if _, err := o.deps.Processor.Run(ctx, sub); err != nil {
			o.logger.Error("error processing interview", zap.Error(err))
			o.deps.Notifier.Toast(o.id, ToastError, MsgProcessFailed)
		} else {
			o.deps.Notifier.Toast(o.id, ToastSuccess, MsgProcessed)
		}
	}

	o.mu.Lock()
	o.state = model.StateDone
	o.mu.Unlock()

	o.publish(ctx)
	o.deps.Notifier.Redirect(o.id, RedirectHome)
	if o.onDone != nil {
		o.onDone(o.id)
	}
}

// Wait blocks until background processing, if any, has finished
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// idle reports when the session last changed and whether it may be dropped.
// Calls in progress and running processing are never dropped.
func (o *Orchestrator) idle() (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.state {
	case model.StateInactive, model.StateFinished, model.StateDone:
		return o.touched, true
	}
	return o.touched, false
}

func (o *Orchestrator) publish(ctx context.Context) {
	o.mu.Lock()
	o.touched = time.Now().UTC()
	status := o.statusLocked()
	o.mu.Unlock()

	o.deps.Notifier.State(status)
	if o.deps.Statuses != nil {
		if err := o.deps.Statuses.Set(ctx, &status); err != nil {
			o.logger.Warn("failed to cache session status", zap.Error(err))
		}
	}
}
