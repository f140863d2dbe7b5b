package service

import (
	"context"
	"time"

	"singularshift/internal/cache"
	"singularshift/internal/events"
)

const recordTimeout = 5 * time.Second

// LeaderboardRecorder ranks each finalized interview as its audit event is
// published. It sits next to the NATS client in an events.Multi.
type LeaderboardRecorder struct {
	lb cache.LeaderboardCache
}

func NewLeaderboardRecorder(lb cache.LeaderboardCache) *LeaderboardRecorder {
	return &LeaderboardRecorder{lb: lb}
}

func (r *LeaderboardRecorder) Publish(subject string, data any) error {
	if subject != events.SubjectAuditStored {
		return nil
	}
	ev, ok := data.(events.AuditStored)
	if !ok || !ev.Finalized || ev.ID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	return r.lb.Record(ctx, ev.RoleCategory, ev.ID, ev.ReadinessScore)
}
