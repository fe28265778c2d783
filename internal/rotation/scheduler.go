package rotation

import (
	"context"
	"fmt"
	"time"

	saerrors "github.com/systmms/sarotate/internal/errors"
	"github.com/systmms/sarotate/internal/logging"
	"github.com/systmms/sarotate/internal/notify"
)

// EventNotifier dispatches human-readable rotation events.
type EventNotifier interface {
	Notify(ctx context.Context, severity notify.Severity, message string)
}

// Scheduler is the long-running control loop. It exclusively owns the group
// queues for the lifetime of the process: remotes are processed strictly
// sequentially within a pass, so at most one control command is in flight
// and swap ordering is reproducible.
type Scheduler struct {
	groups   []*Group
	client   ControlClient
	notifier EventNotifier
	metrics  *Metrics
	logger   *logging.Logger
	interval time.Duration
}

// NewScheduler creates the swap loop over recovered groups.
func NewScheduler(groups []*Group, client ControlClient, notifier EventNotifier, metrics *Metrics, logger *logging.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		groups:   groups,
		client:   client,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
	}
}

// Run executes rotation passes until ctx is cancelled. Cancellation is
// observed before each group and during the inter-pass sleep, never
// mid-command, and is a normal exit, not an error.
//
// A non-nil return means the loop can no longer be trusted to run
// unattended (the control endpoint's output contract changed); the caller
// is expected to notify and shut down. The loop never restarts itself.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Rotation loop started: %d group(s), %s between passes", len(s.groups), s.interval)

	for _, group := range s.groups {
		s.metrics.RecordQueueSize(group.Dir, group.Size())
	}

	timer := time.NewTimer(s.interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		for _, group := range s.groups {
			if ctx.Err() != nil {
				s.logger.Info("Rotation loop stopping")
				return nil
			}
			if err := s.processGroup(ctx, group); err != nil {
				return err
			}
		}
		s.metrics.RecordPass()

		s.logger.Debug("Pass complete, sleeping %s", s.interval)
		timer.Reset(s.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			s.logger.Info("Rotation loop stopping")
			return nil
		case <-timer.C:
		}
	}
}

// processGroup swaps every remote bound to the group. A failed swap for one
// remote never blocks its siblings; only a broken result contract aborts.
func (s *Scheduler) processGroup(ctx context.Context, group *Group) error {
	for _, remote := range group.RemoteNames() {
		front := group.Front()
		if front == nil {
			// Queues are never empty after startup validation.
			continue
		}

		s.metrics.RecordSwapAttempt(remote)
		result, err := s.client.Swap(ctx, group.AddressOf(remote), remote, front.FilePath)
		if err != nil {
			if saerrors.KindOf(err) == saerrors.KindResultParseFailed {
				return fmt.Errorf("remote %s: %w", remote, err)
			}
			s.metrics.RecordSwapFailure(remote)
			s.notifier.Notify(ctx, notify.SeverityError,
				fmt.Sprintf("Swap failed for remote %s: %v", remote, err))
			continue
		}

		group.Advance()

		previous := result.Previous
		if previous == "" {
			previous = "none"
		}
		s.notifier.Notify(ctx, notify.SeverityInfo,
			fmt.Sprintf("Rotated remote %s: now using %s (previously %s), next rotation in %s",
				remote, result.Current, previous, s.interval))
	}
	return nil
}
