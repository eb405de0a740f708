package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dates"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"golang.org/x/sync/errgroup"
)

const notifyConcurrency = 4

// ExpiryScanner finds active memberships ending on a given day and reminds
// their members. It never changes membership state.
type ExpiryScanner struct {
	store    store.Store
	notifier notify.Notifier
	loc      *time.Location
	opts     options
}

func NewExpiryScanner(st store.Store, notifier notify.Notifier, loc *time.Location, opts ...Option) *ExpiryScanner {
	if loc == nil {
		loc = time.UTC
	}
	return &ExpiryScanner{store: st, notifier: notifier, loc: loc, opts: buildOptions(opts)}
}

// Scan returns the active memberships whose end date falls on the calendar day
// horizonDays after today.
func (s *ExpiryScanner) Scan(ctx context.Context, horizonDays int) ([]models.Membership, error) {
	if horizonDays < 0 {
		return nil, apperr.InvalidInput("horizon must not be negative")
	}
	from, to := dates.DayWindow(s.opts.now(), horizonDays, s.loc)
	due, err := s.store.Memberships().ListEndingBetween(ctx, models.MembershipActive, from, to)
	if err != nil {
		return nil, apperr.Internal("failed to scan expiring memberships", err)
	}
	return due, nil
}

// Run is the scheduled job: scan, then notify each member. Failures are
// logged and counted, never returned.
func (s *ExpiryScanner) Run(ctx context.Context, horizonDays int) {
	due, err := s.Scan(ctx, horizonDays)
	if err != nil {
		s.opts.metrics.RecordScanFailure()
		s.opts.logger.ErrorContext(ctx, "expiry scan failed", "action", "expiry_scan", "error", err.Error())
		return
	}
	s.opts.metrics.SetExpiring(len(due))

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(notifyConcurrency)
	for _, ms := range due {
		g.Go(func() error {
			if err := s.remind(ctx, ms); err != nil {
				failed.Add(1)
				s.opts.metrics.RecordNotification(metrics.ResultFailed)
				s.opts.logger.ErrorContext(ctx, "expiry notification failed",
					"action", "expiry_notify",
					"member_id", ms.MemberID.String(),
					"membership_id", ms.ID.String(),
					"error", err.Error(),
				)
				return nil
			}
			s.opts.metrics.RecordNotification(metrics.ResultSent)
			return nil
		})
	}
	_ = g.Wait()

	s.opts.logger.InfoContext(ctx, "expiry scan completed",
		"action", "expiry_scan",
		"horizon_days", horizonDays,
		"due", len(due),
		"failed", failed.Load(),
	)
}

func (s *ExpiryScanner) remind(ctx context.Context, ms models.Membership) error {
	member, err := s.store.Members().Get(ctx, ms.MemberID)
	if err != nil {
		return fmt.Errorf("load member: %w", err)
	}
	return s.notifier.Notify(ctx, member.ID, ReminderMessage(member.FirstName, ms.EndDate.In(s.loc)))
}

func ReminderMessage(firstName string, endDate time.Time) string {
	return fmt.Sprintf("Dear %s, your gym membership expires on %s. Please renew to keep training with us.",
		firstName, endDate.Format("2 Jan 2006"))
}
