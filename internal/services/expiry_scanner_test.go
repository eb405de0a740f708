package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store/memstore"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages map[uuid.UUID]string
	failFor  map[uuid.UUID]bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{messages: map[uuid.UUID]string{}, failFor: map[uuid.UUID]bool{}}
}

func (n *recordingNotifier) Notify(_ context.Context, memberID uuid.UUID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[memberID] {
		return errors.New("gateway unavailable")
	}
	n.messages[memberID] = message
	return nil
}

type scannerFixture struct {
	store    store.Store
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	scanner  *ExpiryScanner
}

func newScannerFixture(t *testing.T, st store.Store) *scannerFixture {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, time.June, 10, 0, 0, 30, 0, time.UTC)}
	n := newRecordingNotifier()
	m := metrics.New(prometheus.NewRegistry())
	return &scannerFixture{
		store:    st,
		notifier: n,
		metrics:  m,
		scanner: NewExpiryScanner(st, n, time.UTC,
			WithClock(clock.Now),
			WithMetrics(m),
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		),
	}
}

func (f *scannerFixture) seed(t *testing.T, name string, end time.Time, status models.MembershipStatus) *models.Member {
	t.Helper()
	ctx := context.Background()
	member := &models.Member{FirstName: name, LastName: "Test", Gender: "other", Age: 30,
		Email: name + "@example.com", Mobile: name}
	require.NoError(t, f.store.Members().Create(ctx, member))
	ms := &models.Membership{MemberID: member.ID, PlanID: uuid.New(), StartDate: end.AddDate(0, -1, 0), EndDate: end, Status: status}
	require.NoError(t, f.store.Memberships().Create(ctx, ms))
	member.MembershipID = &ms.ID
	require.NoError(t, f.store.Members().Update(ctx, member))
	return member
}

func TestScanMatchesExactDay(t *testing.T) {
	f := newScannerFixture(t, memstore.New())
	morning := f.seed(t, "morning", time.Date(2024, time.June, 15, 6, 0, 0, 0, time.UTC), models.MembershipActive)
	night := f.seed(t, "night", time.Date(2024, time.June, 15, 23, 59, 0, 0, time.UTC), models.MembershipActive)
	f.seed(t, "early", time.Date(2024, time.June, 14, 23, 59, 0, 0, time.UTC), models.MembershipActive)
	f.seed(t, "late", time.Date(2024, time.June, 16, 0, 0, 0, 0, time.UTC), models.MembershipActive)
	f.seed(t, "retired", time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC), models.MembershipInactive)

	due, err := f.scanner.Scan(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, due, 2)
	ids := []uuid.UUID{due[0].MemberID, due[1].MemberID}
	assert.ElementsMatch(t, []uuid.UUID{morning.ID, night.ID}, ids)
}

func TestScanRejectsNegativeHorizon(t *testing.T) {
	f := newScannerFixture(t, memstore.New())
	_, err := f.scanner.Scan(context.Background(), -1)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestScanIsReadOnly(t *testing.T) {
	ctx := context.Background()
	f := newScannerFixture(t, memstore.New())
	member := f.seed(t, "steady", time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC), models.MembershipActive)

	f.scanner.Run(ctx, 5)

	ms, err := f.store.Memberships().Get(ctx, *member.MembershipID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, ms.Status)
	assert.Equal(t, 1, ms.Version)
}

func TestRunNotifiesAndSwallowsFailures(t *testing.T) {
	f := newScannerFixture(t, memstore.New())
	ok := f.seed(t, "ok", time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC), models.MembershipActive)
	broken := f.seed(t, "broken", time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC), models.MembershipActive)
	f.notifier.failFor[broken.ID] = true

	assert.NotPanics(t, func() { f.scanner.Run(context.Background(), 5) })

	assert.Equal(t, "Dear ok, your gym membership expires on 15 Jun 2024. Please renew to keep training with us.",
		f.notifier.messages[ok.ID])
	assert.NotContains(t, f.notifier.messages, broken.ID)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.ExpiringMemberships))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Notifications.WithLabelValues(metrics.ResultSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Notifications.WithLabelValues(metrics.ResultFailed)))
}

func TestRunLogsScanFailure(t *testing.T) {
	f := newScannerFixture(t, &faultyStore{Store: memstore.New(), failListEnding: true})

	assert.NotPanics(t, func() { f.scanner.Run(context.Background(), 5) })
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ExpiryScanFailures))
	assert.Empty(t, f.notifier.messages)
}
