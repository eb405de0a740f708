package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Option configures optional collaborators shared by the services.
type Option func(*options)

type options struct {
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) clock() time.Time {
	return o.now().UTC()
}

var tracer = otel.Tracer("gym-backend/services")

func endSpan(span trace.Span, err error) {
	if err != nil && apperr.KindOf(err) == apperr.KindInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// storeErr maps persistence errors onto the application taxonomy. Errors that
// already carry a kind pass through.
func storeErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(entity)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict(entity + " already exists")
	case errors.Is(err, store.ErrVersionConflict):
		return apperr.Conflict(entity + " was modified concurrently, retry")
	default:
		return apperr.Internal("failed to persist "+entity, err)
	}
}
