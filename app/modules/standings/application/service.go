package standingsservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	standingsdomain "github.com/Black-And-White-Club/league-standings/app/modules/standings/domain"
)

const tracerName = "github.com/Black-And-White-Club/league-standings/standings"

var (
	// ErrGroupNotFound is returned when a match log has no group of the requested name.
	ErrGroupNotFound = errors.New("group not found in match log")
	// ErrNilGroup is returned when Prepare is called without team data.
	ErrNilGroup = errors.New("group data is nil")
)

// Service prepares ranking tables from parsed match logs.
type Service interface {
	Prepare(ctx context.Context, in PrepareInput) (*PreparedGroup, error)
	PrepareAll(ctx context.Context, teams *standingsdomain.TeamMap, in PrepareAllInput) ([]*PreparedGroup, error)
	Lines(ctx context.Context, p *PreparedGroup) ([]ThresholdLine, error)
}

// StandingsService implements the Service interface.
type StandingsService struct {
	logger  *slog.Logger
	metrics Metrics
	tracer  trace.Tracer
	sorter  *standingsdomain.Sorter
}

// NewStandingsService creates a StandingsService. Nil dependencies fall back to
// slog.Default, NoOpMetrics and the global tracer provider.
func NewStandingsService(logger *slog.Logger, metrics Metrics, tracer trace.Tracer) *StandingsService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &StandingsService{
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		sorter:  standingsdomain.NewSorter(logger),
	}
}

// operationFunc is the signature of a wrapped service operation.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *StandingsService,
	ctx context.Context,
	operationName string,
	group string,
	op operationFunc[T],
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("group", group),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, group)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.DebugContext(ctx, operationName+" triggered",
		"operation", operationName,
		"group", group,
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				"operation", operationName,
				"group", group,
				"error", err,
			)
			s.metrics.RecordOperationFailure(ctx, operationName, group)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			"operation", operationName,
			"group", group,
			"error", wrappedErr,
		)
		s.metrics.RecordOperationFailure(ctx, operationName, group)
		span.RecordError(wrappedErr)
		span.SetStatus(codes.Error, wrappedErr.Error())
		return result, wrappedErr
	}

	s.logger.DebugContext(ctx, operationName+" completed successfully",
		"operation", operationName,
		"group", group,
	)
	s.metrics.RecordOperationSuccess(ctx, operationName, group)
	return result, nil
}
