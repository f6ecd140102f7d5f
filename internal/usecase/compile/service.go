package compile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/wpquery/internal/logger"
	"github.com/kailas-cloud/wpquery/internal/metrics"
	"github.com/kailas-cloud/wpquery/pkg/query"
)

// Metric status labels.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusState   = "state"
)

// Service turns definitions into parameter documents.
type Service struct {
	defaultLimit int
	maxLimit     int
}

// New creates a Service. maxLimit 0 leaves posts_per_page unbounded.
func New(defaultLimit, maxLimit int) *Service {
	return &Service{defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Compile applies def to a fresh builder and renders it.
// The logger is taken from ctx.
func (s *Service) Compile(ctx context.Context, def Definition) (query.Parameters, error) {
	log := logpkg.FromContext(ctx)
	start := time.Now()

	b := query.NewBuilder(query.WithDefaultLimit(s.defaultLimit))
	if err := def.Apply(b); err != nil {
		s.fail(log, start, err)
		return nil, fmt.Errorf("apply definition: %w", err)
	}

	params := b.GetParameters()
	if limit, _ := params[query.KeyPostsPerPage].(int); s.maxLimit > 0 && (limit == query.NoLimit || limit > s.maxLimit) {
		err := &query.ValidationError{
			Field:  query.KeyPostsPerPage,
			Reason: fmt.Sprintf("%d exceeds the configured maximum %d", limit, s.maxLimit),
		}
		s.fail(log, start, err)
		return nil, err
	}

	duration := time.Since(start)
	conditions := b.ConditionCount()
	metrics.CompileTotal.WithLabelValues(StatusOK).Inc()
	metrics.CompileConditions.Observe(float64(conditions))
	metrics.CompileDuration.Observe(duration.Seconds())

	log.Debug("query compiled",
		zap.Any("post_type", params[query.KeyPostType]),
		zap.Any("posts_per_page", params[query.KeyPostsPerPage]),
		zap.Int("conditions", conditions),
		zap.Duration("duration", duration),
	)
	return params, nil
}

func (s *Service) fail(log *zap.Logger, start time.Time, err error) {
	status := StatusInvalid
	if errors.Is(err, query.ErrState) {
		status = StatusState
	}
	metrics.CompileTotal.WithLabelValues(status).Inc()
	metrics.CompileDuration.Observe(time.Since(start).Seconds())
	log.Warn("query rejected", zap.String("status", status), zap.Error(err))
}
