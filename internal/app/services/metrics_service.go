package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
)

// MetricsService computes the admin dashboard metrics on demand
type MetricsService interface {
	GetAdminMetrics(ctx context.Context) (*dto.AdminMetrics, error)
}

type metricsServiceImpl struct {
	metricsRepo repositories.IMetricsRepository

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMetricsService creates a metrics service. A nil rng is replaced by a
// time-seeded generator.
func NewMetricsService(metricsRepo repositories.IMetricsRepository, rng *rand.Rand) MetricsService {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &metricsServiceImpl{metricsRepo: metricsRepo, rng: rng}
}

func (s *metricsServiceImpl) GetAdminMetrics(ctx context.Context) (*dto.AdminMetrics, error) {
	snapshot, err := s.metricsRepo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading metrics snapshot: %w", err)
	}

	// *rand.Rand is not safe for concurrent use.
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeMetrics(snapshot, s.rng), nil
}
