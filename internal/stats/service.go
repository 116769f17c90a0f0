package stats

import (
	"context"

	"github.com/hugorgg/command-ai-nexus/prometheus"
	"go.uber.org/zap"
)

// Service resolves snapshots through an optional cache and a transport
type Service struct {
	transport Transport
	cache     Cache
	log       *zap.Logger
}

// NewService wires a transport with an optional cache (nil disables caching)
func NewService(transport Transport, cache Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{transport: transport, cache: cache, log: log}
}

// Fetch returns the tenant's snapshot. On failure the snapshot is nil and the
// caller is expected to render Zero.
func (s *Service) Fetch(ctx context.Context, tenantID string) (*Snapshot, error) {
	name := s.transport.Name()

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, tenantID)
		if err != nil {
			s.log.Warn("Stats cache read failed", zap.String("tenant_id", tenantID), zap.Error(err))
		} else if ok {
			prometheus.RecordStatsRPC(name, "cache_hit")
			return cached, nil
		}
	}

	raw, err := s.transport.Fetch(ctx, tenantID)
	if err != nil {
		prometheus.RecordStatsRPC(name, "error")
		s.log.Error("Stats procedure call failed",
			zap.String("tenant_id", tenantID),
			zap.String("transport", name),
			zap.Error(err))
		return nil, err
	}

	snapshot, err := Decode(raw)
	if err != nil {
		prometheus.RecordStatsRPC(name, "error")
		s.log.Error("Stats payload could not be decoded",
			zap.String("tenant_id", tenantID),
			zap.String("transport", name),
			zap.Error(err))
		return nil, err
	}
	prometheus.RecordStatsRPC(name, "ok")

	if s.cache != nil {
		if err := s.cache.Set(ctx, tenantID, snapshot); err != nil {
			s.log.Warn("Stats cache write failed", zap.String("tenant_id", tenantID), zap.Error(err))
		}
	}
	return snapshot, nil
}

// Invalidate drops the cached snapshot after the tenant's data changed
func (s *Service) Invalidate(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tenantID); err != nil {
		s.log.Warn("Stats cache invalidation failed", zap.String("tenant_id", tenantID), zap.Error(err))
	}
}
