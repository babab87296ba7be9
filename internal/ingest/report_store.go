package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/survey-analytics/internal/config"
)

// ReportStore keeps the most recent load report in Redis. A nil client
// turns every call into a no-op.
type ReportStore struct {
	rdb *redis.Client
}

func NewReportStore(rdb *redis.Client) *ReportStore {
	return &ReportStore{rdb: rdb}
}

// Save overwrites the stored report.
func (s *ReportStore) Save(ctx context.Context, r *Report) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.LastImportReportKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	return nil
}

// Last returns the stored report, or nil when none exists.
func (s *ReportStore) Last(ctx context.Context) (*Report, error) {
	if s == nil || s.rdb == nil {
		return nil, nil
	}
	data, err := s.rdb.Get(ctx, config.CacheKey.LastImportReportKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &r, nil
}
