package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/recmetrics/recmetrics/internal/infrastructure/clients/redis"
	apperrors "github.com/recmetrics/recmetrics/pkg/errors"
)

// EvalReport is one finished evaluation run: the metric values keyed by
// the configured metric names, plus enough context to tell runs apart.
type EvalReport struct {
	RunID       uuid.UUID          `json:"run_id"`
	Dataset     string             `json:"dataset"`
	CatalogSize int                `json:"catalog_size,omitempty"`
	Results     map[string]float64 `json:"results"`
	ComputedAt  time.Time          `json:"computed_at"`
}

// NewEvalReport builds a report with a fresh run id.
func NewEvalReport(dataset string, catalogSize int, results map[string]float64) *EvalReport {
	return &EvalReport{
		RunID:       uuid.New(),
		Dataset:     dataset,
		CatalogSize: catalogSize,
		Results:     results,
		ComputedAt:  time.Now().UTC(),
	}
}

// MarshalJSON encodes undefined (NaN) metric values as null, which
// encoding/json would otherwise reject.
func (r *EvalReport) MarshalJSON() ([]byte, error) {
	results := make(map[string]*float64, len(r.Results))
	for name, v := range r.Results {
		if math.IsNaN(v) {
			results[name] = nil
			continue
		}
		value := v
		results[name] = &value
	}

	type alias EvalReport
	return json.Marshal(struct {
		*alias
		Results map[string]*float64 `json:"results"`
	}{(*alias)(r), results})
}

// UnmarshalJSON restores null metric values as NaN.
func (r *EvalReport) UnmarshalJSON(data []byte) error {
	type alias EvalReport
	aux := struct {
		*alias
		Results map[string]*float64 `json:"results"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Results = make(map[string]float64, len(aux.Results))
	for name, v := range aux.Results {
		if v == nil {
			r.Results[name] = math.NaN()
			continue
		}
		r.Results[name] = *v
	}
	return nil
}

// Store persists evaluation reports in Redis as JSON documents.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a report store. A zero ttl keeps reports forever.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func reportKey(runID uuid.UUID) string {
	return fmt.Sprintf("evalreport:%s", runID)
}

// Save writes a report under its run id.
func (s *Store) Save(ctx context.Context, report *EvalReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal evaluation report", err)
	}

	if err := s.client.Client().Set(ctx, reportKey(report.RunID), payload, s.ttl).Err(); err != nil {
		return apperrors.NewExternalError("failed to store evaluation report", err)
	}
	return nil
}

// Get loads a report by run id.
func (s *Store) Get(ctx context.Context, runID uuid.UUID) (*EvalReport, error) {
	payload, err := s.client.Client().Get(ctx, reportKey(runID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("evaluation report %s not found", runID))
		}
		return nil, apperrors.NewExternalError("failed to load evaluation report", err)
	}

	var report EvalReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal evaluation report", err)
	}
	return &report, nil
}
