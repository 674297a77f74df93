package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Priya-creates/weather-widget-api/internal/services/metrics"
)

const stateRowID = 1

// StateRepository persists the widget's last confirmed city in a
// single-row table. The value column holds the JSON encoding of the
// city string, the same shape browser local storage kept for this
// setting.
type StateRepository struct {
	DB  *sql.DB
	log zerolog.Logger
	m   *metrics.Metrics
}

// NewStateRepository constructs a repository with logger context and metrics collector.
func NewStateRepository(
	db *sql.DB,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *StateRepository {
	logger = logger.With().Str("component", "StateRepository").Logger()
	return &StateRepository{DB: db, log: logger, m: m}
}

// GetLastCity reads the persisted city. A missing row or an
// undecodable value reads as "nothing stored".
func (r *StateRepository) GetLastCity(ctx context.Context) (string, bool, error) {
	start := time.Now()
	r.log.Debug().Ctx(ctx).Msg("reading persisted city")

	var raw string
	err := r.DB.QueryRowContext(ctx,
		`SELECT value FROM widget_state WHERE id = ?`, stateRowID,
	).Scan(&raw)
	dur := time.Since(start)
	if errors.Is(err, sql.ErrNoRows) {
		r.log.Info().Ctx(ctx).Dur("duration", dur).Msg("no persisted city")
		return "", false, nil
	}
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Msg("failed to query persisted city")
		r.m.TechnicalErrors.WithLabelValues("db_query_error", "critical").Inc()
		return "", false, err
	}

	var city string
	if err := json.Unmarshal([]byte(raw), &city); err != nil {
		r.log.Warn().Err(err).Ctx(ctx).
			Str("value", raw).
			Msg("persisted city is not valid JSON, treating as absent")
		r.m.TechnicalErrors.WithLabelValues("state_decode_error", "warning").Inc()
		return "", false, nil
	}

	r.log.Info().Ctx(ctx).
		Str("city", city).
		Dur("duration", dur).
		Msg("read persisted city")
	return city, true, nil
}

// SaveLastCity stores the city, replacing any previous value.
func (r *StateRepository) SaveLastCity(ctx context.Context, city string) error {
	start := time.Now()
	r.log.Debug().Ctx(ctx).Str("city", city).Msg("persisting city")

	value, err := json.Marshal(city)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Msg("failed to encode city")
		r.m.TechnicalErrors.WithLabelValues("state_encode_error", "critical").Inc()
		return err
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO widget_state (id, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		stateRowID, string(value), time.Now(),
	)
	dur := time.Since(start)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Str("city", city).
			Msg("failed to persist city")
		r.m.TechnicalErrors.WithLabelValues("db_upsert_error", "critical").Inc()
		return err
	}

	r.log.Info().Ctx(ctx).
		Str("city", city).
		Dur("duration", dur).
		Msg("persisted city")
	return nil
}
