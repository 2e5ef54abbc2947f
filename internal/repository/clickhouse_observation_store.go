package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"CardScout/internal/domain/models"
	pkgch "CardScout/pkg/clickhouse"
	applogger "CardScout/pkg/logger"
)

const observationsTable = "listing_observations"

// ObservationSchema creates the observation table. ReplacingMergeTree
// collapses repeat sightings of a listing on the same day.
var ObservationSchema = []string{
	`CREATE TABLE IF NOT EXISTS ` + observationsTable + ` (
		observed_at DateTime64(3, 'UTC'),
		day Date MATERIALIZED toDate(observed_at),
		marketplace LowCardinality(String),
		listing_id String,
		query String,
		player String,
		year UInt16,
		brand LowCardinality(String),
		sport LowCardinality(String),
		price Float64,
		sold UInt8,
		deal_score Float64
	) ENGINE = ReplacingMergeTree(observed_at)
	PARTITION BY toYYYYMM(observed_at)
	ORDER BY (query, marketplace, listing_id, sold, day)
	TTL toDateTime(observed_at) + INTERVAL 2 YEAR`,
}

// CHObservationStore stores listing prices in ClickHouse.
type CHObservationStore struct {
	db  *sql.DB
	l   *applogger.Logger
	now func() time.Time
}

func NewCHObservationStore(ch *pkgch.Client, l *applogger.Logger) *CHObservationStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHObservationStore{db: ch.DB(), l: l, now: time.Now}
}

func (s *CHObservationStore) StoreBatch(ctx context.Context, obs []models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(obs); start += chunkSize {
		end := start + chunkSize
		if end > len(obs) {
			end = len(obs)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*11)
		for _, o := range obs[start:end] {
			if o.Price <= 0 {
				continue
			}
			var sold uint8
			if o.Sold {
				sold = 1
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, o.ObservedAt.UTC(), string(o.Marketplace), o.ListingID, o.Query, o.Player,
				uint16(o.Year), o.Brand, string(o.Sport), o.Price, sold, o.DealScore)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(`INSERT INTO %s (observed_at, marketplace, listing_id, query, player, year, brand, sport, price, sold, deal_score) VALUES %s`,
			observationsTable, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.l.Error("clickhouse store observations failed", applogger.Int("rows", len(values)), applogger.Error(err))
			return fmt.Errorf("store observations: %w", err)
		}
	}
	return nil
}

// Summary aggregates in one query; the trend compares the two halves of [since, now].
func (s *CHObservationStore) Summary(ctx context.Context, query string, since time.Time) (models.MarketStats, error) {
	now := s.now().UTC()
	mid := since.Add(now.Sub(since) / 2).UTC()
	const q = `
		SELECT
			count() AS volume,
			avg(price),
			quantileExact(0.5)(price),
			min(price),
			max(price),
			avgIf(price, observed_at < ?),
			avgIf(price, observed_at >= ?)
		FROM ` + observationsTable + ` FINAL
		WHERE (lower(query) = lower(?) OR lower(player) = lower(?)) AND observed_at >= ? AND price > 0
	`
	var (
		volume              uint64
		avgP, med, lo, hi   float64
		olderAvg, recentAvg float64
	)
	row := s.db.QueryRowContext(ctx, q, mid, mid, query, query, since.UTC())
	if err := row.Scan(&volume, &avgP, &med, &lo, &hi, &olderAvg, &recentAvg); err != nil {
		s.l.Error("clickhouse market summary failed", applogger.String("query", query), applogger.Error(err))
		return models.MarketStats{}, fmt.Errorf("market summary: %w", err)
	}

	stats := models.MarketStats{Query: query, Trend: models.TrendStable, LastUpdated: now}
	if volume == 0 {
		return stats, nil
	}
	stats.Volume = int(volume)
	stats.AveragePrice = avgP
	stats.MedianPrice = med
	stats.LowestPrice = lo
	stats.HighestPrice = hi
	stats.Trend, stats.ChangePct = trendOf(nanToZero(olderAvg), nanToZero(recentAvg))
	return stats, nil
}

func (s *CHObservationStore) Close() error { return nil }

// avgIf over no rows yields nan
func nanToZero(v float64) float64 {
	if v != v {
		return 0
	}
	return v
}
