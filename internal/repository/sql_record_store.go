package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CardScout/internal/domain/models"
	domrepo "CardScout/internal/domain/repository"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

var recordSchema = []string{
	`CREATE TABLE IF NOT EXISTS portfolio_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		player TEXT NOT NULL,
		year INTEGER NOT NULL,
		card_set TEXT NOT NULL,
		card_number TEXT NOT NULL DEFAULT '',
		grade DOUBLE PRECISION,
		grading_company TEXT NOT NULL DEFAULT '',
		purchase_price DOUBLE PRECISION,
		purchase_date DATE,
		current_value DOUBLE PRECISION,
		quantity INTEGER NOT NULL DEFAULT 1,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_portfolio_user ON portfolio_items (user_id)`,
	`CREATE TABLE IF NOT EXISTS watchlist_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		card_name TEXT NOT NULL,
		card_set TEXT NOT NULL DEFAULT '',
		card_number TEXT NOT NULL DEFAULT '',
		market_price DOUBLE PRECISION,
		image_url TEXT NOT NULL DEFAULT '',
		listing_url TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_watchlist_user ON watchlist_items (user_id)`,
	`CREATE TABLE IF NOT EXISTS price_alerts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		card_name TEXT NOT NULL,
		target_price DOUBLE PRECISION NOT NULL,
		marketplace TEXT NOT NULL DEFAULT 'all',
		alert_type TEXT NOT NULL DEFAULT 'below',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_checked TIMESTAMP,
		last_triggered TIMESTAMP,
		notification_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_user ON price_alerts (user_id)`,
	`CREATE TABLE IF NOT EXISTS saved_searches (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		search_query TEXT NOT NULL,
		filters TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_searches_user ON saved_searches (user_id)`,
}

// SQLRecordStore implements RecordStore on postgres or sqlite through database/sql.
// Queries are written with ? placeholders and rebound for postgres.
type SQLRecordStore struct {
	db     *sql.DB
	driver string
}

// OpenRecordStore opens and pings the database.
func OpenRecordStore(driver, dsn string, maxOpen int, maxLifetime time.Duration) (*SQLRecordStore, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported record store driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one connection keeps :memory: databases shared and avoids SQLITE_BUSY
		maxOpen = 1
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxLifetime > 0 {
		db.SetConnMaxLifetime(maxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping: %w", driver, err)
	}
	return NewSQLRecordStore(db, driver), nil
}

func NewSQLRecordStore(db *sql.DB, driver string) *SQLRecordStore {
	return &SQLRecordStore{db: db, driver: driver}
}

func (s *SQLRecordStore) Init(ctx context.Context) error {
	for _, stmt := range recordSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init record schema: %w", err)
		}
	}
	return nil
}

func (s *SQLRecordStore) Health(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLRecordStore) Close() error { return s.db.Close() }

// rebind turns ? placeholders into $1..$n for postgres.
func (s *SQLRecordStore) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLRecordStore) exec(ctx context.Context, q string, args ...interface{}) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(q), args...)
}

func (s *SQLRecordStore) query(ctx context.Context, q string, args ...interface{}) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(q), args...)
}

// execOne runs a write that must touch exactly one row.
func (s *SQLRecordStore) execOne(ctx context.Context, q string, args ...interface{}) error {
	res, err := s.exec(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domrepo.ErrNotFound
	}
	return nil
}

func (s *SQLRecordStore) ListPortfolio(ctx context.Context, userID string) ([]models.PortfolioItem, error) {
	rows, err := s.query(ctx, `SELECT id, user_id, player, year, card_set, card_number, grade, grading_company,
		purchase_price, purchase_date, current_value, quantity, notes, created_at
		FROM portfolio_items WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list portfolio: %w", err)
	}
	defer rows.Close()

	out := []models.PortfolioItem{}
	for rows.Next() {
		var it models.PortfolioItem
		var grade, price, value sql.NullFloat64
		var bought sql.NullTime
		if err := rows.Scan(&it.ID, &it.UserID, &it.Player, &it.Year, &it.Set, &it.CardNumber, &grade, &it.GradingCompany,
			&price, &bought, &value, &it.Quantity, &it.Notes, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan portfolio item: %w", err)
		}
		it.Grade = floatPtr(grade)
		it.PurchasePrice = floatPtr(price)
		it.CurrentValue = floatPtr(value)
		it.PurchaseDate = timePtr(bought)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *SQLRecordStore) CreatePortfolioItem(ctx context.Context, it *models.PortfolioItem) error {
	_, err := s.exec(ctx, `INSERT INTO portfolio_items (id, user_id, player, year, card_set, card_number, grade,
		grading_company, purchase_price, purchase_date, current_value, quantity, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.UserID, it.Player, it.Year, it.Set, it.CardNumber, nullFloat(it.Grade), it.GradingCompany,
		nullFloat(it.PurchasePrice), nullTime(it.PurchaseDate), nullFloat(it.CurrentValue), it.Quantity, it.Notes, it.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert portfolio item: %w", err)
	}
	return nil
}

func (s *SQLRecordStore) UpdatePortfolioItem(ctx context.Context, it *models.PortfolioItem) error {
	return s.execOne(ctx, `UPDATE portfolio_items SET player = ?, year = ?, card_set = ?, card_number = ?, grade = ?,
		grading_company = ?, purchase_price = ?, purchase_date = ?, current_value = ?, quantity = ?, notes = ?
		WHERE id = ? AND user_id = ?`,
		it.Player, it.Year, it.Set, it.CardNumber, nullFloat(it.Grade), it.GradingCompany, nullFloat(it.PurchasePrice),
		nullTime(it.PurchaseDate), nullFloat(it.CurrentValue), it.Quantity, it.Notes, it.ID, it.UserID)
}

func (s *SQLRecordStore) DeletePortfolioItem(ctx context.Context, userID, id string) error {
	return s.execOne(ctx, `DELETE FROM portfolio_items WHERE id = ? AND user_id = ?`, id, userID)
}

func (s *SQLRecordStore) ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	rows, err := s.query(ctx, `SELECT id, user_id, card_name, card_set, card_number, market_price, image_url,
		listing_url, notes, created_at FROM watchlist_items WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	out := []models.WatchlistItem{}
	for rows.Next() {
		var it models.WatchlistItem
		var price sql.NullFloat64
		if err := rows.Scan(&it.ID, &it.UserID, &it.CardName, &it.CardSet, &it.CardNumber, &price, &it.ImageURL,
			&it.ListingURL, &it.Notes, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist item: %w", err)
		}
		it.MarketPrice = floatPtr(price)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *SQLRecordStore) CreateWatchlistItem(ctx context.Context, it *models.WatchlistItem) error {
	_, err := s.exec(ctx, `INSERT INTO watchlist_items (id, user_id, card_name, card_set, card_number, market_price,
		image_url, listing_url, notes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.UserID, it.CardName, it.CardSet, it.CardNumber, nullFloat(it.MarketPrice), it.ImageURL,
		it.ListingURL, it.Notes, it.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert watchlist item: %w", err)
	}
	return nil
}

func (s *SQLRecordStore) DeleteWatchlistItem(ctx context.Context, userID, id string) error {
	return s.execOne(ctx, `DELETE FROM watchlist_items WHERE id = ? AND user_id = ?`, id, userID)
}

const alertColumns = `id, user_id, card_name, target_price, marketplace, alert_type, is_active,
	last_checked, last_triggered, notification_count, created_at`

func (s *SQLRecordStore) ListAlerts(ctx context.Context, userID string) ([]models.PriceAlert, error) {
	return s.listAlerts(ctx, `SELECT `+alertColumns+` FROM price_alerts WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
}

func (s *SQLRecordStore) ListActiveAlerts(ctx context.Context, userID string) ([]models.PriceAlert, error) {
	return s.listAlerts(ctx, `SELECT `+alertColumns+` FROM price_alerts WHERE user_id = ? AND is_active = ? ORDER BY created_at, id`, userID, true)
}

func (s *SQLRecordStore) listAlerts(ctx context.Context, q string, args ...interface{}) ([]models.PriceAlert, error) {
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	out := []models.PriceAlert{}
	for rows.Next() {
		var a models.PriceAlert
		var checked, triggered sql.NullTime
		var typ string
		if err := rows.Scan(&a.ID, &a.UserID, &a.CardName, &a.TargetPrice, &a.Marketplace, &typ, &a.IsActive,
			&checked, &triggered, &a.NotificationCount, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.AlertType = models.AlertType(typ)
		a.LastChecked = timePtr(checked)
		a.LastTriggered = timePtr(triggered)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLRecordStore) CreateAlert(ctx context.Context, a *models.PriceAlert) error {
	_, err := s.exec(ctx, `INSERT INTO price_alerts (`+alertColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.CardName, a.TargetPrice, a.Marketplace, string(a.AlertType), a.IsActive,
		nullTime(a.LastChecked), nullTime(a.LastTriggered), a.NotificationCount, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (s *SQLRecordStore) SetAlertActive(ctx context.Context, userID, id string, active bool) error {
	return s.execOne(ctx, `UPDATE price_alerts SET is_active = ? WHERE id = ? AND user_id = ?`, active, id, userID)
}

// MarkAlertChecked stamps last_checked; a triggered check also stamps
// last_triggered and bumps notification_count.
func (s *SQLRecordStore) MarkAlertChecked(ctx context.Context, id string, checkedAt time.Time, triggered bool) error {
	if triggered {
		return s.execOne(ctx, `UPDATE price_alerts SET last_checked = ?, last_triggered = ?,
			notification_count = notification_count + 1 WHERE id = ?`, checkedAt, checkedAt, id)
	}
	return s.execOne(ctx, `UPDATE price_alerts SET last_checked = ? WHERE id = ?`, checkedAt, id)
}

func (s *SQLRecordStore) DeleteAlert(ctx context.Context, userID, id string) error {
	return s.execOne(ctx, `DELETE FROM price_alerts WHERE id = ? AND user_id = ?`, id, userID)
}

func (s *SQLRecordStore) ListSavedSearches(ctx context.Context, userID string) ([]models.SavedSearch, error) {
	rows, err := s.query(ctx, `SELECT id, user_id, search_query, filters, created_at
		FROM saved_searches WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}
	defer rows.Close()

	out := []models.SavedSearch{}
	for rows.Next() {
		var ss models.SavedSearch
		if err := rows.Scan(&ss.ID, &ss.UserID, &ss.SearchQuery, &ss.Filters, &ss.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved search: %w", err)
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}

func (s *SQLRecordStore) CreateSavedSearch(ctx context.Context, ss *models.SavedSearch) error {
	_, err := s.exec(ctx, `INSERT INTO saved_searches (id, user_id, search_query, filters, created_at) VALUES (?, ?, ?, ?, ?)`,
		ss.ID, ss.UserID, ss.SearchQuery, ss.Filters, ss.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert saved search: %w", err)
	}
	return nil
}

func (s *SQLRecordStore) DeleteSavedSearch(ctx context.Context, userID, id string) error {
	return s.execOne(ctx, `DELETE FROM saved_searches WHERE id = ? AND user_id = ?`, id, userID)
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p, Valid: true}
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	v := n.Time
	return &v
}

var _ domrepo.RecordStore = (*SQLRecordStore)(nil)
