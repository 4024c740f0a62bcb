package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"projectchart-service/internal/domain"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// HistoryRepo keeps project history in a single SQLite file. Datetimes are
// stored as unix milliseconds.
type HistoryRepo struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// Open opens (or creates) the database at path and creates the schema.
func Open(path string, log *zap.Logger) (*HistoryRepo, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	r := &HistoryRepo{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("sqlite.opened", zap.String("path", path))
	return r, nil
}

func (r *HistoryRepo) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS project_history (
			ticker      TEXT    NOT NULL,
			time_range  TEXT    NOT NULL,
			datetime    INTEGER NOT NULL,
			price_usd   REAL,
			price_btc   REAL,
			volume      REAL,
			marketcap   REAL,
			synced_at   INTEGER NOT NULL,
			PRIMARY KEY (ticker, time_range, datetime)
		)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *HistoryRepo) Close() error { return r.db.Close() }

func (r *HistoryRepo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *HistoryRepo) List(ctx context.Context, ticker domain.Ticker, tr domain.TimeRange, from, to time.Time) ([]domain.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT datetime, price_usd, price_btc, volume, marketcap
		  FROM project_history
		 WHERE ticker = ? AND time_range = ? AND datetime >= ? AND datetime <= ?
		 ORDER BY datetime`,
		string(ticker), string(tr), from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HistoryRecord
	for rows.Next() {
		var (
			ms                                    int64
			priceUSD, priceBTC, volume, marketcap sql.NullFloat64
		)
		if err := rows.Scan(&ms, &priceUSD, &priceBTC, &volume, &marketcap); err != nil {
			return nil, err
		}
		out = append(out, domain.HistoryRecord{
			Datetime:  time.UnixMilli(ms).UTC(),
			PriceUSD:  fromNull(priceUSD),
			PriceBTC:  fromNull(priceBTC),
			Volume:    fromNull(volume),
			Marketcap: fromNull(marketcap),
		})
	}
	return out, rows.Err()
}

// Replace swaps the stored set of (ticker, tr) for recs in one transaction.
func (r *HistoryRepo) Replace(ctx context.Context, ticker domain.Ticker, tr domain.TimeRange, recs []domain.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_history WHERE ticker = ? AND time_range = ?`, string(ticker), string(tr)); err != nil {
		r.log.Error("sql.exec_failed", zap.String("op", "history.delete"), zap.Error(err))
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO project_history
			(ticker, time_range, datetime, price_usd, price_btc, volume, marketcap, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, rec := range recs {
		_, err := stmt.ExecContext(ctx, string(ticker), string(tr), rec.Datetime.UnixMilli(),
			toNull(rec.PriceUSD), toNull(rec.PriceBTC), toNull(rec.Volume), toNull(rec.Marketcap), now)
		if err != nil {
			r.log.Error("sql.exec_failed", zap.String("op", "history.insert"), zap.Error(err))
			return err
		}
	}
	return tx.Commit()
}

func fromNull(n sql.NullFloat64) domain.Num {
	if !n.Valid {
		return domain.None()
	}
	return domain.Some(n.Float64)
}

func toNull(n domain.Num) sql.NullFloat64 {
	return sql.NullFloat64{Float64: n.Value, Valid: n.Valid}
}
