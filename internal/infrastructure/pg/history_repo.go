package pg

import (
	"context"
	"time"

	"projectchart-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type HistoryRepo struct {
	db  *DB
	log *zap.Logger
}

func NewHistoryRepo(db *DB, log *zap.Logger) *HistoryRepo {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryRepo{db: db, log: log}
}

func (r *HistoryRepo) q(ctx context.Context) querier {
	if tx := txFromCtx(ctx); tx != nil {
		return tx
	}
	return r.db.Pool
}

func (r *HistoryRepo) List(ctx context.Context, ticker domain.Ticker, tr domain.TimeRange, from, to time.Time) ([]domain.HistoryRecord, error) {
	const q = `
        SELECT datetime, price_usd, price_btc, volume, marketcap
          FROM project_history
         WHERE ticker=$1 AND time_range=$2 AND datetime >= $3 AND datetime <= $4
         ORDER BY datetime`
	rows, err := r.q(ctx).Query(ctx, q, string(ticker), string(tr), from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HistoryRecord
	for rows.Next() {
		var (
			rec                                   domain.HistoryRecord
			priceUSD, priceBTC, volume, marketcap *float64
		)
		if err := rows.Scan(&rec.Datetime, &priceUSD, &priceBTC, &volume, &marketcap); err != nil {
			return nil, err
		}
		rec.Datetime = rec.Datetime.UTC()
		rec.PriceUSD = domain.NumFromPtr(priceUSD)
		rec.PriceBTC = domain.NumFromPtr(priceBTC)
		rec.Volume = domain.NumFromPtr(volume)
		rec.Marketcap = domain.NumFromPtr(marketcap)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Replace swaps the stored set of (ticker, tr) for recs. Outside a unit of
// work it opens its own transaction.
func (r *HistoryRepo) Replace(ctx context.Context, ticker domain.Ticker, tr domain.TimeRange, recs []domain.HistoryRecord) error {
	if txFromCtx(ctx) == nil {
		return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
			return r.replace(context.WithValue(ctx, txKey{}, tx), ticker, tr, recs)
		})
	}
	return r.replace(ctx, ticker, tr, recs)
}

func (r *HistoryRepo) replace(ctx context.Context, ticker domain.Ticker, tr domain.TimeRange, recs []domain.HistoryRecord) error {
	start := time.Now()
	log := r.log.With(zap.String("ticker", string(ticker)), zap.String("range", string(tr)))
	log.Debug("sql.exec_start", zap.String("op", "history.replace"), zap.Int("records", len(recs)))

	q := r.q(ctx)
	if _, err := q.Exec(ctx, `DELETE FROM project_history WHERE ticker=$1 AND time_range=$2`, string(ticker), string(tr)); err != nil {
		log.Error("sql.exec_failed", zap.String("op", "history.delete"), zap.Error(err))
		return err
	}
	const ins = `
        INSERT INTO project_history(ticker, time_range, datetime, price_usd, price_btc, volume, marketcap)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (ticker, time_range, datetime) DO UPDATE
          SET price_usd=EXCLUDED.price_usd, price_btc=EXCLUDED.price_btc,
              volume=EXCLUDED.volume, marketcap=EXCLUDED.marketcap, synced_at=now()`
	for _, rec := range recs {
		_, err := q.Exec(ctx, ins, string(ticker), string(tr), rec.Datetime.UTC(),
			rec.PriceUSD.Ptr(), rec.PriceBTC.Ptr(), rec.Volume.Ptr(), rec.Marketcap.Ptr())
		if err != nil {
			log.Error("sql.exec_failed", zap.String("op", "history.insert"), zap.Error(err))
			return err
		}
	}
	log.Debug("sql.exec_done", zap.String("op", "history.replace"), zap.Duration("took", time.Since(start)))
	return nil
}
