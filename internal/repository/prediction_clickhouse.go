package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ShelfPulse/internal/domain/models"
	domrepo "ShelfPulse/internal/domain/repository"
	applogger "ShelfPulse/pkg/logger"
)

// CHPredictionStore implements PredictionStore backed by ClickHouse.
type CHPredictionStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHPredictionStore(db *sql.DB, table string) *CHPredictionStore {
	return &CHPredictionStore{db: db, table: table}
}

// SetLogger injects a structured logger.
func (s *CHPredictionStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHPredictionStore) Init(ctx context.Context) error {
	q := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id              String,
            product_id      String,
            type            String,
            current_value   Float64,
            predicted_value Float64,
            confidence      Float64,
            timeframe       String,
            algorithm       String,
            created_at      DateTime
        ) ENGINE = MergeTree()
        PARTITION BY toYYYYMM(created_at)
        ORDER BY (product_id, created_at)
    `, s.table)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init prediction schema: %w", err)
	}
	return nil
}

func (s *CHPredictionStore) SavePrediction(ctx context.Context, rec *models.PredictionRecord) (*models.PredictionRecord, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("%s-%s-%d", rec.ProductID, rec.Type, rec.CreatedAt.UnixNano())
	}

	q := fmt.Sprintf("INSERT INTO %s (id, product_id, type, current_value, predicted_value, confidence, timeframe, algorithm, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		rec.ID,
		rec.ProductID,
		rec.Type,
		rec.CurrentValue,
		rec.PredictedValue,
		rec.Confidence,
		rec.Timeframe,
		rec.Algorithm,
		rec.CreatedAt,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_prediction error",
				applogger.String("product_id", rec.ProductID),
				applogger.String("type", rec.Type),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("save prediction: %w", err)
	}
	return rec, nil
}

func (s *CHPredictionStore) PredictionHistory(ctx context.Context, productID string, limit int) ([]models.PredictionRecord, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT id, product_id, type, current_value, predicted_value, confidence, timeframe, algorithm, created_at
        FROM %s
        WHERE product_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, productID, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse prediction_history query error",
				applogger.String("product_id", productID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("prediction history: %w", err)
	}
	defer rows.Close()

	out := make([]models.PredictionRecord, 0, limit)
	for rows.Next() {
		var r models.PredictionRecord
		if err := rows.Scan(&r.ID, &r.ProductID, &r.Type, &r.CurrentValue, &r.PredictedValue, &r.Confidence, &r.Timeframe, &r.Algorithm, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse prediction_history ok",
			applogger.String("product_id", productID),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// CHProductCatalog implements ProductCatalog backed by ClickHouse.
type CHProductCatalog struct {
	db    *sql.DB
	table string
}

func NewCHProductCatalog(db *sql.DB, table string) *CHProductCatalog {
	return &CHProductCatalog{db: db, table: table}
}

func (c *CHProductCatalog) Init(ctx context.Context) error {
	q := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id          String,
            name        String,
            category    String,
            store_id    String,
            price       Float64,
            cost        Nullable(Float64),
            stock_level Int32,
            expiry_date Nullable(DateTime)
        ) ENGINE = ReplacingMergeTree()
        ORDER BY id
    `, c.table)
	if _, err := c.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init product schema: %w", err)
	}
	return nil
}

const productColumns = "id, name, category, store_id, price, cost, stock_level, expiry_date"

func (c *CHProductCatalog) ListProducts(ctx context.Context, storeID string) ([]models.Product, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL", productColumns, c.table)
	args := []interface{}{}
	if storeID != "" {
		q += " WHERE store_id = ?"
		args = append(args, storeID)
	}
	q += " ORDER BY id"

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (c *CHProductCatalog) SimilarProducts(ctx context.Context, category string, excludeID string, limit int) ([]models.Product, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE category = ? AND id != ? LIMIT ?", productColumns, c.table)
	rows, err := c.db.QueryContext(ctx, q, category, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("similar products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	var out []models.Product
	for rows.Next() {
		var (
			p      models.Product
			cost   sql.NullFloat64
			expiry sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.StoreID, &p.Price, &cost, &p.StockLevel, &expiry); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if cost.Valid {
			v := cost.Float64
			p.Cost = &v
		}
		if expiry.Valid {
			t := expiry.Time
			p.ExpiryDate = &t
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var (
	_ domrepo.PredictionStore = (*CHPredictionStore)(nil)
	_ domrepo.ProductCatalog  = (*CHProductCatalog)(nil)
)
