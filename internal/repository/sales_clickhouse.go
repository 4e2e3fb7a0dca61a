package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ShelfPulse/internal/domain/models"
	"ShelfPulse/internal/domain/repository"
	pkgkafka "ShelfPulse/pkg/kafka"
)

// ClickHouseSalesStore implements SalesStore for ClickHouse.
type ClickHouseSalesStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSalesStore creates ClickHouse sales storage.
func NewClickHouseSalesStore(db *sql.DB, table string) repository.SalesStore {
	return &ClickHouseSalesStore{db: db, table: table}
}

func (s *ClickHouseSalesStore) Init(ctx context.Context) error {
	q := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            date        DateTime,
            product_id  String,
            store_id    String,
            quantity    Int32,
            unit_price  Float64,
            revenue     Float64
        ) ENGINE = MergeTree()
        PARTITION BY toYYYYMM(date)
        ORDER BY (product_id, date)
    `, s.table)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init sales schema: %w", err)
	}
	return nil
}

func (s *ClickHouseSalesStore) Store(ctx context.Context, r *models.SalesRecord) error {
	q := fmt.Sprintf("INSERT INTO %s (date, product_id, store_id, quantity, unit_price, revenue) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		r.Date,
		r.ProductID,
		r.StoreID,
		r.Quantity,
		r.UnitPrice,
		r.Revenue,
	)
	return err
}

func (s *ClickHouseSalesStore) StoreBatch(ctx context.Context, records []*models.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}
	// Multi-row VALUES to reduce round-trips; 2000 rows per chunk.
	const chunkSize = 2000
	for start := 0; start < len(records); start += chunkSize {
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, r := range records[start:end] {
			if r == nil || r.ProductID == "" || r.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args, r.Date, r.ProductID, r.StoreID, r.Quantity, r.UnitPrice, r.Revenue)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (date, product_id, store_id, quantity, unit_price, revenue) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseSalesStore) GetSalesHistory(ctx context.Context, productID string, daysBack int) ([]models.SalesRecord, error) {
	since := time.Now().UTC().AddDate(0, 0, -daysBack)
	q := fmt.Sprintf("SELECT product_id, store_id, date, quantity, unit_price, revenue FROM %s WHERE product_id = ? AND date >= ? ORDER BY date ASC", s.table)
	rows, err := s.db.QueryContext(ctx, q, productID, since)
	if err != nil {
		return nil, fmt.Errorf("sales history: %w", err)
	}
	defer rows.Close()

	var records []models.SalesRecord
	for rows.Next() {
		var r models.SalesRecord
		if err := rows.Scan(&r.ProductID, &r.StoreID, &r.Date, &r.Quantity, &r.UnitPrice, &r.Revenue); err != nil {
			return nil, fmt.Errorf("scan sales record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *ClickHouseSalesStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSalesStore) Close() error {
	return nil // Managed by pkg
}

// KafkaSalesPublisher implements Publisher for Kafka.
type KafkaSalesPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSalesPublisher creates the Kafka publisher.
func NewKafkaSalesPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaSalesPublisher{producer: producer, topic: topic}
}

func saleValue(e *models.SaleEvent) map[string]interface{} {
	return map[string]interface{}{
		"productId": e.ProductID,
		"storeId":   e.StoreID,
		"quantity":  e.Quantity,
		"unitPrice": e.UnitPrice,
		"revenue":   e.Revenue,
		"ts":        e.Timestamp,
	}
}

func (p *KafkaSalesPublisher) Publish(ctx context.Context, e *models.SaleEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(e.ProductID), saleValue(e))
}

func (p *KafkaSalesPublisher) PublishBatch(ctx context.Context, events []*models.SaleEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(events))
	for i, e := range events {
		msgs[i] = pkgkafka.Message{Key: []byte(e.ProductID), Value: saleValue(e)}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSalesPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
