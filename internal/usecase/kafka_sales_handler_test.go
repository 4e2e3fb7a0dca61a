package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleJSON(ts int64, revenue float64) []byte {
	return []byte(fmt.Sprintf(
		`{"productId":"sku-1","storeId":"store-1","quantity":4,"unitPrice":2.5,"revenue":%g,"ts":%d}`,
		revenue, ts))
}

func TestHandleStoresCanonicalRevenue(t *testing.T) {
	store := &fakeSalesStore{}
	m := newFakeMetrics()
	h := NewKafkaSalesHandler("shelfpulse.sales", store, m, testLogger())

	err := h.Handle(context.Background(), saleJSON(1750000000, 10))
	require.NoError(t, err)

	require.Len(t, store.stored, 1)
	assert.Equal(t, "sku-1", store.stored[0].ProductID)
	assert.Equal(t, 10.0, store.stored[0].Revenue)
	assert.Zero(t, m.errorCount("revenue_mismatch"))
}

func TestHandleRevenueMismatchWarnsButStores(t *testing.T) {
	store := &fakeSalesStore{}
	m := newFakeMetrics()
	h := NewKafkaSalesHandler("shelfpulse.sales", store, m, testLogger())

	err := h.Handle(context.Background(), saleJSON(1750000000, 9))
	require.NoError(t, err)

	require.Len(t, store.stored, 1)
	// quantity*unitPrice wins over the reported figure
	assert.Equal(t, 10.0, store.stored[0].Revenue)
	assert.Equal(t, 1, m.errorCount("revenue_mismatch"))
}

func TestHandleFoldsMillisecondTimestamps(t *testing.T) {
	store := &fakeSalesStore{}
	h := NewKafkaSalesHandler("shelfpulse.sales", store, newFakeMetrics(), testLogger())

	err := h.Handle(context.Background(), saleJSON(1750000000000, 10))
	require.NoError(t, err)

	require.Len(t, store.stored, 1)
	assert.Equal(t, time.Unix(1750000000, 0).UTC(), store.stored[0].Date)
}

func TestHandleRejectsBadPayload(t *testing.T) {
	m := newFakeMetrics()
	h := NewKafkaSalesHandler("shelfpulse.sales", &fakeSalesStore{}, m, testLogger())

	err := h.Handle(context.Background(), []byte("not json"))
	require.Error(t, err)
	assert.Equal(t, 1, m.errorCount("consumer_unmarshal"))
}

func TestHandleStoreFailurePropagates(t *testing.T) {
	store := &fakeSalesStore{storeErr: errors.New("ch down")}
	m := newFakeMetrics()
	h := NewKafkaSalesHandler("shelfpulse.sales", store, m, testLogger())

	err := h.Handle(context.Background(), saleJSON(1750000000, 10))
	require.Error(t, err)
	assert.Equal(t, 1, m.errorCount("consumer_store"))
}
