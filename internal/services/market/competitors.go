package market

import (
	"context"
	"time"

	"ShelfPulse/internal/domain/models"
	"ShelfPulse/internal/domain/repository"
	domsvc "ShelfPulse/internal/domain/service"
	"ShelfPulse/internal/service/ratelimit"
	pcache "ShelfPulse/pkg/cache"
	phttp "ShelfPulse/pkg/http"
	"ShelfPulse/pkg/logger"
)

// Config holds the competitor price feed settings.
type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	CacheTTL       time.Duration
	RequestsPerSec float64
	Burst          float64
	MaxPeers       int
}

// PriceFeed fetches peer price snapshots for a product category from the
// external market API. Responses are cached per category and outbound calls
// are rate limited; every failure path degrades to "no competitors" so a
// pricing call never fails on market data.
type PriceFeed struct {
	cfg     Config
	http    *phttp.Client
	cache   pcache.Service
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

func NewPriceFeed(cfg Config, log *logger.Logger) *PriceFeed {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.MaxPeers <= 0 {
		cfg.MaxPeers = 20
	}
	return &PriceFeed{
		cfg:     cfg,
		http:    phttp.NewClient(phttp.WithTimeout(cfg.Timeout)),
		cache:   pcache.NewMemoryCache(),
		limiter: ratelimit.New(),
		log:     log,
	}
}

type peerPrice struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
}

type peerPriceResponse struct {
	Items []peerPrice `json:"items"`
}

// Competitors returns peer products with current prices for a category.
// excludeID filters the product being priced out of its own peer set.
func (f *PriceFeed) Competitors(ctx context.Context, category string, excludeID string) []models.Product {
	if f.cfg.BaseURL == "" || category == "" {
		return nil
	}

	key := pcache.GenerateKey("peers", category)
	var cached interface{}
	if err := f.cache.Get(ctx, key, &cached); err == nil {
		if peers, ok := cached.([]models.Product); ok {
			return filterPeers(peers, excludeID, f.cfg.MaxPeers)
		}
	}

	if !f.limiter.Allow("market_api", f.cfg.Burst, f.cfg.RequestsPerSec) {
		f.log.Warn("market: rate limited, skipping competitor lookup", logger.String("category", category))
		return nil
	}

	var resp peerPriceResponse
	err := f.http.SendAndParse(ctx, &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    f.cfg.BaseURL + "/v1/prices",
		Headers: map[string]string{
			"Authorization": "Bearer " + f.cfg.APIKey,
		},
		QueryParams: map[string][]string{
			"category": {category},
		},
	}, &resp)
	if err != nil {
		f.log.Warn("market: competitor lookup failed",
			logger.String("category", category),
			logger.Error(err))
		return nil
	}

	peers := make([]models.Product, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.Price <= 0 {
			continue
		}
		peers = append(peers, models.Product{
			ID:       it.ProductID,
			Name:     it.Name,
			Category: it.Category,
			Price:    it.Price,
		})
	}

	_ = f.cache.Set(ctx, key, peers, f.cfg.CacheTTL)
	return filterPeers(peers, excludeID, f.cfg.MaxPeers)
}

func filterPeers(peers []models.Product, excludeID string, limit int) []models.Product {
	out := make([]models.Product, 0, len(peers))
	for _, p := range peers {
		if p.ID != "" && p.ID == excludeID {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

// CatalogPeers is a CompetitorSource backed by the local product catalog,
// used when no external market API is configured.
type CatalogPeers struct {
	catalog repository.ProductCatalog
	limit   int
	log     *logger.Logger
}

func NewCatalogPeers(catalog repository.ProductCatalog, limit int, log *logger.Logger) *CatalogPeers {
	if limit <= 0 {
		limit = 20
	}
	return &CatalogPeers{catalog: catalog, limit: limit, log: log}
}

func (c *CatalogPeers) Competitors(ctx context.Context, category string, excludeID string) []models.Product {
	if category == "" {
		return nil
	}
	peers, err := c.catalog.SimilarProducts(ctx, category, excludeID, c.limit)
	if err != nil {
		c.log.Warn("market: catalog peer lookup failed",
			logger.String("category", category),
			logger.Error(err))
		return nil
	}
	return peers
}

var (
	_ domsvc.CompetitorSource = (*PriceFeed)(nil)
	_ domsvc.CompetitorSource = (*CatalogPeers)(nil)
)
