package posfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ShelfPulse/internal/domain/models"
	drepo "ShelfPulse/internal/domain/repository"
	"ShelfPulse/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements a SaleStream backed by the POS gateway WebSocket.
type Client struct {
	apiKey         string
	websocketURL   string
	storeIDs       []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	conn      *websocket.Conn
	connected bool
}

// New creates a new POS gateway SaleStream.
func New(apiKey, websocketURL string, storeIDs []string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) drepo.SaleStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		storeIDs:       storeIDs,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("posfeed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.log.Info("posfeed: connected")
	return nil
}

// Subscribe subscribes to configured stores.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("posfeed not connected")
	}
	for _, s := range c.storeIDs {
		msg := map[string]string{"type": "subscribe", "store": s}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		c.log.Info("posfeed: subscribed", logger.String("store_id", s))
	}
	return nil
}

type wireSale struct {
	ProductID string  `json:"p"`
	StoreID   string  `json:"s"`
	Qty       int     `json:"q"`
	Price     float64 `json:"u"`
	Revenue   float64 `json:"r"`
	T         int64   `json:"t"` // ms
}

type wireMessage struct {
	Type string     `json:"type"`
	Data []wireSale `json:"data"`
}

// Read streams SaleEvents and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.SaleEvent, <-chan error) {
	events := make(chan *models.SaleEvent, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(events)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("posfeed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("posfeed read: %w", err)
					return
				}
				var m wireMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-sale frames
					continue
				}
				if m.Type != "sale" {
					continue
				}
				for _, d := range m.Data {
					sec := d.T / 1000
					event := &models.SaleEvent{
						ProductID: d.ProductID,
						StoreID:   d.StoreID,
						Quantity:  d.Qty,
						UnitPrice: d.Price,
						Revenue:   d.Revenue,
						Timestamp: sec,
					}
					select {
					case events <- event:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return events, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
