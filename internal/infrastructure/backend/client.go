package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sawa-shop/storefront-service/internal/application/ports"
	"github.com/sawa-shop/storefront-service/internal/config"
	"github.com/sawa-shop/storefront-service/internal/domain/catalog"
	"github.com/sawa-shop/storefront-service/internal/domain/errors"
	"github.com/sawa-shop/storefront-service/internal/domain/order"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/monitoring"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// Client is the HTTP adapter for the upstream order/catalog API. It
// implements both the OrderBackend and TagBackend ports.
type Client struct {
	baseURL   string
	authToken string
	http      *http.Client
	log       *logger.Logger
}

func NewClient(cfg config.BackendConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		authToken: cfg.AuthToken,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		log: log,
	}
}

func (c *Client) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	query := url.Values{}
	if filter.UserID != "" {
		query.Set("user_id", filter.UserID)
	}
	if filter.Role != "" {
		query.Set("role", string(filter.Role))
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	path := "/orders"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var orders []*order.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	var o order.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) CreateOrder(ctx context.Context, creatorID string, items []ports.OrderItemInput) (*order.Order, error) {
	body := struct {
		CreatorID string                 `json:"creator_id,omitempty"`
		Items     []ports.OrderItemInput `json:"items"`
	}{
		CreatorID: creatorID,
		Items:     items,
	}

	var o order.Order
	if err := c.do(ctx, http.MethodPost, "/orders", body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) AppendOrderItem(ctx context.Context, orderID string, item ports.OrderItemInput) error {
	return c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/items", item, nil)
}

func (c *Client) SubmitMysteryBoxContents(ctx context.Context, orderID, itemID string, contents ports.MysteryBoxContents) error {
	path := "/orders/" + url.PathEscape(orderID) + "/items/" + url.PathEscape(itemID) + "/mystery-box"
	return c.do(ctx, http.MethodPost, path, contents, nil)
}

func (c *Client) FulfillOrder(ctx context.Context, orderID string) (*order.Order, error) {
	var o order.Order
	if err := c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/fulfill", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID, reason string) (*order.Order, error) {
	body := struct {
		Reason string `json:"reason,omitempty"`
	}{Reason: reason}

	var o order.Order
	if err := c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/cancel", body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) BatchResolveTags(ctx context.Context, tagIDs []string) ([]*catalog.Tag, error) {
	monitoring.TagBatchSize.Observe(float64(len(tagIDs)))

	var tags []*catalog.Tag
	if err := c.do(ctx, http.MethodPost, "/tags/batch", tagIDs, &tags); err != nil {
		monitoring.TagBatchFailuresTotal.Inc()
		return nil, err
	}
	return tags, nil
}

// Ping backs the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.ErrOrderNotFound
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("Backend request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"body", string(data),
		)
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
