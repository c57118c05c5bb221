package catalog

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

	"github.com/polynux/kanap-openclassrooms/models"
)

// APIError is returned when the catalog answers with an unexpected status.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error (%d): %s", e.Status, e.Body)
}

// maxResponseBytes caps how much of a catalog response is read.
const maxResponseBytes = 10 << 20

// Client talks to the remote product catalog and order endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	maxBody int64
}

// New builds a client for the API rooted at baseURL (e.g. http://localhost:3000/api).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		maxBody: maxResponseBytes,
	}
}

// Products fetches the whole catalog.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches a single product by id.
func (c *Client) Product(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// PlaceOrder posts the order and returns the confirmation carrying the order id.
func (c *Client) PlaceOrder(ctx context.Context, order models.OrderRequest) (models.OrderConfirmation, error) {
	var conf models.OrderConfirmation
	if err := c.do(ctx, http.MethodPost, "/products/order", order, &conf); err != nil {
		return models.OrderConfirmation{}, err
	}
	if conf.OrderID == "" {
		return models.OrderConfirmation{}, fmt.Errorf("catalog returned empty order id")
	}
	return conf, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach catalog: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if int64(len(raw)) > c.maxBody {
		return fmt.Errorf("catalog response exceeds %d bytes", c.maxBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse catalog response: %w", err)
	}
	return nil
}
