// Package client talks to the storefront API on behalf of the command-line
// storefront.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/models"
)

// DefaultTimeout bounds every request, notifications included.
const DefaultTimeout = 5 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer of the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// envelope covers every response body of the API.
type envelope struct {
	Success  bool                   `json:"success"`
	Message  string                 `json:"message"`
	Error    string                 `json:"error"`
	Errors   []string               `json:"errors"`
	Fields   map[string]string      `json:"fields"`
	Order    *models.Order          `json:"order"`
	Orders   []models.Order         `json:"orders"`
	Product  *models.Product        `json:"product"`
	Products []models.Product       `json:"products"`
	Data     *models.ContactMessage `json:"data"`
}

// CreateOrder posts the order and returns the stored record. A 400 comes
// back as *apperrors.ValidationError, a 5xx as *apperrors.PersistenceError.
func (c *Client) CreateOrder(ctx context.Context, in models.OrderInput) (models.Order, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/orders", in, &env); err != nil {
		return models.Order{}, orderError(err)
	}
	if env.Order == nil {
		return models.Order{}, errors.New("api: order missing from response")
	}
	return *env.Order, nil
}

// NotifyOrder asks the API to notify the store owner. Any failure, transport
// or status, reads as false.
func (c *Client) NotifyOrder(ctx context.Context, order models.Order) bool {
	body := map[string]any{"orderDetails": order}
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/orders/notify", body, &env); err != nil {
		log.Warn().Err(err).Msg("⚠️ Order notification failed")
		return false
	}
	return env.Success
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &env); err != nil {
		return nil, err
	}
	if env.Orders == nil {
		return []models.Order{}, nil
	}
	return env.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (models.Order, error) {
	var env envelope
	err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID), nil, &env)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return models.Order{}, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	if env.Order == nil {
		return models.Order{}, errors.New("api: order missing from response")
	}
	return *env.Order, nil
}

func (c *Client) SendContact(ctx context.Context, in models.ContactInput) (models.ContactMessage, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/contact", in, &env); err != nil {
		return models.ContactMessage{}, err
	}
	if env.Data == nil {
		return models.ContactMessage{}, errors.New("api: contact missing from response")
	}
	return *env.Data, nil
}

// Products lists the catalog, optionally filtered by category and a search term.
func (c *Client) Products(ctx context.Context, category, query string) ([]models.Product, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if query != "" {
		q.Set("q", query)
	}
	path := "/api/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var env envelope
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Products, nil
}

func (c *Client) Product(ctx context.Context, id string) (models.Product, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &env); err != nil {
		return models.Product{}, err
	}
	if env.Product == nil {
		return models.Product{}, errors.New("api: product missing from response")
	}
	return *env.Product, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out *envelope) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(out); err != nil && resp.StatusCode < 300 {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusBadRequest && (len(out.Fields) > 0 || len(out.Errors) > 0) {
			return out.validationError()
		}
		msg := out.Error
		if msg == "" {
			msg = out.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	return nil
}

func (e *envelope) validationError() *apperrors.ValidationError {
	ve := &apperrors.ValidationError{}
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		ve.Add(field, e.Fields[field])
	}
	if ve.Empty() {
		for i, msg := range e.Errors {
			ve.Add(strconv.Itoa(i), msg)
		}
	}
	return ve
}

// orderError maps a failed order request onto the error taxonomy.
func orderError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 500 {
		return apperrors.Persistence("create order", err)
	}
	return err
}
