// Package client is the typed front-end client for the countries REST API.
// Every failure is logged, surfaced as an error notification and returned;
// nothing is retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"countries/internal/country/models"
	"countries/internal/notify"
	"countries/internal/platform/logger"
	dErrors "countries/pkg/domain-errors"
)

const apiPath = "/api/countries"

// APIError is a non-2xx response. Message is the server's "error" field, or
// "HTTP error! status: N" when the body carries none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	notifier   notify.Notifier
	logger     *slog.Logger
	tracer     trace.Tracer
}

type Option func(*Client)

// WithHTTPClient replaces the default client. The default sets no timeout;
// callers bound requests with their context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// New builds a client rooted at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		notifier:   discardNotifier{},
		logger:     logger.Discard(),
		tracer:     otel.Tracer("countries/client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ListCountries(ctx context.Context) ([]*models.Country, error) {
	var out []*models.Country
	err := c.call(ctx, "Failed to load countries: ", http.MethodGet, apiPath, nil, nil, &out)
	return out, err
}

func (c *Client) GetCountry(ctx context.Context, id int64) (*models.Country, error) {
	var out models.Country
	if err := c.call(ctx, "Failed to load country: ", http.MethodGet, idPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCountryByName(ctx context.Context, name string) (*models.Country, error) {
	var out models.Country
	if err := c.call(ctx, "Failed to load country: ", http.MethodGet, apiPath+"/name/"+url.PathEscape(name), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchByName(ctx context.Context, query string) ([]*models.Country, error) {
	var out []*models.Country
	err := c.call(ctx, "Search failed: ", http.MethodGet, apiPath+"/search/name", url.Values{"name": {query}}, nil, &out)
	return out, err
}

func (c *Client) SearchByContinent(ctx context.Context, query string) ([]*models.Country, error) {
	var out []*models.Country
	err := c.call(ctx, "Search failed: ", http.MethodGet, apiPath+"/search/continent", url.Values{"continent": {query}}, nil, &out)
	return out, err
}

func (c *Client) ListByContinent(ctx context.Context, continent string) ([]*models.Country, error) {
	var out []*models.Country
	err := c.call(ctx, "Failed to load countries by continent: ", http.MethodGet,
		apiPath+"/continent/"+url.PathEscape(continent), nil, nil, &out)
	return out, err
}

func (c *Client) Continents(ctx context.Context) ([]models.Continent, error) {
	var out []models.Continent
	err := c.call(ctx, "Failed to load continents: ", http.MethodGet, apiPath+"/continents", nil, nil, &out)
	return out, err
}

func (c *Client) PopulationGreaterThan(ctx context.Context, population int64) ([]*models.Country, error) {
	var out []*models.Country
	err := c.call(ctx, "Failed to load countries: ", http.MethodGet,
		apiPath+"/population/greater-than/"+strconv.FormatInt(population, 10), nil, nil, &out)
	return out, err
}

func (c *Client) Statistics(ctx context.Context) (*models.Statistics, error) {
	var out models.Statistics
	if err := c.call(ctx, "Failed to load statistics: ", http.MethodGet, apiPath+"/statistics", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCountry validates in locally and only then posts it.
func (c *Client) CreateCountry(ctx context.Context, in models.CountryInput) (*models.Country, error) {
	if err := c.validate(ctx, &in); err != nil {
		return nil, err
	}
	var out models.Country
	if err := c.call(ctx, "Failed to create country: ", http.MethodPost, apiPath, nil, in, &out); err != nil {
		return nil, err
	}
	c.notifier.Show("Country created successfully!", notify.Success)
	return &out, nil
}

func (c *Client) UpdateCountry(ctx context.Context, id int64, in models.CountryInput) (*models.Country, error) {
	if err := c.validate(ctx, &in); err != nil {
		return nil, err
	}
	var out models.Country
	if err := c.call(ctx, "Failed to update country: ", http.MethodPut, idPath(id), nil, in, &out); err != nil {
		return nil, err
	}
	c.notifier.Show("Country updated successfully!", notify.Success)
	return &out, nil
}

func (c *Client) DeleteCountry(ctx context.Context, id int64) error {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.call(ctx, "Failed to delete country: ", http.MethodDelete, idPath(id), nil, nil, &out); err != nil {
		return err
	}
	c.notifier.Show("Country deleted successfully!", notify.Success)
	return nil
}

// BulkCreate posts every input; the server skips names that already exist.
func (c *Client) BulkCreate(ctx context.Context, inputs []models.CountryInput) ([]*models.Country, error) {
	var out struct {
		Message   string            `json:"message"`
		Countries []*models.Country `json:"countries"`
	}
	if err := c.call(ctx, "Failed to create countries: ", http.MethodPost, apiPath+"/bulk", nil, inputs, &out); err != nil {
		return nil, err
	}
	c.notifier.Show(out.Message, notify.Success)
	return out.Countries, nil
}

// validate runs the server's rules on a copy and notifies the bare message.
func (c *Client) validate(ctx context.Context, in *models.CountryInput) error {
	if err := in.Validate(); err != nil {
		msg := err.Error()
		if de, ok := dErrors.As(err); ok {
			msg = de.Message
		}
		c.logger.InfoContext(ctx, "country input rejected before submit", "error", msg)
		c.notifier.Show(msg, notify.Error)
		return err
	}
	return nil
}

// call performs one request. On failure it logs, notifies prefix+message
// and returns the error unchanged.
func (c *Client) call(ctx context.Context, prefix, method, path string, query url.Values, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "client."+method+" "+path, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("url.path", path),
	))
	defer span.End()

	err := c.do(ctx, method, path, query, body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.ErrorContext(ctx, "API request failed",
			"method", method,
			"path", path,
			"error", err,
		)
		c.notifier.Show(prefix+err.Error(), notify.Error)
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.baseURL
	raw := strings.TrimRight(c.baseURL.EscapedPath(), "/") + path
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return fmt.Errorf("build request path: %w", err)
	}
	u.Path, u.RawPath = decoded, raw
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

func idPath(id int64) string {
	return apiPath + "/" + strconv.FormatInt(id, 10)
}

type discardNotifier struct{}

func (discardNotifier) Show(message string, severity notify.Severity) notify.Notification {
	return notify.Notification{Message: message, Severity: severity}
}
