// Package spoonacular wraps the ingredient search of the Spoonacular
// recipe API.
package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
)

const (
	defaultBaseURL             = "https://api.spoonacular.com"
	defaultResults             = 6
	errorBodyReadLimit   int64 = 1024
	findByIngredientPath       = "/recipes/findByIngredients"
)

var errAPIKeyRequired = errors.New("spoonacular api key is required")

// Client calls the Spoonacular REST API. It never retries and never caches.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	results    int
	timeout    time.Duration
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithResults sets how many recipes a search returns.
func WithResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.results = n
		}
	}
}

// WithTimeout bounds each outbound request. It is applied after every
// other option, so it also holds for a client passed to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, errAPIKeyRequired
	}
	c := &Client{
		apiKey:     key,
		baseURL:    defaultBaseURL,
		results:    defaultResults,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.timeout > 0 {
		// copy so a caller-supplied client is left untouched
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

type apiIngredient struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Original string  `json:"original"`
	Image    string  `json:"image"`
}

type apiRecipe struct {
	ID                    int64           `json:"id"`
	Title                 string          `json:"title"`
	Image                 string          `json:"image"`
	UsedIngredientCount   int             `json:"usedIngredientCount"`
	MissedIngredientCount int             `json:"missedIngredientCount"`
	UsedIngredients       []apiIngredient `json:"usedIngredients"`
	MissedIngredients     []apiIngredient `json:"missedIngredients"`
}

// FindByIngredients returns recipes that use the given ingredient names.
func (c *Client) FindByIngredients(ctx context.Context, ingredients []string) ([]model.SuggestedRecipe, error) {
	if c == nil {
		return nil, apperr.New(apperr.CodeUpstreamFailure, "recipe lookup is not configured")
	}
	if len(ingredients) == 0 {
		return nil, apperr.Validation("ingredients are required",
			apperr.FieldError{Field: "ingredients", Message: "is required"})
	}

	q := url.Values{}
	q.Set("ingredients", strings.Join(ingredients, ","))
	q.Set("number", strconv.Itoa(c.results))
	q.Set("apiKey", c.apiKey)
	endpoint := c.baseURL + findByIngredientPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUpstreamFailure, err, "build recipe search request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUpstreamFailure, redact(err), "failed to fetch recipes")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, apperr.Wrap(apperr.CodeUpstreamFailure,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"failed to fetch recipes")
	}

	var payload []apiRecipe
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperr.Wrap(apperr.CodeUpstreamFailure, err, "decode recipe search response")
	}

	out := make([]model.SuggestedRecipe, 0, len(payload))
	for _, r := range payload {
		out = append(out, model.SuggestedRecipe{
			ID:                    r.ID,
			Title:                 r.Title,
			Image:                 r.Image,
			UsedIngredientCount:   r.UsedIngredientCount,
			MissedIngredientCount: r.MissedIngredientCount,
			UsedIngredients:       toIngredients(r.UsedIngredients),
			MissedIngredients:     toIngredients(r.MissedIngredients),
		})
	}
	return out, nil
}

func toIngredients(in []apiIngredient) []model.SuggestedIngredient {
	out := make([]model.SuggestedIngredient, 0, len(in))
	for _, i := range in {
		out = append(out, model.SuggestedIngredient{
			ID:       i.ID,
			Name:     i.Name,
			Amount:   i.Amount,
			Unit:     i.Unit,
			Original: i.Original,
			Image:    i.Image,
		})
	}
	return out
}

// redact strips the request URL, which carries the API key, from
// transport errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s request: %w", uerr.Op, uerr.Err)
	}
	return err
}
