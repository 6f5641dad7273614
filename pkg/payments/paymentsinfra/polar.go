// Package paymentsinfra implements the payments ports against the Polar API.
package paymentsinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/joopert/translate-app/pkg/logx"
	"github.com/joopert/translate-app/pkg/payments"
)

const (
	productionBaseURL = "https://api.polar.sh"
	sandboxBaseURL    = "https://sandbox-api.polar.sh"

	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	pageSize       = 100
)

// PolarClient talks to the Polar products API over HTTPS.
type PolarClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewPolarClient creates a Polar API client. environment selects the
// sandbox or production server; anything else defaults to production.
func NewPolarClient(apiKey, environment string, httpClient *http.Client) *PolarClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	baseURL := productionBaseURL
	if environment == "sandbox" {
		baseURL = sandboxBaseURL
	}

	return &PolarClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		maxRetries: maxRetries,
	}
}

// product is the subset of Polar's product schema the catalog needs.
type product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsArchived  bool   `json:"is_archived"`
}

type productsPage struct {
	Items      []product `json:"items"`
	Pagination struct {
		TotalCount int `json:"total_count"`
		MaxPage    int `json:"max_page"`
	} `json:"pagination"`
}

// FetchPlans lists every non-archived product, following pagination.
func (c *PolarClient) FetchPlans(ctx context.Context) (payments.Plans, error) {
	var plans payments.Plans

	for page := 1; ; page++ {
		result, err := c.listProducts(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, item := range result.Items {
			if item.IsArchived {
				continue
			}
			plans = append(plans, payments.Plan{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
			})
		}
		if page >= result.Pagination.MaxPage {
			break
		}
	}

	logx.WithField("count", len(plans)).Debug("Fetched plan catalog from Polar")
	return plans, nil
}

func (c *PolarClient) listProducts(ctx context.Context, page int) (*productsPage, error) {
	query := url.Values{
		"page":        {strconv.Itoa(page)},
		"limit":       {strconv.Itoa(pageSize)},
		"is_archived": {"false"},
	}
	endpoint := c.baseURL + "/v1/products?" + query.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := c.doList(ctx, endpoint)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			break
		}
	}
	return nil, lastErr
}

func (c *PolarClient) doList(ctx context.Context, endpoint string) (*productsPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create products request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read products response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apiError{status: resp.StatusCode, body: string(body)}
	}

	var result productsPage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode products response: %w", err)
	}
	return &result, nil
}

// apiError is a non-2xx answer from Polar.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	body := e.body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("polar api returned %d: %s", e.status, body)
}

// retryable reports whether the attempt is worth repeating. Client errors
// other than rate limiting are not.
func retryable(err error) bool {
	if apiErr, ok := err.(*apiError); ok {
		return apiErr.status == http.StatusTooManyRequests || apiErr.status >= 500
	}
	return true
}

var _ payments.PlanFetcher = (*PolarClient)(nil)
