package upbank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production Up API endpoint.
const DefaultBaseURL = "https://api.up.com.au/api/v1"

// Client is a minimal Up API client covering the resources the sync engine
// needs. Calls are sequential and blocking; a non-success status aborts the
// whole call with a FetchError and no partial result.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Client authenticating with the given personal access
// token. An empty baseURL selects the production API.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// get issues one authorized GET against a fully formed URL and decodes the
// JSON body into out.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{URL: rawURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// resourceURL builds the first-page URL for a resource path with optional
// query parameters. Continuation URLs come back from the server fully formed
// and are followed as-is.
func (c *Client) resourceURL(path string, params url.Values) string {
	u := c.baseURL + "/" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Ping verifies the token against the utility ping endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, c.resourceURL("util/ping", nil), nil)
}

// ListAccounts fetches the complete account listing, following pagination
// until the server stops returning a next link. Server order is preserved.
func (c *Client) ListAccounts(ctx context.Context) ([]AccountResource, error) {
	var all []AccountResource
	next := c.resourceURL("accounts", nil)
	for next != "" {
		var page accountsPage
		if err := c.get(ctx, next, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		next = ""
		if page.Links.Next != nil {
			next = *page.Links.Next
		}
	}
	return all, nil
}

// ListTransactionsSince fetches every transaction created at or after since,
// following pagination. The since filter is inclusive on the server side.
func (c *Client) ListTransactionsSince(ctx context.Context, since time.Time) ([]TransactionResource, error) {
	params := url.Values{}
	params.Set("filter[since]", since.Format(time.RFC3339))

	var all []TransactionResource
	next := c.resourceURL("transactions", params)
	for next != "" {
		var page transactionsPage
		if err := c.get(ctx, next, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		next = ""
		if page.Links.Next != nil {
			next = *page.Links.Next
		}
	}
	return all, nil
}

// GetTransaction fetches a single transaction by identifier.
func (c *Client) GetTransaction(ctx context.Context, id string) (*TransactionResource, error) {
	var envelope transactionEnvelope
	if err := c.get(ctx, c.resourceURL("transactions/"+url.PathEscape(id), nil), &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
