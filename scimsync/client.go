package scimsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Endpoint describes one SCIM server this command talks to: a base URL and
// the resource collection ("Users" or "Groups") being synchronized.
type Endpoint struct {
	BaseURL     string
	BearerToken string
	Resource    string // "Users" or "Groups"
}

// client is a thin SCIM HTTP client scoped to a single Endpoint. It is not
// a general-purpose SCIM SDK: it implements only the handful of calls the
// sync utility makes, wrapped in retries for transient failures, matching
// the teacher's backoff.Retry-around-mongo.Connect idiom.
type client struct {
	http     *http.Client
	endpoint Endpoint
}

func newClient(endpoint Endpoint, httpClient *http.Client) *client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &client{http: httpClient, endpoint: endpoint}
}

type listResponse struct {
	TotalResults int                      `json:"totalResults"`
	StartIndex   int                      `json:"startIndex"`
	ItemsPerPage int                      `json:"itemsPerPage"`
	Resources    []map[string]interface{} `json:"Resources"`
}

// listPage fetches one page of the endpoint's resource collection, sorted
// by id so repeated pages are stable across a single sync run.
func (c *client) listPage(ctx context.Context, startIndex, count int) (*listResponse, error) {
	u := fmt.Sprintf("%s/%s?startIndex=%d&count=%d&sortBy=id",
		c.endpoint.BaseURL, c.endpoint.Resource, startIndex, count)

	var page listResponse
	err := c.retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		c.authorize(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if isTransient(resp.StatusCode) {
			return fmt.Errorf("transient status %d listing %s", resp.StatusCode, u)
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("list %s: unexpected status %d", u, resp.StatusCode))
		}
		return json.NewDecoder(resp.Body).Decode(&page)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// upsert replaces the resource by id if it already exists on this
// endpoint, or creates it otherwise.
func (c *client) upsert(ctx context.Context, id string, data map[string]interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}

	putURL := fmt.Sprintf("%s/%s/%s", c.endpoint.BaseURL, c.endpoint.Resource, url.PathEscape(id))
	return c.retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, putURL, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		c.authorize(req)
		req.Header.Set("Content-Type", "application/scim+json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return c.create(ctx, body)
		case isTransient(resp.StatusCode):
			return fmt.Errorf("transient status %d replacing %s", resp.StatusCode, putURL)
		case resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("replace %s: unexpected status %d", putURL, resp.StatusCode))
		default:
			return nil
		}
	})
}

func (c *client) create(ctx context.Context, body []byte) error {
	postURL := fmt.Sprintf("%s/%s", c.endpoint.BaseURL, c.endpoint.Resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/scim+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if isTransient(resp.StatusCode) {
		return fmt.Errorf("transient status %d creating %s", resp.StatusCode, postURL)
	}
	if resp.StatusCode >= 300 {
		return backoff.Permanent(fmt.Errorf("create %s: unexpected status %d", postURL, resp.StatusCode))
	}
	return nil
}

// delete removes a resource by id. A 404 is treated as success: the orphan
// is already gone.
func (c *client) delete(ctx context.Context, id string) error {
	delURL := fmt.Sprintf("%s/%s/%s", c.endpoint.BaseURL, c.endpoint.Resource, url.PathEscape(id))
	return c.retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, delURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		c.authorize(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil
		case isTransient(resp.StatusCode):
			return fmt.Errorf("transient status %d deleting %s", resp.StatusCode, delURL)
		case resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("delete %s: unexpected status %d", delURL, resp.StatusCode))
		default:
			return nil
		}
	})
}

func (c *client) authorize(req *http.Request) {
	if c.endpoint.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.endpoint.BearerToken)
	}
	req.Header.Set("Accept", "application/scim+json")
}

func (c *client) retry(op backoff.Operation) error {
	return backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
}

// isTransient reports whether status is worth retrying: rate limiting and
// server errors, not client errors (aside from the 404-as-not-found cases
// each caller already special-cases before reaching here).
func isTransient(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
