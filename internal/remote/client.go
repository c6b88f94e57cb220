package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/ntarasova/moodlog/internal/common"
	"github.com/ntarasova/moodlog/internal/session"
)

// Client talks to the remote journal store over HTTP. Every request carries
// the bearer token obtained from the session provider.
type Client struct {
	baseURL string
	session session.Session
	http    *http.Client
}

// NewClient returns a Client for the store at baseURL. When httpClient is
// nil a default client with a transport-level timeout is used; the
// reconciler imposes no additional deadline of its own.
func NewClient(baseURL string, sess session.Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, session: sess, http: httpClient}
}

func (c *Client) journalURL(userID string) string {
	return fmt.Sprintf("%s/users/%s/journal", c.baseURL, url.PathEscape(userID))
}

func (c *Client) recordURL(userID, key string) string {
	return c.journalURL(userID) + "/" + url.PathEscape(key)
}

func (c *Client) profileURL(userID string) string {
	return fmt.Sprintf("%s/users/%s/profile", c.baseURL, url.PathEscape(userID))
}

func (c *Client) do(ctx context.Context, method, u string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", common.ErrNetwork, method, u, err)
	}
	return resp, nil
}

// checkStatus maps a non-success response to the fault taxonomy and drains
// the body so the connection can be reused.
func checkStatus(resp *http.Response, accepted ...int) error {
	for _, code := range accepted {
		if resp.StatusCode == code {
			return nil
		}
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s: %s", common.ErrAuth, resp.Status, string(b))
	case http.StatusNotFound:
		return common.ErrNotFound
	default:
		return fmt.Errorf("%w: %s: %s", common.ErrNetwork, resp.Status, string(b))
	}
}

// ListAll implements Store.ListAll. The store returns the collection as a
// JSON object keyed by the store-assigned keys; order is made deterministic
// by sorting on key.
func (c *Client) ListAll(ctx context.Context, userID string) ([]Keyed, error) {
	resp, err := c.do(ctx, http.MethodGet, c.journalURL(userID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// an empty collection may come back as 404 or as JSON null
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var byKey map[string]Record
	if err := json.NewDecoder(resp.Body).Decode(&byKey); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", common.ErrNetwork, err)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]Keyed, 0, len(keys))
	for _, k := range keys {
		result = append(result, Keyed{Key: k, Record: byKey[k]})
	}
	return result, nil
}

// Create implements Store.Create.
func (c *Client) Create(ctx context.Context, userID string, rec Record) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, c.journalURL(userID), rec)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK, http.StatusCreated); err != nil {
		return "", err
	}

	var out struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode create response: %v", common.ErrNetwork, err)
	}
	if out.Name == "" {
		return "", fmt.Errorf("%w: create returned no key", common.ErrNetwork)
	}
	return out.Name, nil
}

// Replace implements Store.Replace.
func (c *Client) Replace(ctx context.Context, userID, key string, rec Record) error {
	resp, err := c.do(ctx, http.MethodPut, c.recordURL(userID, key), rec)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp, http.StatusOK, http.StatusNoContent)
}

// Delete implements Store.Delete. Deleting an absent key succeeds, so a
// retry after a crash between the remote delete and the local cleanup is
// harmless.
func (c *Client) Delete(ctx context.Context, userID, key string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.recordURL(userID, key), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp, http.StatusOK, http.StatusNoContent, http.StatusNotFound)
}

// GetProfile implements Store.GetProfile.
func (c *Client) GetProfile(ctx context.Context, userID string) (*ProfileRecord, error) {
	resp, err := c.do(ctx, http.MethodGet, c.profileURL(userID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var p ProfileRecord
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", common.ErrNetwork, err)
	}
	return &p, nil
}

// PutProfile implements Store.PutProfile.
func (c *Client) PutProfile(ctx context.Context, userID string, p ProfileRecord) error {
	resp, err := c.do(ctx, http.MethodPut, c.profileURL(userID), p)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp, http.StatusOK, http.StatusNoContent)
}
