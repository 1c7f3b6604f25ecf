// Package client provides an HTTP client for the realty site's admin API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/message"
	"github.com/evcraddock/realty-site/internal/stats"
)

// SessionCookie is the cookie the server uses for admin sessions.
const SessionCookie = "realty_session"

// Client is an HTTP client for the realty site API.
type Client struct {
	baseURL    string
	session    string
	httpClient *http.Client
}

// New creates a new API client. session is the value of a previously
// issued session cookie, or empty.
func New(baseURL, session string) *Client {
	return &Client{
		baseURL:    baseURL,
		session:    session,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Session returns the current session cookie value.
func (c *Client) Session() string {
	return c.session
}

// User is the signed-in account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login signs in and keeps the session cookie the server sets.
func (c *Client) Login(username, password string) (*User, error) {
	body := map[string]string{"username": username, "password": password}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/api/login", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var u User
	resp, err := c.send(req, &u)
	if err != nil {
		return nil, err
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookie {
			c.session = ck.Value
		}
	}
	if c.session == "" {
		return nil, fmt.Errorf("server did not issue a session cookie")
	}
	return &u, nil
}

// Logout ends the session on the server and forgets it locally.
func (c *Client) Logout() error {
	err := c.post("/api/logout", nil, nil)
	c.session = ""
	return err
}

// CurrentUser returns the signed-in user.
func (c *Client) CurrentUser() (*User, error) {
	var u User
	if err := c.get("/api/user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Health checks that the server is up.
func (c *Client) Health() error {
	return c.get("/api/health", nil)
}

// ListOptions controls filtering for ListListings.
type ListOptions struct {
	Status string // pending, approved, rejected (empty = all)
	Limit  int
}

// ListListings returns listings from the admin API.
func (c *Client) ListListings(opts ListOptions) ([]*listing.Listing, error) {
	path := "/api/admin/listings"
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var listings []*listing.Listing
	if err := c.get(path, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetListing returns a listing regardless of its review status.
func (c *Client) GetListing(id int64) (*listing.Listing, error) {
	var l listing.Listing
	if err := c.get(fmt.Sprintf("/api/admin/listings/%d", id), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SetReviewStatus approves or rejects a listing.
func (c *Client) SetReviewStatus(id int64, status listing.ReviewStatus) (*listing.Listing, error) {
	var action string
	switch status {
	case listing.StatusApproved:
		action = "approve"
	case listing.StatusRejected:
		action = "reject"
	default:
		var l listing.Listing
		if err := c.patch(fmt.Sprintf("/api/admin/listings/%d", id), map[string]string{"reviewStatus": string(status)}, &l); err != nil {
			return nil, err
		}
		return &l, nil
	}

	var l listing.Listing
	if err := c.post(fmt.Sprintf("/api/admin/listings/%d/%s", id, action), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteListing removes a listing.
func (c *Client) DeleteListing(id int64) error {
	return c.doDelete(fmt.Sprintf("/api/admin/listings/%d", id))
}

// ListMessages returns contact messages, optionally filtered by status.
func (c *Client) ListMessages(status string) ([]*message.Message, error) {
	path := "/api/admin/messages"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}

	var msgs []*message.Message
	if err := c.get(path, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SetMessageStatus marks a message read or replied.
func (c *Client) SetMessageStatus(id int64, status string) (*message.Message, error) {
	var m message.Message
	if err := c.patch(fmt.Sprintf("/api/admin/messages/%d", id), map[string]string{"status": status}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(id int64) error {
	return c.doDelete(fmt.Sprintf("/api/admin/messages/%d", id))
}

// Stats returns the admin dashboard counters.
func (c *Client) Stats() (*stats.Stats, error) {
	var s stats.Stats
	if err := c.get("/api/admin/stats", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result any) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	_, err = c.send(req, result)
	return err
}

func (c *Client) post(path string, body, result any) error {
	return c.withBody("POST", path, body, result)
}

func (c *Client) patch(path string, body, result any) error {
	return c.withBody("PATCH", path, body, result)
}

// withBody sends a JSON body, if any, and decodes the response.
func (c *Client) withBody(method, path string, body, result any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	_, err = c.send(req, result)
	return err
}

// doDelete performs a DELETE request.
func (c *Client) doDelete(path string) error {
	req, err := http.NewRequest("DELETE", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	_, err = c.send(req, nil)
	return err
}

// send executes a request with the session cookie and turns error
// responses into errors carrying the server's message.
func (c *Client) send(req *http.Request, result any) (*http.Response, error) {
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.session})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return nil, &StatusError{Code: resp.StatusCode, Message: errResp.Message}
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp, nil
}

// StatusError is an error response from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}
