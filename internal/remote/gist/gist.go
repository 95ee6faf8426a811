// Package gist keeps the remote snapshot in a private GitHub gist.
package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/remote"
)

const (
	DefaultBaseURL = "https://api.github.com"

	FileName    = "accounting-data.json"
	Description = "智能记账数据备份"
)

// Client creates the gist on the first Put and remembers its id in the
// local kv store under kv.KeyGistID.
type Client struct {
	baseURL string
	token   string
	ids     kv.Store
	client  *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func New(token string, ids kv.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		ids:     ids,
		client:  &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type gistFile struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
}

type gistBody struct {
	ID          string              `json:"id,omitempty"`
	Description string              `json:"description,omitempty"`
	Public      *bool               `json:"public,omitempty"`
	Files       map[string]gistFile `json:"files"`
}

type statusError struct {
	op   string
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.op, e.code)
}

func (c *Client) gistID(ctx context.Context) (string, error) {
	id, err := c.ids.Get(ctx, kv.KeyGistID)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("reading gist id: %w", err)
	}

	return id, nil
}

func (c *Client) Fetch(ctx context.Context) (*remote.Snapshot, error) {
	id, err := c.gistID(ctx)
	if err != nil {
		return nil, err
	}

	if id == "" {
		return nil, remote.ErrNoSnapshot
	}

	var body gistBody
	if err := c.do(ctx, http.MethodGet, "/gists/"+id, nil, &body); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			// The gist was deleted upstream; the next Put creates a new one.
			slog.Warn("gist not found, forgetting id", "gist_id", id)

			if err := c.ids.Delete(ctx, kv.KeyGistID); err != nil {
				return nil, fmt.Errorf("forgetting gist id: %w", err)
			}

			return nil, remote.ErrNoSnapshot
		}

		return nil, err
	}

	file, ok := body.Files[FileName]
	if !ok {
		return nil, remote.ErrNoSnapshot
	}

	content := file.Content
	if file.Truncated && file.RawURL != "" {
		content, err = c.raw(ctx, file.RawURL)
		if err != nil {
			return nil, err
		}
	}

	return remote.Decode([]byte(content))
}

func (c *Client) Put(ctx context.Context, snap *remote.Snapshot) error {
	content, err := remote.Encode(snap)
	if err != nil {
		return err
	}

	id, err := c.gistID(ctx)
	if err != nil {
		return err
	}

	files := map[string]gistFile{FileName: {Content: string(content)}}

	if id != "" {
		return c.do(ctx, http.MethodPatch, "/gists/"+id, gistBody{Files: files}, nil)
	}

	var created gistBody

	req := gistBody{
		Description: Description,
		Public:      new(false),
		Files:       files,
	}
	if err := c.do(ctx, http.MethodPost, "/gists", req, &created); err != nil {
		return err
	}

	if created.ID == "" {
		return errors.New("creating gist: response has no id")
	}

	if err := c.ids.Put(ctx, kv.KeyGistID, created.ID); err != nil {
		return fmt.Errorf("saving gist id: %w", err)
	}

	slog.Info("created gist", "gist_id", created.ID)

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path

	var body io.Reader

	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding body: %w", op, err)
		}

		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{op: op, code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}

	return nil
}

func (c *Client) raw(ctx context.Context, url string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching raw gist file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{op: "GET raw file", code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading raw gist file: %w", err)
	}

	return string(data), nil
}
