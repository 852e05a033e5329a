package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/angewomoon/masetero/internal/codec"
)

// Client talks to the remote tree over its REST surface.
//
// Paths map onto URLs the way RTDB-style stores expose them: the children of
// "plants" live at {base}/plants.json and a single document at
// {base}/plants/{id}.json. An optional auth token is passed as a query
// parameter on every request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *log.Logger
}

// NewClient creates a remote client for the tree rooted at baseURL.
//
// token may be empty for trees that allow unauthenticated access. If logger
// is nil, a default logger writing to stderr is used. The supplied
// http.Client controls transport-level timeouts; pass nil for a default
// client (per-call deadlines then come only from the caller's context).
func NewClient(baseURL, token string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[remote] ", log.LstdFlags)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		logger:  logger,
	}
}

// Write implements Store.Write with a create-or-replace PUT.
func (c *Client) Write(ctx context.Context, path, id string, fields codec.FieldMap) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", path, id, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.docURL(path, id), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", path, id, wrapTimeout(ctx, err))
	}
	defer resp.Body.Close()

	// Drain before any return so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote rejected write to %s/%s: %s", path, id, resp.Status)
	}
	return nil
}

// ReadChildrenOnce implements Store.ReadChildrenOnce with a single GET of
// the whole path.
func (c *Client) ReadChildrenOnce(ctx context.Context, path string) ([]Child, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pathURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build read request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, wrapTimeout(ctx, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote rejected read of %s: %s", path, resp.Status)
	}

	// Decode with UseNumber so the codec sees numbers undistorted; the
	// remote does not distinguish 18 from 18.0.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var tree map[string]codec.FieldMap
	if err := dec.Decode(&tree); err != nil {
		// An empty path serializes as the JSON literal null, which decodes
		// into a nil map without error; anything else is malformed.
		return nil, fmt.Errorf("failed to decode children of %s: %w", path, err)
	}
	if len(tree) == 0 {
		return nil, nil
	}

	children := make([]Child, 0, len(tree))
	for id, fields := range tree {
		children = append(children, Child{ID: id, Fields: fields})
	}
	// Map iteration order is random; keep snapshots deterministic.
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })

	c.logger.Printf("Read %d children from %s", len(children), path)
	return children, nil
}

// CountChildren returns the number of documents under path.
func (c *Client) CountChildren(ctx context.Context, path string) (int, error) {
	children, err := c.ReadChildrenOnce(ctx, path)
	if err != nil {
		return 0, err
	}
	return len(children), nil
}

func (c *Client) pathURL(path string) string {
	u := c.baseURL + "/" + strings.Trim(path, "/") + ".json"
	if c.token != "" {
		u += "?auth=" + url.QueryEscape(c.token)
	}
	return u
}

func (c *Client) docURL(path, id string) string {
	return c.pathURL(strings.Trim(path, "/") + "/" + id)
}

// wrapTimeout folds a context deadline expiry into ErrTimeout so callers
// can branch on it without inspecting transport errors.
func wrapTimeout(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
