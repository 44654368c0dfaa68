package remotesync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

// ErrUnexpectedStatus is returned when the remote endpoint answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected sync status")

const maxResponseBytes = 8 << 20

// Client pushes learner snapshots to a remote endpoint with POST and pulls them back with GET.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the given endpoint URL.
func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse sync url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse sync url: unsupported scheme %q", u.Scheme)
	}

	return &Client{
		endpoint: u.String(),
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// Push sends the payload as a JSON body.
func (c *Client) Push(ctx context.Context, learnerID int64, payload *entities.SyncPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.urlFor(learnerID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}

// Pull fetches the learner's remote profile. It returns nil without error
// when the remote has nothing stored for the learner.
func (c *Client) Pull(ctx context.Context, learnerID int64) (*entities.LearnerProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.urlFor(learnerID), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("pull: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}

	var profile entities.LearnerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	return &profile, nil
}

func (c *Client) urlFor(learnerID int64) string {
	u, _ := url.Parse(c.endpoint)
	q := u.Query()
	q.Set("learner", strconv.FormatInt(learnerID, 10))
	u.RawQuery = q.Encode()
	return u.String()
}
