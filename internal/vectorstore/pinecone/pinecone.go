package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/askdoc/askdoc/internal/pkg/errs"
	"github.com/askdoc/askdoc/internal/vectorstore"
)

const defaultControlURL = "https://api.pinecone.io"

// Client is a minimal REST client to Pinecone. The index host and
// dimension are resolved once from the control plane; data plane calls
// go straight to the index host.
type Client struct {
	apiKey     string
	index      string
	region     string
	controlURL string
	dimension  int
	client     *http.Client

	mu   sync.Mutex
	host string
}

type Config struct {
	APIKey     string
	Index      string
	Region     string
	ControlURL string
	Dimension  int
	Timeout    time.Duration
}

func New(cfg Config) *Client {
	controlURL := strings.TrimRight(cfg.ControlURL, "/")
	if controlURL == "" {
		controlURL = defaultControlURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		index:      cfg.Index,
		region:     cfg.Region,
		controlURL: controlURL,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}
}

type describeIndexResponse struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Host      string `json:"host"`
}

// Ping resolves the index host from the control plane and checks the
// index dimension against the configured embedding dimension.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.resolveHost(ctx)
	return err
}

func (c *Client) resolveHost(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.host != "" {
		return c.host, nil
	}

	url := fmt.Sprintf("%s/indexes/%s", c.controlURL, c.index)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Api-Key", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: index %q not found (region %s)", errs.ErrIndexNotConfigured, c.index, c.region)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("pinecone describe index: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	var out describeIndexResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if c.dimension > 0 && out.Dimension != c.dimension {
		return "", fmt.Errorf("%w: index %q has dimension %d, embeddings have %d",
			errs.ErrIndexNotConfigured, c.index, out.Dimension, c.dimension)
	}
	host := out.Host
	if host != "" && !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}
	c.host = strings.TrimRight(host, "/")
	return c.host, nil
}

type upsertRequest struct {
	Vectors []vectorPayload `json:"vectors"`
}

type vectorPayload struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (c *Client) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}
	host, err := c.resolveHost(ctx)
	if err != nil {
		return err
	}
	body := upsertRequest{Vectors: make([]vectorPayload, 0, len(records))}
	for _, rec := range records {
		body.Vectors = append(body.Vectors, vectorPayload{
			ID:       rec.ID,
			Values:   rec.Vector,
			Metadata: rec.Metadata,
		})
	}
	return c.postJSON(ctx, host+"/vectors/upsert", body, nil)
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string            `json:"id"`
		Score    float32           `json:"score"`
		Metadata map[string]string `json:"metadata"`
	} `json:"matches"`
}

func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	host, err := c.resolveHost(ctx)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 5
	}
	req := queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	}
	var resp queryResponse
	if err := c.postJSON(ctx, host+"/query", req, &resp); err != nil {
		return nil, err
	}
	matches := make([]vectorstore.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, vectorstore.Match{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: m.Metadata,
		})
	}
	return matches, nil
}

func (c *Client) postJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pinecone POST %s failed: %s: %s", url, resp.Status, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
