package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const registryContentType = "application/vnd.schemaregistry.v1+json"

// RegistryError is a non-2xx answer from the schema registry.
type RegistryError struct {
	StatusCode int
	Body       string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("schema registry: status %d: %s", e.StatusCode, e.Body)
}

// SchemaRegistryClient registers the outbox JSON schemas with a Confluent
// compatible registry and resolves their ids.
type SchemaRegistryClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSchemaRegistryClient constructs a client with a 10 second timeout.
func NewSchemaRegistryClient(baseURL string) *SchemaRegistryClient {
	return &SchemaRegistryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// EnsureSchema returns the id of the latest version of subject, registering
// schema first when the subject does not exist yet.
func (c *SchemaRegistryClient) EnsureSchema(ctx context.Context, subject string, schema string) (int, error) {
	id, err := c.call(ctx, http.MethodGet, c.subjectURL(subject, "latest"), nil)
	var regErr *RegistryError
	if errors.As(err, &regErr) && regErr.StatusCode == http.StatusNotFound {
		body, err := json.Marshal(map[string]string{"schemaType": "JSON", "schema": schema})
		if err != nil {
			return 0, err
		}
		return c.call(ctx, http.MethodPost, c.subjectURL(subject, ""), body)
	}
	return id, err
}

func (c *SchemaRegistryClient) subjectURL(subject, version string) string {
	u := c.baseURL + "/subjects/" + url.PathEscape(subject) + "/versions"
	if version != "" {
		u += "/" + version
	}
	return u
}

// call sends one request and decodes the {"id": n} answer both endpoints share.
func (c *SchemaRegistryClient) call(ctx context.Context, method, target string, body []byte) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", registryContentType)
	}
	req.Header.Set("Accept", registryContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, &RegistryError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var payload struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode schema registry response: %w", err)
	}
	return payload.ID, nil
}
