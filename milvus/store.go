// Package milvus provides a civsearch.VectorStore backed by the Milvus
// RESTful v2 API. One Milvus collection exists per index name; all
// collections share the same schema.
package milvus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/civsearch/civsearch"
)

// DefaultBaseURL matches a local standalone Milvus deployment.
const DefaultBaseURL = "http://localhost:19530"

// DefaultTimeout bounds one API round-trip.
const DefaultTimeout = 30 * time.Second

// sectionScanLimit caps the entity scan used to enumerate sections.
const sectionScanLimit = 16384

var _ civsearch.VectorStore = (*Store)(nil)

// Store is a minimal REST client to Milvus. It is stateless and safe for
// concurrent use.
type Store struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option configures a Store.
type Option func(*Store)

// WithBaseURL overrides the Milvus server URL.
func WithBaseURL(url string) Option {
	return func(s *Store) { s.baseURL = url }
}

// WithToken sets the authorization token (user:password or API key).
func WithToken(token string) Option {
	return func(s *Store) { s.token = token }
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) { s.client = client }
}

// NewStore creates a new Store with defaults.
func NewStore(opts ...Option) *Store {
	s := &Store{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: DefaultTimeout}
	}
	return s
}

// EnsureIndex creates and loads the collection for name if it does not
// already exist.
func (s *Store) EnsureIndex(ctx context.Context, name string) error {
	var has struct {
		Has bool `json:"has"`
	}
	if err := s.post(ctx, "/v2/vectordb/collections/has", map[string]any{
		"collectionName": name,
	}, &has); err != nil {
		return civsearch.Errorf(civsearch.EUNAVAILABLE, "milvus unreachable: %v", err)
	}

	if !has.Has {
		create := map[string]any{
			"collectionName": name,
			"schema": map[string]any{
				"autoID":             true,
				"enableDynamicField": false,
				"fields": []map[string]any{
					{"fieldName": "id", "dataType": "Int64", "isPrimary": true},
					{"fieldName": "embedding", "dataType": "FloatVector",
						"elementTypeParams": map[string]any{"dim": fmt.Sprint(civsearch.EmbeddingDim)}},
					{"fieldName": "text", "dataType": "VarChar",
						"elementTypeParams": map[string]any{"max_length": "16384"}},
					{"fieldName": "url", "dataType": "VarChar",
						"elementTypeParams": map[string]any{"max_length": "512"}},
					{"fieldName": "date", "dataType": "VarChar",
						"elementTypeParams": map[string]any{"max_length": "64"}},
					{"fieldName": "section", "dataType": "VarChar",
						"elementTypeParams": map[string]any{"max_length": "256"}},
				},
			},
			"indexParams": []map[string]any{
				{"fieldName": "embedding", "indexName": "embedding_idx", "metricType": "L2"},
			},
		}
		if err := s.post(ctx, "/v2/vectordb/collections/create", create, nil); err != nil {
			return civsearch.Errorf(civsearch.EUNAVAILABLE, "creating collection %q: %v", name, err)
		}
	}

	if err := s.post(ctx, "/v2/vectordb/collections/load", map[string]any{
		"collectionName": name,
	}, nil); err != nil {
		return civsearch.Errorf(civsearch.EUNAVAILABLE, "loading collection %q: %v", name, err)
	}

	return nil
}

// Insert writes entries into the named index as one batch.
func (s *Store) Insert(ctx context.Context, name string, entries []civsearch.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	data := make([]map[string]any, len(entries))
	for i, e := range entries {
		data[i] = map[string]any{
			"embedding": e.Embedding,
			"text":      e.Text,
			"url":       e.URL,
			"date":      e.Date,
			"section":   e.Section,
		}
	}

	return s.post(ctx, "/v2/vectordb/entities/insert", map[string]any{
		"collectionName": name,
		"data":           data,
	}, nil)
}

// Search returns the topK entries nearest to vector, optionally restricted
// to one section.
func (s *Store) Search(ctx context.Context, name string, vector []float32, topK int, section string) ([]civsearch.SearchMatch, error) {
	if topK <= 0 {
		topK = 5
	}

	payload := map[string]any{
		"collectionName": name,
		"data":           [][]float32{vector},
		"annsField":      "embedding",
		"limit":          topK,
		"outputFields":   []string{"text", "url", "date", "section"},
	}
	if section != "" {
		payload["filter"] = fmt.Sprintf("section == %q", section)
	}

	var hits []struct {
		Distance float64 `json:"distance"`
		Text     string  `json:"text"`
		URL      string  `json:"url"`
		Date     string  `json:"date"`
		Section  string  `json:"section"`
	}
	if err := s.post(ctx, "/v2/vectordb/entities/search", payload, &hits); err != nil {
		return nil, err
	}

	matches := make([]civsearch.SearchMatch, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, civsearch.SearchMatch{
			Text:    h.Text,
			URL:     h.URL,
			Date:    h.Date,
			Section: h.Section,
			Score:   h.Distance,
		})
	}
	return matches, nil
}

// Sections returns the distinct non-empty section values present in the
// index, sorted. The scan is bounded; very large collections should keep a
// separate section registry instead.
func (s *Store) Sections(ctx context.Context, name string) ([]string, error) {
	var rows []struct {
		Section string `json:"section"`
	}
	if err := s.post(ctx, "/v2/vectordb/entities/query", map[string]any{
		"collectionName": name,
		"filter":         `section != ""`,
		"outputFields":   []string{"section"},
		"limit":          sectionScanLimit,
	}, &rows); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var sections []string
	for _, row := range rows {
		if row.Section == "" || seen[row.Section] {
			continue
		}
		seen[row.Section] = true
		sections = append(sections, row.Section)
	}
	sort.Strings(sections)
	return sections, nil
}

// post sends a JSON request and decodes the envelope's data field into out.
// Milvus wraps every response in {"code": 0, "data": ...}; a non-zero code
// carries a message instead of data.
func (s *Store) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("milvus POST %s: HTTP %d", path, resp.StatusCode)
	}

	var envelope struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding milvus response: %w", err)
	}
	if envelope.Code != 0 {
		return fmt.Errorf("milvus POST %s: code %d: %s", path, envelope.Code, envelope.Message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decoding milvus data: %w", err)
		}
	}
	return nil
}
