package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/logging"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const summaryMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"sessionId": { "type": "keyword" },
			"startTime": { "type": "date" },
			"endTime": { "type": "date" },
			"startingCapital": { "type": "double" },
			"finalCapital": { "type": "double" },
			"profit": { "type": "double" },
			"totalBets": { "type": "integer" },
			"successfulBets": { "type": "integer" },
			"winRate": { "type": "double" },
			"highestMartingale": { "type": "double" },
			"duration": { "type": "long" },
			"results": {
				"properties": {
					"code": { "type": "keyword" },
					"timestamp": { "type": "date" }
				}
			}
		}
	}
}`

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL      string
	Username string
	Password string
	Index    string
	// Transport overrides the HTTP transport, mainly for tests
	Transport http.RoundTripper
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:   "http://localhost:9200",
		Index: "monopoly_sessions",
	}
}

// ElasticsearchRepository implements Repository using Elasticsearch. The
// index is created with an explicit mapping on first use.
type ElasticsearchRepository struct {
	client *elasticsearch.Client
	index  string
	logger *logging.Logger

	mu    sync.Mutex
	ready bool
}

// NewElasticsearchRepository creates a new Elasticsearch repository
func NewElasticsearchRepository(config *ElasticsearchConfig, logger *logging.Logger) (*ElasticsearchRepository, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}
	if logger == nil {
		logger = logging.Default
	}

	// Configure the Elasticsearch client
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	index := config.Index
	if index == "" {
		index = DefaultElasticsearchConfig().Index
	}

	return &ElasticsearchRepository{
		client: client,
		index:  index,
		logger: logger,
	}, nil
}

// ensureIndex creates the summary index if it doesn't exist
func (r *ElasticsearchRepository) ensureIndex(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ready {
		return nil
	}

	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		req := esapi.IndicesCreateRequest{
			Index: r.index,
			Body:  bytes.NewReader([]byte(summaryMapping)),
		}

		res, err := req.Do(ctx, r.client)
		if err != nil {
			return fmt.Errorf("error creating index: %w", err)
		}
		defer res.Body.Close()

		if res.IsError() {
			return fmt.Errorf("error creating index: %s", res.String())
		}
		r.logger.Info("[ARCHIVE] created index %s", r.index)
	} else if res.IsError() {
		return fmt.Errorf("error checking if index exists: %s", res.String())
	}

	r.ready = true
	return nil
}

// IndexSummary implements Repository
func (r *ElasticsearchRepository) IndexSummary(ctx context.Context, summary *entities.SessionSummary) error {
	if err := r.ensureIndex(ctx); err != nil {
		return err
	}

	jsonData, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("error marshaling summary: %w", err)
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(jsonData),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(summary.ID),
		r.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("error indexing summary: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing summary: %s", res.String())
	}

	return nil
}

// ListSummaries implements Repository
func (r *ElasticsearchRepository) ListSummaries(ctx context.Context, limit int) ([]*entities.SessionSummary, error) {
	if err := r.ensureIndex(ctx); err != nil {
		return nil, err
	}

	query := `{
		"query": { "match_all": {} },
		"sort": [
			{ "endTime": { "order": "desc" } }
		]
	}`

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader([]byte(query))),
		r.client.Search.WithSize(normaliseLimit(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching summaries: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching summaries: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing search response: %w", err)
	}

	list := make([]*entities.SessionSummary, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var s entities.SessionSummary
		if err := json.Unmarshal(hit.Source, &s); err != nil {
			// Log the error but continue processing other hits
			r.logger.Warn("[ARCHIVE] skipping unreadable summary: %v", err)
			continue
		}
		list = append(list, &s)
	}

	return list, nil
}

// Close implements Repository
func (r *ElasticsearchRepository) Close() error {
	return nil
}
