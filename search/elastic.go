package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticConfig holds the cluster connection settings.
type ElasticConfig struct {
	Addresses []string
	Username  string
	Password  string
}

// ElasticBackend is the Backend implementation for Elasticsearch.
type ElasticBackend struct {
	client *elasticsearch.Client
}

var _ Backend = (*ElasticBackend)(nil)

// NewElasticBackend wraps an existing client.
func NewElasticBackend(client *elasticsearch.Client) *ElasticBackend {
	return &ElasticBackend{client: client}
}

// DialElastic builds a client from cfg.
func DialElastic(cfg ElasticConfig) (*ElasticBackend, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, errors.Wrap(err, "search: create elasticsearch client")
	}
	return NewElasticBackend(client), nil
}

type getResponse struct {
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
	Error  json.RawMessage `json:"error"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Get fetches a document source by id. A 404 for a missing document maps to
// ErrNotFound; a 404 for a missing index is an error.
func (b *ElasticBackend) Get(ctx context.Context, index, id string) (json.RawMessage, error) {
	res, err := b.client.Get(index, id, b.client.Get.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "search: get %s/%s", index, id)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return nil, responseError(res, "get %s/%s", index, id)
	}

	var doc getResponse
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "search: decode get %s/%s", index, id)
	}

	if len(doc.Error) > 0 {
		return nil, errors.Newf("search: get %s/%s: %s", index, id, string(doc.Error))
	}
	if !doc.Found {
		return nil, ErrNotFound
	}
	return doc.Source, nil
}

// Search runs req against index and returns hits in backend order.
func (b *ElasticBackend) Search(ctx context.Context, index string, req Request) (Result, error) {
	body, err := req.Body()
	if err != nil {
		return Result{}, errors.Wrapf(err, "search: encode query for %s", index)
	}

	opts := []func(*esapi.SearchRequest){
		b.client.Search.WithContext(ctx),
		b.client.Search.WithIndex(index),
		b.client.Search.WithBody(bytes.NewReader(body)),
		b.client.Search.WithSize(req.Size),
		b.client.Search.WithFrom(req.From),
	}
	if len(req.Sort) > 0 {
		opts = append(opts, b.client.Search.WithSort(req.Sort...))
	}

	res, err := b.client.Search(opts...)
	if err != nil {
		return Result{}, errors.Wrapf(err, "search: query %s", index)
	}
	defer res.Body.Close()

	if res.IsError() {
		return Result{}, responseError(res, "query %s", index)
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return Result{}, errors.Wrapf(err, "search: decode response for %s", index)
	}

	result := Result{
		Hits:  make([]json.RawMessage, 0, len(parsed.Hits.Hits)),
		Total: parsed.Hits.Total.Value,
	}
	for _, hit := range parsed.Hits.Hits {
		result.Hits = append(result.Hits, hit.Source)
	}
	return result, nil
}

func responseError(res *esapi.Response, format string, args ...any) error {
	payload, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return errors.Newf("search: "+format+": status %d: %s", append(args, res.StatusCode, bytes.TrimSpace(payload))...)
}
