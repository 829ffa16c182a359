// internal/news/indexer.go
package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/database"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

// IndexMapping is the full-text mapping of the news index.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "title":              {"type": "text"},
      "content":            {"type": "text"},
      "url":                {"type": "keyword"},
      "source":             {"type": "keyword"},
      "publishedAt":        {"type": "keyword"},
      "articleType":        {"type": "keyword"},
      "sentiment":          {"type": "keyword"},
      "mentionedBrands":    {"type": "keyword"},
      "mentionedCompanies": {"type": "keyword"},
      "therapeuticAreas":   {"type": "keyword"},
      "topics":             {"type": "keyword"},
      "baseRelevance":      {"type": "float"}
    }
  }
}`

const maxSearchSize = 100

// Indexer keeps a searchable copy of stored articles.
type Indexer struct {
	client *elasticsearch.Client
	index  string
}

func NewIndexer(es *database.ElasticsearchClient) *Indexer {
	return &Indexer{client: es.Client, index: es.Index}
}

// Index upserts one article keyed by its stored id.
func (ix *Indexer) Index(ctx context.Context, article models.NewsArticle) error {
	body, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      ix.index,
		DocumentID: article.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, ix.client)
	if err != nil {
		return fmt.Errorf("index article: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index article failed: %s", res.String())
	}
	return nil
}

// Search runs a full-text query over title and content, restricted to articles that
// mention the brand or were fetched for its therapeutic area.
func (ix *Indexer) Search(ctx context.Context, brand models.Brand, query string, size int) ([]models.NewsArticle, error) {
	if size < 1 || size > maxSearchSize {
		size = 20
	}

	body, err := json.Marshal(buildSearchQuery(brand, query))
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{ix.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, ix.client)
	if err != nil {
		return nil, fmt.Errorf("search news: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.NewsArticle `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]models.NewsArticle, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func buildSearchQuery(brand models.Brand, query string) map[string]interface{} {
	must := []interface{}{}
	if query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "content"},
				"type":   "best_fields",
			},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": must,
				"should": []interface{}{
					map[string]interface{}{"match": map[string]interface{}{"title": brand.Name}},
					map[string]interface{}{"match": map[string]interface{}{"content": brand.Name}},
					map[string]interface{}{"term": map[string]interface{}{"mentionedBrands": brand.Name}},
					map[string]interface{}{"term": map[string]interface{}{"therapeuticAreas": brand.TherapeuticArea}},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"baseRelevance": map[string]interface{}{"order": "desc"}},
		},
	}
}
