package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"
)

// ProductIndexer mirrors catalog events into the Elasticsearch products index.
type ProductIndexer struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewProductIndexer(es *elasticsearch.Client, index string, logger *logrus.Logger) *ProductIndexer {
	return &ProductIndexer{ES: es, Index: index, Logger: logger}
}

var errIndexResponse = errors.New("elasticsearch returned an error response")

// Apply indexes or removes the product carried by ev.
func (ix *ProductIndexer) Apply(ctx context.Context, ev ProductEvent) error {
	if ix.ES == nil || ix.Index == "" {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		res *esapi.Response
		err error
	)
	switch ev.Type {
	case ProductDeleted:
		req := esapi.DeleteRequest{Index: ix.Index, DocumentID: ev.Product.ID, Refresh: "false"}
		res, err = req.Do(c, ix.ES)
	default:
		b, _ := json.Marshal(ev.Product)
		req := esapi.IndexRequest{Index: ix.Index, DocumentID: ev.Product.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
		res, err = req.Do(c, ix.ES)
	}
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	// deleting a document that was never indexed is fine
	if res.IsError() && !(ev.Type == ProductDeleted && res.StatusCode == 404) {
		if ix.Logger != nil {
			ix.Logger.WithField("status", res.Status()).WithField("product_id", ev.Product.ID).Warn("es index response error")
		}
		return errIndexResponse
	}
	return nil
}

// Search performs a multi_match over name, brand and category. It is a
// convenience lookup outside the filter engine and ignores seller blacklists.
func (s *Service) Search(ctx context.Context, q string, size int) ([]ProductDTO, error) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return []ProductDTO{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^3", "brand^2", "category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESProductsIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		s.log().WithError(err).Warn("es search failed")
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, errIndexResponse
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source ProductDTO `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]ProductDTO, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
