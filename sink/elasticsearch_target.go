package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/metrics"
)

// ElasticsearchTarget indexes every Data record as a document. Each record
// is wrapped as {"message": "<record>"} and given a fresh document ID;
// records are opaque bytes to loghaul, so no richer document shape is
// assumed.
type ElasticsearchTarget struct {
	client *elasticsearch.Client
	index  string
	ctx    context.Context
}

// NewElasticsearchTarget builds an ElasticsearchTarget that indexes into
// index using client.
func NewElasticsearchTarget(client *elasticsearch.Client, index string) *ElasticsearchTarget {
	return &ElasticsearchTarget{client: client, index: index, ctx: context.Background()}
}

// Consume implements loghaul.Target. NoData and EOF tags are ignored.
func (t *ElasticsearchTarget) Consume(entry loghaul.StreamEntry, data []byte) error {
	if entry != loghaul.StreamEntryData {
		return nil
	}
	body := bytes.NewBufferString(fmt.Sprintf(`{"message":%q}`, string(data)))
	req := esapi.IndexRequest{
		Index:      t.index,
		DocumentID: uuid.NewString(),
		Body:       body,
		Refresh:    "false",
	}
	res, err := req.Do(t.ctx, t.client)
	if err != nil {
		metrics.LogErrors.WithLabelValues(t.index).Inc()
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		metrics.LogErrors.WithLabelValues(t.index).Inc()
		return fmt.Errorf("sink: elasticsearch index failed: %s", res.String())
	}
	metrics.LogLines.WithLabelValues(t.index).Inc()
	return nil
}
