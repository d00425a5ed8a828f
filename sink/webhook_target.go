package sink

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/metrics"
)

// WebhookTarget POSTs every Data record to an HTTP endpoint, with
// retry/backoff on transient failures.
type WebhookTarget struct {
	url    string
	client *retryablehttp.Client
}

// NewWebhookTarget builds a WebhookTarget that POSTs to url using a
// cleanhttp-backed retryable client. Its own retry logging is silenced
// (its Logger is nil) since failures surface through the returned error and the
// caller's KeeperLog, not a second parallel logger.
func NewWebhookTarget(url string) *WebhookTarget {
	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultClient()
	client.Logger = nil
	return &WebhookTarget{url: url, client: client}
}

// Consume implements loghaul.Target. NoData and EOF tags are ignored.
func (t *WebhookTarget) Consume(entry loghaul.StreamEntry, data []byte) error {
	if entry != loghaul.StreamEntryData {
		return nil
	}
	req, err := retryablehttp.NewRequest(http.MethodPost, t.url, bytes.NewReader(data))
	if err != nil {
		metrics.LogErrors.WithLabelValues(t.url).Inc()
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	res, err := t.client.Do(req)
	if err != nil {
		metrics.LogErrors.WithLabelValues(t.url).Inc()
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		metrics.LogErrors.WithLabelValues(t.url).Inc()
		return fmt.Errorf("sink: webhook POST to %s failed: %s", t.url, res.Status)
	}
	metrics.LogLines.WithLabelValues(t.url).Inc()
	return nil
}
