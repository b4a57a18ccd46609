package governance

import (
	"bytes"
	"net/http"
	"time"

	"github.com/sethgrid/pester"

	"agora.network/agora/lib/errors"
)

// Dispatcher performs the payload of a passed proposal. The engine only
// guarantees it is invoked exactly once per proposal through the one-way
// Passed -> Executed transition; what the payload means is the dispatcher's
// business.
type Dispatcher interface {
	Dispatch(*Proposal) error
}

// NopDispatcher acknowledges execution without performing anything; useful
// when the downstream action is applied out-of-band from the audit log.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(p *Proposal) error {
	log.Info("proposal payload dispatched to nop", "proposal-id", p.ID)
	return nil
}

// WebhookDispatcher POSTs the payload to a configured endpoint, with
// retries and backoff.
type WebhookDispatcher struct {
	URL    string
	client *pester.Client
}

func NewWebhookDispatcher(url string) *WebhookDispatcher {
	client := pester.New()
	client.Concurrency = 1
	client.MaxRetries = 3
	client.Backoff = pester.ExponentialBackoff
	client.Timeout = 30 * time.Second

	return &WebhookDispatcher{
		URL:    url,
		client: client,
	}
}

func (d *WebhookDispatcher) Dispatch(p *Proposal) error {
	resp, err := d.client.Post(d.URL, "application/json", bytes.NewReader(p.Payload))
	if err != nil {
		return errors.DispatchFailed.Clone().
			SetData("proposal-id", p.ID).
			SetData("error", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.DispatchFailed.Clone().
			SetData("proposal-id", p.ID).
			SetData("status-code", resp.StatusCode)
	}

	return nil
}
