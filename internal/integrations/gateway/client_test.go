package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/higherself/network-server/internal/integrations"
	pkgerrors "github.com/higherself/network-server/pkg/errors"
)

type stubDoer struct {
	status   int
	err      error
	requests []*http.Request
	bodies   []string
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.requests = append(d.requests, req)
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		d.bodies = append(d.bodies, string(raw))
	}
	if d.err != nil {
		return nil, d.err
	}
	return &http.Response{
		StatusCode: d.status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

type stubQueue struct {
	parked []string
}

func (q *stubQueue) EnqueueRetry(ctx context.Context, queue string, payload string) error {
	if queue != QueueName {
		panic("unexpected queue " + queue)
	}
	q.parked = append(q.parked, payload)
	return nil
}

func newTestClient(doer *stubDoer, queue *stubQueue, disabled bool) *Client {
	base := integrations.NewClient(integrations.Params{
		Name:     "gateway",
		BaseURL:  "https://gateway.test",
		APIKey:   "key",
		Disabled: disabled,
		HTTP:     doer,
	})
	var q retryQueue
	if queue != nil {
		q = queue
	}
	c := NewWithBase(base, q, nil)
	c.now = func() time.Time { return time.Date(2025, 2, 5, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestNotifyDeliversWithoutParking(t *testing.T) {
	doer := &stubDoer{status: http.StatusAccepted}
	queue := &stubQueue{}
	c := newTestClient(doer, queue, false)

	err := c.Notify(context.Background(), Notification{
		Channel: "gallery-inbound",
		Subject: "hello",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(queue.parked) != 0 {
		t.Fatalf("successful delivery should not park, got %d", len(queue.parked))
	}
	if len(doer.requests) != 1 {
		t.Fatalf("expected one request got %d", len(doer.requests))
	}
	req := doer.requests[0]
	if req.URL.Path != "/v1/notifications" {
		t.Fatalf("unexpected path %s", req.URL.Path)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer key" {
		t.Fatalf("expected bearer header got %q", got)
	}

	var sent Notification
	if err := json.Unmarshal([]byte(doer.bodies[0]), &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if sent.SentAt.IsZero() {
		t.Fatalf("expected sent_at stamped")
	}
}

func TestNotifyParksOnDeliveryFailure(t *testing.T) {
	doer := &stubDoer{status: http.StatusServiceUnavailable}
	queue := &stubQueue{}
	c := newTestClient(doer, queue, false)

	err := c.Notify(context.Background(), Notification{
		Channel: "wellness-bookings",
		Subject: "booking",
	})
	if err != nil {
		t.Fatalf("delivery failure must not surface on the request path: %v", err)
	}
	if len(queue.parked) != 1 {
		t.Fatalf("expected one parked payload got %d", len(queue.parked))
	}

	var parked Notification
	if err := json.Unmarshal([]byte(queue.parked[0]), &parked); err != nil {
		t.Fatalf("parked payload not valid JSON: %v", err)
	}
	if parked.Channel != "wellness-bookings" {
		t.Fatalf("parked payload lost channel: %+v", parked)
	}
}

func TestNotifyDisabledSkipsParking(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK}
	queue := &stubQueue{}
	c := newTestClient(doer, queue, true)

	if err := c.Notify(context.Background(), Notification{Channel: "x"}); err != nil {
		t.Fatalf("disabled notify should be a no-op: %v", err)
	}
	if len(doer.requests) != 0 {
		t.Fatalf("disabled client must not call out")
	}
	if len(queue.parked) != 0 {
		t.Fatalf("disabled client must not park payloads")
	}
}

func TestDeliverRejectsMalformedPayload(t *testing.T) {
	c := newTestClient(&stubDoer{status: http.StatusOK}, nil, false)

	err := c.Deliver(context.Background(), "{not json")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestDeliverSurfacesFailures(t *testing.T) {
	doer := &stubDoer{status: http.StatusBadGateway}
	c := newTestClient(doer, nil, false)

	raw, _ := json.Marshal(Notification{Channel: "gallery-inbound"})
	err := c.Deliver(context.Background(), string(raw))
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error got %v", err)
	}
}
