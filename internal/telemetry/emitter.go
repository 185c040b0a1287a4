package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ethanolivertroy/dep-inventory/internal/cache"
	"github.com/ethanolivertroy/dep-inventory/internal/logger"
	"go.trai.ch/zerr"
)

var (
	// ErrNoEndpoint is returned by Emit when no endpoint is configured.
	ErrNoEndpoint = zerr.New("no usage statistics endpoint configured")

	// ErrUnexpectedStatus is returned for a non-2xx response.
	ErrUnexpectedStatus = zerr.New("unexpected response status")
)

// Emitter posts usage events to the statistics endpoint
type Emitter struct {
	endpoint   string
	httpClient *http.Client
	cache      *cache.Cache
	log        logger.Logger
}

// EmitterOption configures an Emitter
type EmitterOption func(*Emitter)

// WithCache skips events whose fingerprint was sent within the cache TTL
func WithCache(c *cache.Cache) EmitterOption {
	return func(e *Emitter) {
		e.cache = c
	}
}

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) EmitterOption {
	return func(e *Emitter) {
		e.httpClient = c
	}
}

// WithLogger sets the emitter's logger
func WithLogger(l logger.Logger) EmitterOption {
	return func(e *Emitter) {
		e.log = l
	}
}

// NewEmitter creates an emitter for endpoint with the given request timeout
func NewEmitter(endpoint string, timeout time.Duration, opts ...EmitterOption) *Emitter {
	e := &Emitter{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Marshal encodes ev and validates it against the usage schema
func Marshal(ev *Event) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode usage event")
	}
	if err := Validate(body); err != nil {
		return nil, err
	}
	return body, nil
}

// Fingerprint identifies an event independently of its send time
func Fingerprint(ev *Event) string {
	key, _ := json.Marshal(struct {
		Event         string  `json:"event"`
		Payload       Payload `json:"event_payload"`
		DataContextID string  `json:"data_context_id"`
	}{ev.Event, ev.EventPayload, ev.DataContextID})
	return cache.Key(key)
}

// Emit validates and posts ev once. It reports false without sending when an
// identical event was already sent within the cache TTL.
func (e *Emitter) Emit(ctx context.Context, ev *Event) (bool, error) {
	if e.endpoint == "" {
		return false, ErrNoEndpoint
	}

	body, err := Marshal(ev)
	if err != nil {
		return false, err
	}

	fingerprint := Fingerprint(ev)
	if e.cache != nil {
		if _, ok := e.cache.Get(fingerprint); ok {
			e.log.Debug("usage event already sent", "fingerprint", fingerprint)
			return false, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to create request"), "endpoint", e.endpoint)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to send usage event"), "endpoint", e.endpoint)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := zerr.With(zerr.Wrap(ErrUnexpectedStatus, "usage endpoint rejected event"), "status", resp.StatusCode)
		return false, zerr.With(err, "endpoint", e.endpoint)
	}

	if e.cache != nil {
		if err := e.cache.Set(fingerprint, body); err != nil {
			e.log.Warn("failed to record sent usage event", "error", err.Error())
		}
	}
	e.log.Debug("usage event sent", "endpoint", e.endpoint, "dependencies", len(ev.EventPayload.AnonymizedExecutionEnvironment.Dependencies))
	return true, nil
}
