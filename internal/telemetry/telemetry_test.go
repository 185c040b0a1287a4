package telemetry_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/ethanolivertroy/dep-inventory/internal/cache"
	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"github.com/ethanolivertroy/dep-inventory/internal/telemetry"
	"github.com/ethanolivertroy/dep-inventory/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)

func sampleDeps() []models.PackageInfo {
	v := version.MustParse("8.8.8")
	return []models.PackageInfo{
		{PackageName: "req-package-1", Installed: true, InstallEnvironment: models.EnvironmentRequired, Version: v},
		{PackageName: "not-installed-req-1", Installed: false, InstallEnvironment: models.EnvironmentRequired},
		{PackageName: "dev-package-1", Installed: true, InstallEnvironment: models.EnvironmentDev, Version: v},
	}
}

func TestNewEvent(t *testing.T) {
	ev := telemetry.NewEvent(sampleDeps(), "ctx-123", fixedTime)

	body, err := telemetry.Marshal(ev)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "data_context.__init__", doc["event"])
	assert.Equal(t, "1.0.0", doc["version"])
	assert.Equal(t, "2026-10-19T12:30:00.000Z", doc["event_time"])
	assert.Equal(t, telemetry.Anonymize("ctx-123"), doc["data_context_id"])
	assert.NotEqual(t, "ctx-123", doc["data_context_id"])

	deps := doc["event_payload"].(map[string]any)["anonymized_execution_environment"].(map[string]any)["dependencies"].([]any)
	require.Len(t, deps, 3)
	assert.Equal(t, map[string]any{
		"package_name":        "req-package-1",
		"installed":           true,
		"install_environment": "required",
		"version":             "8.8.8",
	}, deps[0])
	assert.Equal(t, map[string]any{
		"package_name":        "not-installed-req-1",
		"installed":           false,
		"install_environment": "required",
		"version":             nil,
	}, deps[1])
	assert.Equal(t, "dev", deps[2].(map[string]any)["install_environment"])
}

func TestAnonymize(t *testing.T) {
	a := telemetry.Anonymize("ctx-123")
	assert.Len(t, a, 16)
	assert.Equal(t, a, telemetry.Anonymize("ctx-123"))
	assert.NotEqual(t, a, telemetry.Anonymize("ctx-124"))

	for i := range 200 {
		value := fmt.Sprintf("ctx-%d", i)
		got := telemetry.Anonymize(value)
		assert.Regexp(t, `^[0-9a-f]{16}$`, got)
		assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64String("dep-inventory"+value)), got)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{`},
		{"wrong event", `{"event":"other","event_payload":{"anonymized_execution_environment":{"dependencies":[]}},"event_time":"x","data_context_id":"0123456789abcdef","data_context_instance_id":"0123456789abcdef","version":"1.0.0"}`},
		{"missing payload", `{"event":"data_context.__init__","event_time":"x","data_context_id":"0123456789abcdef","data_context_instance_id":"0123456789abcdef","version":"1.0.0"}`},
		{"installed without version", `{"event":"data_context.__init__","event_payload":{"anonymized_execution_environment":{"dependencies":[{"package_name":"a","installed":true,"install_environment":"dev","version":null}]}},"event_time":"x","data_context_id":"0123456789abcdef","data_context_instance_id":"0123456789abcdef","version":"1.0.0"}`},
		{"bad environment", `{"event":"data_context.__init__","event_payload":{"anonymized_execution_environment":{"dependencies":[{"package_name":"a","installed":false,"install_environment":"prod","version":null}]}},"event_time":"x","data_context_id":"0123456789abcdef","data_context_instance_id":"0123456789abcdef","version":"1.0.0"}`},
		{"raw context id", `{"event":"data_context.__init__","event_payload":{"anonymized_execution_environment":{"dependencies":[]}},"event_time":"x","data_context_id":"ctx-123","data_context_instance_id":"0123456789abcdef","version":"1.0.0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := telemetry.Validate([]byte(tt.payload))
			assert.ErrorIs(t, err, telemetry.ErrInvalidEvent)
		})
	}
}

func TestEmitter_Emit(t *testing.T) {
	var hits atomic.Int32
	received := make(chan []byte, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		received <- body
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := cache.NewAt(t.TempDir(), time.Hour)
	require.NoError(t, err)
	e := telemetry.NewEmitter(srv.URL, 5*time.Second, telemetry.WithCache(c))

	sent, err := e.Emit(context.Background(), telemetry.NewEvent(sampleDeps(), "ctx-123", fixedTime))
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, int32(1), hits.Load())
	require.NoError(t, telemetry.Validate(<-received))

	// Same inventory later in the TTL is not resent.
	sent, err = e.Emit(context.Background(), telemetry.NewEvent(sampleDeps(), "ctx-123", fixedTime.Add(time.Minute)))
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, int32(1), hits.Load())

	sent, err = e.Emit(context.Background(), telemetry.NewEvent(sampleDeps()[:1], "ctx-123", fixedTime))
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, int32(2), hits.Load())
}

func TestEmitter_ErrorStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := cache.NewAt(t.TempDir(), time.Hour)
	require.NoError(t, err)
	e := telemetry.NewEmitter(srv.URL, 5*time.Second, telemetry.WithCache(c))
	ev := telemetry.NewEvent(sampleDeps(), "ctx-123", fixedTime)

	_, err = e.Emit(context.Background(), ev)
	assert.ErrorIs(t, err, telemetry.ErrUnexpectedStatus)
	assert.Equal(t, int32(1), hits.Load())

	// Failed sends are not recorded, so the next call tries again.
	_, ok := c.Get(telemetry.Fingerprint(ev))
	assert.False(t, ok)
}

func TestEmitter_NoEndpoint(t *testing.T) {
	e := telemetry.NewEmitter("", time.Second)
	_, err := e.Emit(context.Background(), telemetry.NewEvent(nil, "ctx", fixedTime))
	assert.ErrorIs(t, err, telemetry.ErrNoEndpoint)
}

func TestEmitter_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	e := telemetry.NewEmitter(srv.URL, 50*time.Millisecond)
	_, err := e.Emit(context.Background(), telemetry.NewEvent(sampleDeps(), "ctx", fixedTime))
	assert.Error(t, err)
}
