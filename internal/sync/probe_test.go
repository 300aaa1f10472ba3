package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbeOnline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	probe := NewProbe(server.URL, time.Second)
	assert.True(t, probe.IsOnline(context.Background()))
}

func TestProbeAnyStatusCountsAsOnline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	probe := NewProbe(server.URL, time.Second)
	assert.True(t, probe.IsOnline(context.Background()))
}

func TestProbeOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	probe := NewProbe(server.URL, time.Second)
	assert.False(t, probe.IsOnline(context.Background()))
}
