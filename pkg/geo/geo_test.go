package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","city":"Istanbul","country":"Turkey"}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL)
	defer r.Close()

	assert.Equal(t, "Istanbul, Turkey", r.Lookup(context.Background(), "1.2.3.4"))
}

func TestLookupFailStatusReturnsUnknown(t *testing.T) {
	// ip-api private IP'lerde status=fail döner
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL)
	defer r.Close()

	assert.Equal(t, "unknown", r.Lookup(context.Background(), "192.168.1.1"))
}

func TestLookupMalformedBodyReturnsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL)
	defer r.Close()

	assert.Equal(t, "unknown", r.Lookup(context.Background(), "1.2.3.4"))
}

func TestLookupServerDownReturnsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // kapalı server → bağlantı hatası

	r := NewResolver(srv.URL)
	defer r.Close()

	assert.Equal(t, "unknown", r.Lookup(context.Background(), "1.2.3.4"))
}

func TestLookupCancelledContextReturnsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","city":"Istanbul","country":"Turkey"}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "unknown", r.Lookup(ctx, "1.2.3.4"))
}

func TestLookupCachesResults(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"status":"success","city":"Karachi","country":"Pakistan"}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL)
	defer r.Close()

	assert.Equal(t, "Karachi, Pakistan", r.Lookup(context.Background(), "5.6.7.8"))
	assert.Equal(t, "Karachi, Pakistan", r.Lookup(context.Background(), "5.6.7.8"))
	assert.Equal(t, int32(1), hits.Load(), "second lookup must be served from cache")
}

func TestLookupEmptyIPReturnsUnknown(t *testing.T) {
	r := NewResolver("http://example.invalid")
	defer r.Close()

	assert.Equal(t, "unknown", r.Lookup(context.Background(), ""))
}
