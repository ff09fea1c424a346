package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joyfeed/internal/metrics"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Good News Wire</title>
    <item>
      <title>Volunteers rebuild playground</title>
      <link>https://example.org/playground</link>
    </item>
    <item>
      <title>Rescued owl returns to the wild</title>
      <link>https://example.org/owl</link>
    </item>
  </channel>
</rss>`

func TestFetch_ParsesFeed(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := New(time.Second, metrics.New())
	res := f.Fetch(context.Background(), srv.URL)

	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, "Good News Wire", res.FeedTitle)
	assert.Len(t, res.Entries(), 2)
	assert.Equal(t, "Volunteers rebuild playground", res.Items[0].Title)
	assert.Equal(t, UserAgent, gotUA)
}

func TestFetch_NonOKStatusIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(time.Second, metrics.New())
	res := f.Fetch(context.Background(), srv.URL)

	assert.Equal(t, StatusFetchError, res.Status)
	assert.Error(t, res.Err)
	assert.Nil(t, res.Entries())
}

func TestFetch_SlowFeedTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	f := New(50*time.Millisecond, metrics.New())
	start := time.Now()
	res := f.Fetch(context.Background(), srv.URL)

	assert.Equal(t, StatusTimeout, res.Status)
	assert.Error(t, res.Err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetch_InvalidDocumentIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer srv.Close()

	f := New(time.Second, metrics.New())
	res := f.Fetch(context.Background(), srv.URL)

	assert.Equal(t, StatusParseError, res.Status)
	assert.Nil(t, res.Entries())
}

func TestFetch_UnreachableHost(t *testing.T) {
	f := New(time.Second, metrics.New())

	res := f.Fetch(context.Background(), "http://127.0.0.1:1/feed")

	assert.Equal(t, StatusFetchError, res.Status)
	assert.Error(t, res.Err)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "timeout", StatusTimeout.String())
	assert.Equal(t, "fetch_error", StatusFetchError.String())
	assert.Equal(t, "parse_error", StatusParseError.String())
}
