package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFetchReturnsBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("upstream says hi"))
	}))
	defer upstream.Close()

	svc := NewFetchService(5 * time.Second)
	body := svc.Fetch(context.Background(), upstream.URL)
	assert.Equal(t, "upstream says hi", body)
}

func TestFetchCollapsesFailuresToEmpty(t *testing.T) {
	svc := NewFetchService(5 * time.Second)

	assert.Empty(t, svc.Fetch(context.Background(), "://not-a-url"))
	assert.Empty(t, svc.Fetch(context.Background(), "http://127.0.0.1:1"))
}

func TestFetchHonorsTimeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer upstream.Close()

	svc := NewFetchService(50 * time.Millisecond)

	start := time.Now()
	body := svc.Fetch(context.Background(), upstream.URL)
	assert.Empty(t, body)
	assert.Less(t, time.Since(start), time.Second)
}
