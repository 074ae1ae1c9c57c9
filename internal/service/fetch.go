package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// FetchService performs the outbound request for the URL-fetch relay.
// The relay is non-authoritative: every failure collapses to an empty
// string, matching its best-effort contract. The client timeout bounds
// how long a slow upstream can hold a request.
type FetchService struct {
	client *http.Client
}

func NewFetchService(timeout time.Duration) *FetchService {
	return &FetchService{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves url and returns the body verbatim. Any failure
// (bad URL, connection error, read error) yields "".
func (s *FetchService) Fetch(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Debug("fetch rejected", "url", url, "error", err)
		return ""
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Debug("fetch failed", "url", url, "error", err)
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("fetch read failed", "url", url, "error", err)
		return ""
	}

	return string(body)
}
