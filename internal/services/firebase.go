// Firebase Realtime Database [Source] implementation
//
// Reads collection exports over plain HTTP GET: {base_url}/{collection}.json.
// The legacy database is public for the duration of the migration, so no
// auth token is attached.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/amosley/joinboard/internal/shared"
	"golang.org/x/time/rate"
)

const defaultRequestRate = 5.0

// FirebaseSource implements [Source] against a Firebase Realtime Database
// REST endpoint. Fetches are rate limited client-side; the legacy store is a
// shared remote and the reader never bursts.
type FirebaseSource struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewFirebaseSource creates a new Firebase source for the given base URL.
// A nil client falls back to [http.DefaultClient]; a non-positive requestRate
// falls back to the default of 5 requests per second.
func NewFirebaseSource(baseURL string, client *http.Client, requestRate float64) *FirebaseSource {
	if client == nil {
		client = http.DefaultClient
	}
	if requestRate <= 0 {
		requestRate = defaultRequestRate
	}

	return &FirebaseSource{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(requestRate), 1),
	}
}

// Name returns the source name.
func (f *FirebaseSource) Name() string {
	return "Firebase"
}

// Fetch retrieves one top-level collection keyed by legacy ID.
//
// Network failures and non-2xx responses surface as
// [shared.ErrSourceUnavailable]. A JSON null body, which is how Firebase
// reports an empty collection, returns a nil map and nil error.
func (f *FirebaseSource) Fetch(ctx context.Context, collection string) (map[string]RawRecord, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/%s.json", f.baseURL, collection)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrSourceUnavailable, collection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to read response: %v", shared.ErrSourceUnavailable, collection, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: status %d", shared.ErrSourceUnavailable, collection, resp.StatusCode)
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}

	var records map[string]RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: malformed response: %v", shared.ErrSourceUnavailable, collection, err)
	}

	return records, nil
}
