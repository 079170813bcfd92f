package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxProfileSize is the largest profile document we'll download.
// Real profiles are a few kilobytes.
const MaxProfileSize = 4 * 1024 * 1024

// ProfileFetcher downloads profile documents from the web, such as
// the Library of Congress profiles on GitHub.
type ProfileFetcher struct {
	client *http.Client
}

// NewProfileFetcher returns a fetcher whose requests time out after
// timeout.
func NewProfileFetcher(timeout time.Duration) *ProfileFetcher {
	return &ProfileFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the body of the document at url. Any response other
// than 200 comes back as an *HttpError.
func (f *ProfileFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewHttpError("Invalid profile URL", err, http.MethodGet, url, 0)
	}
	req.Header.Set("Accept", "application/json, application/yaml, text/plain")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, NewHttpError("Could not fetch profile", err, http.MethodGet, url, 0)
	}

	// Read the body even on error, or the connection stays open.
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, MaxProfileSize+1))
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("Profile server returned status %d", resp.StatusCode)
		return nil, NewHttpError(msg, nil, http.MethodGet, url, resp.StatusCode)
	}
	if readErr != nil {
		return nil, NewHttpError("Error reading profile", readErr, http.MethodGet, url, resp.StatusCode)
	}
	if len(body) > MaxProfileSize {
		msg := fmt.Sprintf("Profile is larger than %d bytes", MaxProfileSize)
		return nil, NewHttpError(msg, nil, http.MethodGet, url, resp.StatusCode)
	}
	return body, nil
}
