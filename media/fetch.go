package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// sniffLimit is how much of the payload is read to verify its content.
// mimetype never needs more than a few KB.
const sniffLimit = 8192

// sharedClient is reused across fetchers so connections are pooled.
var sharedClient = &http.Client{
	Timeout: 15 * time.Second,
}

// Fetcher establishes media readiness over HTTP: it fetches the entry's
// cheapest URL, verifies the payload matches the entry's declared type, and
// retries transient failures with capped exponential backoff. It implements
// the feed engine's MediaLoader contract.
type Fetcher struct {
	client *http.Client
	log    zerolog.Logger

	// maxRetries bounds the transient-failure retries per load.
	maxRetries uint64
}

// NewFetcher creates a Fetcher with the shared HTTP client.
func NewFetcher(log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:     sharedClient,
		log:        log,
		maxRetries: 2,
	}
}

// Load checks the entry asynchronously and reports the outcome through
// done, which is invoked exactly once from a fetcher goroutine.
func (f *Fetcher) Load(ctx context.Context, entry Entry, done func(err error)) {
	go func() {
		err := f.fetch(ctx, entry)
		if err != nil && !errors.Is(err, context.Canceled) {
			f.log.Debug().Err(err).Str("url", entry.PrefetchURL()).Msg("media prefetch failed")
		}
		done(err)
	}()
}

func (f *Fetcher) fetch(ctx context.Context, entry Entry) error {
	url := entry.PrefetchURL()
	if url == "" {
		return fmt.Errorf("media entry %s has no URL", entry.ID)
	}

	backoff := retry.WithCappedDuration(2*time.Second,
		retry.WithMaxRetries(f.maxRetries, retry.NewExponential(150*time.Millisecond)))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			// Network errors are worth retrying; context errors are not.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return retry.RetryableError(fmt.Errorf("fetching %s: %w", url, err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			io.Copy(io.Discard, io.LimitReader(resp.Body, sniffLimit))
			return retry.RetryableError(fmt.Errorf("fetching %s: status %d", url, resp.StatusCode))
		case resp.StatusCode >= 400:
			return fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
		}

		return verifyPayload(entry, resp.Body)
	})
}

// verifyPayload sniffs the response body and checks it against the entry's
// declared type. Embedded videos resolve to provider HTML, so only photos
// and direct videos are content-checked.
func verifyPayload(entry Entry, body io.Reader) error {
	if entry.Type == TypeEmbeddedVideo {
		return nil
	}

	head, err := io.ReadAll(io.LimitReader(body, sniffLimit))
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}
	mtype := mimetype.Detect(head)

	switch entry.Type {
	case TypePhoto:
		if !strings.HasPrefix(mtype.String(), "image/") {
			return fmt.Errorf("expected image payload, got %s", mtype.String())
		}
	case TypeVideo:
		// A video entry's prefetch URL may point at its poster image,
		// so both image and video payloads count as ready.
		if !strings.HasPrefix(mtype.String(), "video/") && !strings.HasPrefix(mtype.String(), "image/") {
			return fmt.Errorf("expected video payload, got %s", mtype.String())
		}
	}
	return nil
}
