package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/phantomworx/cq-intel/internal/cache"
	"github.com/phantomworx/cq-intel/internal/entry"
	"github.com/phantomworx/cq-intel/internal/extract"
	"github.com/phantomworx/cq-intel/internal/logging"
)

const (
	UserAgent = "cq-intel/1.0 (github.com/phantomworx/cq-intel)"
	Timeout   = 30 * time.Second
)

// Source identifies where an adopted entry set came from.
type Source string

const (
	SourceCache      Source = "cache"
	SourceStaleCache Source = "stale-cache"
	SourceNetwork    Source = "network"
)

// Reporter is the rendering collaborator: it receives each adopted
// working set and user-facing status messages.
type Reporter interface {
	Adopt(entries []entry.Entry, src Source)
	Info(message string)
	Warn(message string)
}

// Orchestrator loads the source page, deciding between cache and
// network and falling back from a direct fetch to the proxy.
type Orchestrator struct {
	client   *retryablehttp.Client
	store    *cache.Store
	detector *cache.RefreshDetector
	proxyURL string
	reporter Reporter
}

// New creates an Orchestrator. proxyURL may be empty, disabling the
// fallback. The HTTP client makes a single attempt per endpoint: the
// only retry budget is direct-then-proxy.
func New(store *cache.Store, detector *cache.RefreshDetector, proxyURL string, reporter Reporter) *Orchestrator {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	client.HTTPClient.Timeout = Timeout

	return &Orchestrator{
		client:   client,
		store:    store,
		detector: detector,
		proxyURL: strings.TrimSpace(proxyURL),
		reporter: reporter,
	}
}

// Load fetches, extracts, and adopts the entry set for sourceURL.
//
// Unless forced (explicitly or by the double-refresh detector), a fresh
// cache hit on the same URL is adopted without touching the network, and
// a stale hit is adopted optimistically before the refresh runs. On
// total network failure the stale data stays adopted with a non-fatal
// warning; with nothing to show, the failure is returned.
func (o *Orchestrator) Load(ctx context.Context, sourceURL string, force bool) error {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return fmt.Errorf("no source URL configured")
	}

	if !force && o.detector != nil {
		force = o.detector.Check()
	}

	usingStale := false
	if !force {
		if rec := o.store.Load(true); rec != nil && rec.SourceURL == sourceURL {
			if !rec.Stale {
				logging.Log.Debug("fetch: fresh cache hit")
				o.reporter.Adopt(rec.Entries, SourceCache)
				return nil
			}
			logging.Log.Debug("fetch: stale cache hit, refreshing")
			usingStale = true
			o.reporter.Adopt(rec.Entries, SourceStaleCache)
			o.reporter.Info("Updating data, showing cached copy.")
		}
	}

	body, err := o.fetchDirect(ctx, sourceURL)
	if err != nil {
		logging.Log.WithError(err).Warn("fetch: direct fetch failed, trying proxy")
		body, err = o.fetchProxy(ctx, sourceURL, force)
	}
	if err != nil {
		if usingStale {
			logging.Log.WithError(err).Warn("fetch: background update failed")
			o.reporter.Warn("Update failed. Showing cached data.")
			return nil
		}
		return fmt.Errorf("unable to fetch %s: %w", sourceURL, err)
	}

	entries, err := extract.Entries(bytes.NewReader(body))
	if err != nil {
		if usingStale {
			logging.Log.WithError(err).Warn("fetch: parsing refreshed page failed")
			o.reporter.Warn("Update failed. Showing cached data.")
			return nil
		}
		return fmt.Errorf("parsing %s: %w", sourceURL, err)
	}

	o.store.Save(entries, sourceURL)
	o.reporter.Adopt(entries, SourceNetwork)
	if usingStale {
		o.reporter.Info("Data updated successfully.")
	}
	return nil
}

// fetchDirect performs the first attempt against the source URL.
func (o *Orchestrator) fetchDirect(ctx context.Context, target string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("direct fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("direct fetch: unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// fetchProxy performs the fallback attempt through the configured proxy
// endpoint, asking the proxy to bypass its own cache when forcing.
func (o *Orchestrator) fetchProxy(ctx context.Context, target string, force bool) ([]byte, error) {
	proxied, err := BuildProxyURL(o.proxyURL, target)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", proxied, nil)
	if err != nil {
		return nil, fmt.Errorf("creating proxy request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	if force {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("proxy fetch: reading body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The proxy reports failures as JSON {"error": "..."}.
		if msg := gjson.GetBytes(body, "error").String(); msg != "" {
			return nil, fmt.Errorf("proxy fetch: status %d: %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("proxy fetch: unexpected status %d", resp.StatusCode)
	}

	return body, nil
}

// BuildProxyURL appends the percent-encoded target to the proxy base,
// respecting a base that already carries a query string.
func BuildProxyURL(proxyBase, target string) (string, error) {
	proxyBase = strings.TrimSpace(proxyBase)
	if proxyBase == "" {
		return "", fmt.Errorf("no proxy URL configured")
	}

	u, err := url.Parse(proxyBase)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid proxy URL: %s", proxyBase)
	}

	if strings.Contains(proxyBase, "?") {
		return proxyBase + url.QueryEscape(target), nil
	}
	return proxyBase + "?url=" + url.QueryEscape(target), nil
}
