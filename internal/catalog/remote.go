package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"waifud/internal/models"
	"waifud/internal/structures"
)

const remoteListCacheKey = "remote:list"

// CacheInterface is the slice of the cache provider the remote fetcher needs.
type CacheInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// MetricsInterface counts cache effectiveness for the remote list.
type MetricsInterface interface {
	IncCacheHits()
	IncCacheMisses()
}

// Remote fetches the newline-delimited item list used when the local store is
// empty. Responses are cached; any transport or status failure surfaces as
// ErrNetworkFailure so callers can degrade to a "try later" message.
type Remote struct {
	baseURL string
	client  *http.Client
	cache   CacheInterface
	metrics MetricsInterface
}

func NewRemote(conf *structures.Config, cache CacheInterface, metrics MetricsInterface) *Remote {
	timeout := conf.Remote.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		baseURL: conf.Remote.BaseURL,
		client:  &http.Client{Timeout: timeout},
		cache:   cache,
		metrics: metrics,
	}
}

func (rc *Remote) List(ctx context.Context) ([]string, error) {
	if rc.baseURL == "" {
		return nil, models.ErrNetworkFailure
	}

	if data, ok := rc.cache.Get(remoteListCacheKey); ok {
		rc.metrics.IncCacheHits()
		return splitLines(string(data)), nil
	}
	rc.metrics.IncCacheMisses()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rc.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrNetworkFailure, err)
	}
	resp, err := rc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", models.ErrNetworkFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrNetworkFailure, err)
	}

	keys := splitLines(string(body))
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: empty list", models.ErrNetworkFailure)
	}

	rc.cache.Set(remoteListCacheKey, body)
	return keys, nil
}

// URL returns the download location of a remote item, or empty when no
// endpoint is configured.
func (rc *Remote) URL(key string) string {
	if rc.baseURL == "" {
		return ""
	}
	return rc.baseURL + key
}

func splitLines(body string) []string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	keys := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			keys = append(keys, line)
		}
	}
	return keys
}
