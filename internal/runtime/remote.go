package runtime

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/fetch"
	"github.com/triesap/mf2-i18n/internal/manifest"
)

// LoadFromURL builds a Runtime from a manifest served over HTTP instead
// of a local directory. Pack URLs named relative in the manifest are
// resolved against manifestURL's directory, exactly as LoadFromPaths
// resolves them against the manifest file's directory; absolute pack
// URLs are used as-is. Every fetched pack still passes through the
// same content-encoding, size, and hash checks as a local one — C12
// never weakens that integrity binding just because the bytes arrived
// over the network.
func LoadFromURL(ctx context.Context, manifestURL string, fetcher *fetch.Fetcher, logger core.Logger) (*Runtime, error) {
	if logger == nil {
		logger = core.NoopLogger{}
	}

	manifestBytes, err := fetcher.Get(ctx, manifestURL)
	if err != nil {
		logCircuitOpen(logger, fetcher, err)
		return nil, err
	}

	base, err := url.Parse(manifestURL)
	if err != nil {
		return nil, err
	}

	fetchPack := func(entry manifest.PackEntry) ([]byte, error) {
		b, err := fetcher.Get(ctx, resolvePackURL(base, entry.URL))
		if err != nil {
			logCircuitOpen(logger, fetcher, err)
		}
		return b, err
	}

	// The manifest carries only the id map's hash, not its location; the
	// id map is fetched from "id_map.json" beside the manifest URL.
	idMapBytes, err := fetcher.Get(ctx, resolvePackURL(base, "id_map.json"))
	if err != nil {
		logCircuitOpen(logger, fetcher, err)
		return nil, err
	}

	return assembleRuntime(manifestBytes, idMapBytes, logger, fetchPack, manifestURL)
}

// logCircuitOpen surfaces why an origin is being treated as down, not
// just that it is, whenever a fetch fails with its circuit breaker
// open.
func logCircuitOpen(logger core.Logger, fetcher *fetch.Fetcher, err error) {
	if !errors.Is(err, fetch.ErrCircuitOpen) {
		return
	}
	state, counts, ok := fetcher.CircuitStats()
	if !ok {
		return
	}
	logger.Warn("fetch circuit breaker open",
		"state", state.String(),
		"consecutive_failures", counts.ConsecutiveFailures,
		"total_failures", counts.TotalFailures,
	)
}

// resolvePackURL resolves ref against base's directory unless ref is
// already an absolute URL.
func resolvePackURL(base *url.URL, ref string) string {
	if strings.Contains(ref, "://") {
		return ref
	}
	joined := &url.URL{
		Scheme: base.Scheme,
		Host:   base.Host,
		Path:   path.Join(path.Dir(base.Path), ref),
	}
	return joined.String()
}
