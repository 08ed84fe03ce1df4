package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/MicahParks/keyfunc/v3"
	"go.uber.org/zap"
)

// RemoteKeySet lazily loads the issuer's published JWKS. The key set keeps itself
// refreshed in the background until the base context is canceled. An unreachable
// issuer does not fail the load; keys appear once a background refresh succeeds.
type RemoteKeySet struct {
	base context.Context
	url  string
	log  *zap.SugaredLogger

	mu     sync.Mutex
	loaded atomic.Pointer[keyfunc.Keyfunc]
}

// NewRemoteKeySet creates a key set for url bound to the lifetime of ctx.
func NewRemoteKeySet(ctx context.Context, url string, log *zap.SugaredLogger) *RemoteKeySet {
	return &RemoteKeySet{base: ctx, url: url, log: log}
}

// Get returns the loaded key set, loading it on first use.
func (k *RemoteKeySet) Get(_ context.Context) (KeySource, error) {
	if k.url == "" {
		return nil, errors.New("no JWKS URL configured")
	}

	if keys := k.loaded.Load(); keys != nil {
		return *keys, nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if keys := k.loaded.Load(); keys != nil {
		return *keys, nil
	}

	keys, err := keyfunc.NewDefaultCtx(k.base, []string{k.url})
	if err != nil {
		k.log.Warnw("failed to load identity key set",
			"url", k.url,
			"error", err,
		)
		return nil, err
	}
	k.log.Infow("identity key set loaded", "url", k.url)
	k.loaded.Store(&keys)
	return keys, nil
}
