package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/fanjindong/go-cache"
)

// CachedVerifier remembers successful verifications keyed by the SHA-256 of the token,
// so repeated gated requests skip the signature check. Failures are never cached, and
// an entry never outlives the token's own expiry.
type CachedVerifier struct {
	next  TokenVerifier
	ttl   time.Duration
	cache cache.ICache
	now   func() time.Time
}

// NewCachedVerifier wraps next. A ttl <= 0 returns next unchanged.
func NewCachedVerifier(next TokenVerifier, ttl time.Duration) TokenVerifier {
	if ttl <= 0 {
		return next
	}
	return &CachedVerifier{
		next:  next,
		ttl:   ttl,
		cache: cache.NewMemCache(cache.WithClearInterval(time.Minute)),
		now:   time.Now,
	}
}

// Verify returns a cached valid result when present, otherwise delegates.
func (c *CachedVerifier) Verify(ctx context.Context, token string) Result {
	key := tokenKey(token)
	if v, ok := c.cache.Get(key); ok {
		claims := v.(*Claims)
		if claims.ExpiresAt != nil && c.now().Before(claims.ExpiresAt.Time) {
			return Result{Valid: true, Claims: claims}
		}
		c.cache.Del(key)
	}

	res := c.next.Verify(ctx, token)
	if !res.Valid || res.Claims == nil || res.Claims.ExpiresAt == nil {
		return res
	}

	ttl := c.ttl
	if untilExpiry := res.Claims.ExpiresAt.Sub(c.now()); untilExpiry < ttl {
		ttl = untilExpiry
	}
	if ttl > 0 {
		c.cache.Set(key, res.Claims, cache.WithEx(ttl))
	}
	return res
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
