package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// MemberKeyKey is the gin context key holding the resolved membership
	// key for the current request.
	MemberKeyKey = "memberKey"

	sessionCookie = "wp_session"

	// UnknownMember is the sentinel used when no client address can be
	// determined. Room entry is never blocked on address lookup.
	UnknownMember = "unknown"
)

// Session resolves the membership key once per client session and reuses it
// for the session's lifetime, so repeated gate evaluations stay idempotent.
// The session id lives in a cookie; the derived key is cached in Redis for
// ttl. The key itself is the client's reported network address; it is an
// opaque identifier, not a security boundary.
func Session(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(sessionCookie, sid, int(ttl.Seconds()), "/", "", false, true)
		}

		cacheKey := "memberkey:" + sid

		key, err := rdb.Get(context.Background(), cacheKey).Result()
		if err == nil && key != "" {
			c.Set(MemberKeyKey, key)
			c.Next()
			return
		}
		if err != nil && err != redis.Nil {
			log.Warnf("session cache read failed: %v", err)
		}

		key = c.ClientIP()
		if key == "" {
			key = UnknownMember
		}

		if err := rdb.Set(context.Background(), cacheKey, key, ttl).Err(); err != nil {
			log.Warnf("session cache write failed: %v", err)
		}

		c.Set(MemberKeyKey, key)
		c.Next()
	}
}

// MemberKey returns the key resolved by Session, falling back to the
// unknown sentinel if the middleware did not run.
func MemberKey(c *gin.Context) string {
	if v, ok := c.Get(MemberKeyKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return UnknownMember
}
