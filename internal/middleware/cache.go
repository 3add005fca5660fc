package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Handlers that consult the plan cache flag whether the payload was
// rebuilt or served from Redis; the middleware contributes the timing.
const metaKey = "responseMeta"

// WithResponseMeta seeds a metadata map for the request and stamps the
// total processing time on the way out.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(metaKey, map[string]interface{}{})
		start := time.Now()
		c.Next()
		meta := metaFor(c)
		if _, taken := meta["processing_time_ms"]; !taken {
			meta["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit marks whether the response payload came out of the cache.
func SetCacheHit(c *gin.Context, hit bool) {
	metaFor(c)["cache_hit"] = hit
}

// ExtractMeta hands the collected metadata to the response envelope. It
// returns nil when the middleware is not installed.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if value, ok := c.Get(metaKey); ok {
		if meta, ok := value.(map[string]interface{}); ok {
			return meta
		}
	}
	return nil
}

func metaFor(c *gin.Context) map[string]interface{} {
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := map[string]interface{}{}
	if c != nil {
		c.Set(metaKey, meta)
	}
	return meta
}
