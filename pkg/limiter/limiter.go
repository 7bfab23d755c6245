// Package limiter provides token-bucket rate limiting keyed by request path.
// Package limiter 提供按请求路径分桶的令牌桶限流
package limiter

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face is the limiter interface consumed by the rate-limit middleware.
type Face interface {
	// Key derives the bucket key for a request.
	// Key 获取对应的限流键值
	Key(c *gin.Context) string
	// GetBucket returns the bucket for the key, if one is registered.
	GetBucket(key string) (*ratelimit.Bucket, bool)
	// AddBuckets registers bucket rules and returns the limiter for chaining.
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule describes a single token bucket.
type BucketRule struct {
	// Key is the bucket key, usually a route path.
	Key string
	// FillInterval is the interval between token refills.
	// FillInterval 令牌的填充间隔
	FillInterval time.Duration
	// Capacity is the maximum number of tokens in the bucket.
	Capacity int64
	// Quantum is the number of tokens added per fill.
	Quantum int64
}

// Limiter holds the registered buckets.
type Limiter struct {
	limiterBuckets map[string]*ratelimit.Bucket
}
