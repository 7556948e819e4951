package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yayazuqui-hub/court-priority-play-99/pkg/response"
)

const (
	// IdempotencyKeyHeader is the request header carrying the key
	IdempotencyKeyHeader = "X-Idempotency-Key"

	idempotencyKeyPrefix = "idempotency:"
)

type idempotencyStatus string

const (
	statusProcessing idempotencyStatus = "processing"
	statusCompleted  idempotencyStatus = "completed"
)

// idempotencyRecord stores the state of an idempotent request
type idempotencyRecord struct {
	Status       idempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code"`
	ResponseBody string            `json:"response_body"`
	CreatedAt    time.Time         `json:"created_at"`
}

// RedisClient is the slice of redis.Client the middleware needs
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Redis RedisClient
	// TTL for completed records
	TTL time.Duration
	// ProcessingTTL bounds how long an in-flight marker blocks retries
	ProcessingTTL time.Duration
}

// DefaultIdempotencyConfig returns the default configuration
func DefaultIdempotencyConfig(rc RedisClient) *IdempotencyConfig {
	return &IdempotencyConfig{
		Redis:         rc,
		TTL:           5 * time.Minute,
		ProcessingTTL: 60 * time.Second,
	}
}

// Idempotency replays the stored response for a repeated write carrying
// the same X-Idempotency-Key. Requests without the header pass through
// untouched; a second in-flight request with the same key gets 409.
func Idempotency(cfg *IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || cfg == nil || cfg.Redis == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		redisKey := idempotencyKeyPrefix + key
		reqHash := hashRequest(c)

		record := idempotencyRecord{
			Status:      statusProcessing,
			RequestHash: reqHash,
			CreatedAt:   time.Now(),
		}
		raw, _ := json.Marshal(record)

		acquired, err := cfg.Redis.SetNX(ctx, redisKey, raw, cfg.ProcessingTTL).Result()
		if err != nil {
			// Redis down: let the request through rather than block writes
			c.Next()
			return
		}

		if !acquired {
			stored, err := cfg.Redis.Get(ctx, redisKey).Result()
			if err != nil {
				c.Next()
				return
			}
			var prev idempotencyRecord
			if err := json.Unmarshal([]byte(stored), &prev); err != nil {
				c.Next()
				return
			}
			if prev.RequestHash != reqHash {
				response.Error(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED",
					"idempotency key was used with a different request", "")
				c.Abort()
				return
			}
			if prev.Status == statusProcessing {
				response.Conflict(c, "REQUEST_IN_PROGRESS", "a request with this idempotency key is in progress")
				c.Abort()
				return
			}
			c.Data(prev.ResponseCode, "application/json", []byte(prev.ResponseBody))
			c.Abort()
			return
		}

		writer := &bodyCapture{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		record.Status = statusCompleted
		record.ResponseCode = writer.Status()
		record.ResponseBody = writer.buf.String()
		raw, _ = json.Marshal(record)
		_ = cfg.Redis.Set(ctx, redisKey, raw, cfg.TTL).Err()
	}
}

// hashRequest hashes method, path and body so a reused key with a
// different payload is rejected instead of replayed
func hashRequest(c *gin.Context) string {
	h := sha256.New()
	h.Write([]byte(c.Request.Method))
	h.Write([]byte(c.Request.URL.Path))
	if c.Request.Body != nil {
		body, err := io.ReadAll(c.Request.Body)
		if err == nil {
			h.Write(body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

type bodyCapture struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
