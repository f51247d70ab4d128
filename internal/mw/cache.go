package mw

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// X-Cache values.
const (
	cacheHit    = "HIT"
	cacheMiss   = "MISS"
	cacheBypass = "BYPASS"
)

type cacheEntry struct {
	contentType string
	body        []byte
	storedAt    time.Time
}

// recorder tees the handler's body into a buffer.
type recorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (r *recorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *recorder) WriteString(s string) (int, error) {
	r.buf.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// ResponseCache keeps 200 answers to GET requests in memory, keyed by request
// URI. Clients sending "Cache-Control: no-cache" skip the lookup but still
// refresh the entry.
type ResponseCache struct {
	entries *cache.Cache
	ttl     time.Duration
	now     func() time.Time
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		entries: cache.New(ttl, 2*ttl),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Len returns the number of cached responses, expired ones included until
// the janitor runs.
func (rc *ResponseCache) Len() int {
	return rc.entries.ItemCount()
}

// Handler returns the gin middleware.
func (rc *ResponseCache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		state := cacheMiss
		if strings.Contains(c.GetHeader("Cache-Control"), "no-cache") {
			state = cacheBypass
		} else if v, found := rc.entries.Get(key); found {
			entry := v.(cacheEntry)
			age := int(rc.now().Sub(entry.storedAt) / time.Second)
			c.Header("X-Cache", cacheHit)
			c.Header("Age", strconv.Itoa(age))
			c.Data(http.StatusOK, entry.contentType, entry.body)
			c.Abort()
			return
		}

		c.Header("X-Cache", state)
		rec := &recorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() != http.StatusOK {
			return
		}
		rc.entries.Set(key, cacheEntry{
			contentType: rec.Header().Get("Content-Type"),
			body:        bytes.Clone(rec.buf.Bytes()),
			storedAt:    rc.now(),
		}, rc.ttl)
	}
}
