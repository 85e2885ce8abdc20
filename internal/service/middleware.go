package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "requestID"
)

// requestID makes sure every request carries an id. A client-supplied X-Request-Id is kept,
// otherwise a random one is generated. The id is echoed in the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger writes one record per request after it has been handled:
// method, url, status, response size, duration and the request body as rendered by bodyToken.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil && (c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut) {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		start := time.Now()
		c.Next()

		size := "-"
		if c.Writer.Size() >= 0 {
			size = strconv.Itoa(c.Writer.Size())
		}
		logger.LogAttrs(c.Request.Context(), slog.LevelInfo,
			c.Request.Method+" "+c.Request.URL.RequestURI(),
			slog.Int("status", c.Writer.Status()),
			slog.String("size", size),
			slog.Duration("dur", time.Since(start)),
			slog.String("body", bodyToken(c.Request.Method, body)),
			slog.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

// bodyToken renders the request body for the request log. The condition is
// "POST, or PUT with a non-empty body": every POST body is logged, even an empty one (as "{}"),
// while a PUT without fields and all other methods log "-".
func bodyToken(method string, body []byte) string {
	if method == http.MethodPost || (method == http.MethodPut && !emptyBody(body)) {
		return compactJSON(body)
	}
	return "-"
}

// emptyBody reports whether the body is missing or a JSON object without fields.
func emptyBody(body []byte) bool {
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return false
	}
	return len(fields) == 0
}

// compactJSON removes insignificant whitespace from the body. A missing body is rendered as an
// empty object and a body that is not JSON is returned as it is.
func compactJSON(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

// meterRequests counts requests and their durations per route and status in the given set.
func meterRequests(set *metrics.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := fmt.Sprintf(`{method=%q,path=%q,status="%d"}`, c.Request.Method, path, c.Writer.Status())
		set.GetOrCreateCounter("http_requests_total" + labels).Inc()
		set.GetOrCreateHistogram("http_request_duration_seconds" + labels).UpdateDuration(start)
	}
}
