package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DecompressRequest transparently handles gzip encoded requests. Bodies larger than
// maxBytes after decompression are cut off; zero disables the limit.
func DecompressRequest(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Content-Encoding"), "gzip") {
			c.Next()
			return
		}

		originalBody := c.Request.Body
		reader, err := gzip.NewReader(originalBody)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed gzip body"})
			return
		}
		defer reader.Close()
		defer originalBody.Close()

		var body io.ReadCloser = io.NopCloser(reader)
		if maxBytes > 0 {
			body = http.MaxBytesReader(c.Writer, body, maxBytes)
		}
		c.Request.Body = body
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
