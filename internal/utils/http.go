package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ClientIP resolves the originating client address behind a reverse proxy.
// X-Real-IP wins, then the first entry of X-Forwarded-For, then gin's own
// resolution.
func ClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return c.ClientIP()
}

// StoredFilename builds a collision-resistant name for an uploaded file by
// prefixing the original base name with the current unix milliseconds. The
// base name strips any directory components a client may have sent.
func StoredFilename(original string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(original))
}
