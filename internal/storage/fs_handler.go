package storage

import (
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".csv":  "text/csv",
}

// RegisterRoutes exposes signed-URL retrieval for FS-backed storage.
func RegisterRoutes(r *gin.Engine, fs *FSStorage) {
	r.GET("/files/*key", ServeSigned(fs))
}

// ServeSigned validates the exp/sig query pair minted by SignedURL and
// streams the object. Unsigned requests are rejected so the bucket is never
// browsable.
func ServeSigned(fs *FSStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")

		exp, err := strconv.ParseInt(c.Query("exp"), 10, 64)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
			return
		}
		if !fs.VerifySignature(key, exp, c.Query("sig")) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired signature"})
			return
		}

		data, err := fs.Open(key)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
			return
		}

		contentType := contentTypes[path.Ext(key)]
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, data)
	}
}
