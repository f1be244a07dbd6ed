package handler

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// attachment writes data as a downloadable file
func attachment(c *gin.Context, contentType, fileName string, data []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": safeFileName(fileName),
	}))
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, contentType, data)
}

// safeFileName strips path components and quotes from a file name
func safeFileName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if r == '"' || r < 0x20 {
			return -1
		}
		return r
	}, name)
	if name == "" {
		return "document"
	}
	return name
}
