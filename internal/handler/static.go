package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticHandler serves the single page app from Dir. Unknown paths outside
// /api fall back to index.html.
type StaticHandler struct {
	Dir string
}

// Register installs the handler when Dir is an existing directory and
// reports whether it did
func (h *StaticHandler) Register(r *gin.Engine) bool {
	if h.Dir == "" {
		return false
	}
	info, err := os.Stat(h.Dir)
	if err != nil || !info.IsDir() {
		return false
	}
	r.NoRoute(h.serve)
	return true
}

func (h *StaticHandler) serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		Error(c, http.StatusNotFound, "not found")
		return
	}
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		Error(c, http.StatusNotFound, "not found")
		return
	}

	name := filepath.Join(h.Dir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		c.File(name)
		return
	}
	c.File(filepath.Join(h.Dir, "index.html"))
}
