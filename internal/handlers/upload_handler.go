package handlers

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"eventify_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

var uploadPathPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-./]+$`)

// mimeByExtension is the set of file types the uploads route will serve.
var mimeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// UploadHandler serves stored originals below the upload root. Every
// request path is normalized and checked against the root before the
// filesystem is touched.
type UploadHandler struct {
	*BaseHandler
	root string
}

func NewUploadHandler(base *BaseHandler, root string) *UploadHandler {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &UploadHandler{BaseHandler: base, root: abs}
}

func (h *UploadHandler) Serve(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")

	if strings.Contains(rel, "..") {
		apperrors.HandleError(c, apperrors.NewForbiddenError("path traversal is not allowed"))
		return
	}
	if rel == "" || !uploadPathPattern.MatchString(rel) {
		apperrors.HandleError(c, apperrors.NewBadRequestError("invalid upload path"))
		return
	}

	mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(rel))]
	if !ok {
		apperrors.HandleError(c, apperrors.NewNotFoundError("uploads", "file not found"))
		return
	}

	full := filepath.Join(h.root, filepath.Clean(rel))
	if full != h.root && !strings.HasPrefix(full, h.root+string(filepath.Separator)) {
		apperrors.HandleError(c, apperrors.NewForbiddenError("path traversal is not allowed"))
		return
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		apperrors.HandleError(c, apperrors.NewNotFoundError("uploads", "file not found"))
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Content-Type", mime)
	c.File(full)
}
