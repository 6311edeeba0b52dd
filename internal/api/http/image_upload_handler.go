package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// UploadFolders are the folders images may be uploaded to.
var UploadFolders = []string{"offers", "brands", "profiles"}

// FileSaver stores an uploaded file and returns its public path.
type FileSaver interface {
	Save(ctx context.Context, folder, name string, r io.Reader) (string, error)
}

type uploadResponse struct {
	Path string `json:"path"`
}

// ImageUploadHandler accepts multipart image uploads
type ImageUploadHandler struct {
	files       FileSaver
	maxBytes    int64
	allowedExts []string
}

// NewImageUploadHandler creates a new upload handler
func NewImageUploadHandler(files FileSaver, maxBytes int64, allowedExts []string) *ImageUploadHandler {
	return &ImageUploadHandler{
		files:       files,
		maxBytes:    maxBytes,
		allowedExts: allowedExts,
	}
}

// HandleUpload stores the multipart "file" field under a random name
func (h *ImageUploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	folder := mux.Vars(r)["folder"]
	if !slices.Contains(UploadFolders, folder) {
		writeError(w, r, domain.BadRequest("", "Unknown upload folder: "+folder))
		return
	}

	// Leave room for the multipart envelope around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64<<10)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, r, domain.BadRequest("", fmt.Sprintf("File too large or malformed upload (max %d bytes)", h.maxBytes)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, domain.BadRequest(domain.CodeImageRequired, "Missing file field"))
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		writeError(w, r, domain.BadRequest("", fmt.Sprintf("File exceeds %d bytes", h.maxBytes)))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(h.allowedExts, ext) {
		writeError(w, r, domain.BadRequest("", "File type not allowed: "+ext))
		return
	}

	// Validate content type from the leading bytes
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		writeError(w, r, err)
		return
	}
	head = head[:n]
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		writeError(w, r, domain.BadRequest("", "Invalid content type"))
		return
	}

	name := uuid.NewString() + ext
	path, err := h.files.Save(r.Context(), folder, name, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to save upload: %w", err))
		return
	}

	logger.InfoContext(r.Context(), "File uploaded", "path", path, "size", header.Size)
	writeJSON(w, http.StatusCreated, uploadResponse{Path: path})
}

// RegisterStaticRoutes serves files of the local driver under storage.PublicPrefix.
func RegisterStaticRoutes(router *mux.Router, dir string) {
	fileServer := http.StripPrefix(storage.PublicPrefix+"/", http.FileServer(http.Dir(dir)))
	router.PathPrefix(storage.PublicPrefix + "/").Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})).Methods(http.MethodGet, http.MethodHead)
}
