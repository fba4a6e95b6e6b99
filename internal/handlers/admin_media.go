package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"portfolio/internal/imaging"
)

const (
	// maxUploadSize is the maximum allowed file upload size (20 MB).
	maxUploadSize = 20 << 20

	// resumeKind is the only upload kind that takes PDFs instead of images.
	resumeKind = "resumes"
)

// mediaKinds are the accepted upload kinds. Each names the key prefix the
// file is stored under.
var mediaKinds = map[string]bool{
	"profiles":     true,
	"projects":     true,
	"testimonials": true,
	"blog":         true,
	resumeKind:     true,
}

// mediaUpload is what an upload answers: the storage path the entity
// fields reference and the URL it is served from.
type mediaUpload struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// MediaUpload stores a multipart "file" under the prefix named by "kind".
// Images are re-encoded and downscaled; resumes must be PDF.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.media == nil {
		writeMediaError(w, "Media storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMediaError(w, "File too large. Maximum size is 20 MB.", http.StatusRequestEntityTooLarge)
		return
	}

	kind := r.FormValue("kind")
	if !mediaKinds[kind] {
		writeMediaError(w, fmt.Sprintf("Unknown upload kind %q.", kind), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMediaError(w, "No file provided.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeMediaError(w, "File too large. Maximum size is 20 MB.", http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeMediaError(w, "Failed to read file.", http.StatusInternalServerError)
		return
	}

	var out mediaUpload
	if kind == resumeKind {
		if ct := http.DetectContentType(data); ct != "application/pdf" {
			writeMediaError(w, fmt.Sprintf("Resumes must be PDF files, got %q.", ct), http.StatusBadRequest)
			return
		}
		out = mediaUpload{ContentType: "application/pdf", Size: len(data)}
		out.Path = a.mediaKey(kind, ".pdf")
	} else {
		img, err := imaging.Process(data, imaging.DefaultMaxWidth)
		switch {
		case errors.Is(err, imaging.ErrUnsupported):
			writeMediaError(w, "Only JPEG, PNG, GIF and WebP images are accepted.", http.StatusBadRequest)
			return
		case errors.Is(err, imaging.ErrTooLarge):
			writeMediaError(w, "Image dimensions are too large.", http.StatusBadRequest)
			return
		case err != nil:
			slog.Warn("image processing failed", "error", err, "filename", header.Filename)
			writeMediaError(w, "The image could not be decoded.", http.StatusBadRequest)
			return
		}
		data = img.Data
		out = mediaUpload{ContentType: img.ContentType, Size: len(data), Width: img.Width, Height: img.Height}
		out.Path = a.mediaKey(kind, img.Ext)
	}

	if err := a.media.Put(r.Context(), out.Path, out.ContentType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("media upload failed", "error", err, "key", out.Path)
		writeMediaError(w, "Failed to store file.", http.StatusInternalServerError)
		return
	}
	out.URL = a.media.URL(out.Path)

	slog.Info("media uploaded", "key", out.Path, "size", out.Size, "type", out.ContentType)
	writeJSON(w, http.StatusCreated, out)
}

// mediaKey builds "<kind>/<yyyy>/<mm>/<uuid><ext>".
func (a *Admin) mediaKey(kind, ext string) string {
	now := a.now()
	return fmt.Sprintf("%s/%d/%02d/%s%s", kind, now.Year(), now.Month(), uuid.New().String(), ext)
}

// writeMediaError writes a JSON error response for media operations.
func writeMediaError(w http.ResponseWriter, msg string, status int) {
	writeJSONError(w, status, msg)
}
