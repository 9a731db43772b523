package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/veranemoloko/media-downloader/internal/domain"
	apperrors "github.com/veranemoloko/media-downloader/internal/errors"
	"github.com/veranemoloko/media-downloader/internal/metrics"
	"github.com/veranemoloko/media-downloader/internal/validation"
)

const maxFormBytes = 1 << 20

// DownloadRunner defines the download pipeline used by the handler.
type DownloadRunner interface {
	Run(ctx context.Context, req domain.DownloadRequest) (*domain.FinalArtifact, error)
	Progress() domain.ProgressState
}

// FileStore defines access to the public download directory.
type FileStore interface {
	List(ctx context.Context) ([]domain.FileInfo, error)
	Path(filename string) (string, error)
	FileExists(filename string) bool
	Delete(filename string) error
}

// DownloadHandler handles HTTP requests for downloads and downloaded files.
type DownloadHandler struct {
	runner DownloadRunner
	files  FileStore
	logger *slog.Logger
}

// NewDownloadHandler creates a new DownloadHandler with the provided services and logger.
func NewDownloadHandler(runner DownloadRunner, files FileStore, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{
		runner: runner,
		files:  files,
		logger: logger,
	}
}

// Download handles POST /download. The download runs to completion on the
// request goroutine; a client disconnect does not cancel it.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	form, err := decodeForm(w, r)
	if err != nil {
		h.logger.Warn("failed to decode request", "error", err)
		writeResult(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if form.URL, err = url.PathUnescape(strings.TrimSpace(form.URL)); err != nil {
		writeResult(w, http.StatusBadRequest, "Invalid URL encoding")
		return
	}

	form.Format = strings.ToLower(strings.TrimSpace(form.Format))

	if err := validation.ValidateForm(form); err != nil {
		h.logger.Warn("validation failed", "url", form.URL, "error", err)
		writeResult(w, http.StatusBadRequest, "Invalid URL or format")
		return
	}

	format, err := domain.ParseFormatKind(form.Format)
	if err != nil {
		writeResult(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.WithoutCancel(r.Context())
	artifact, err := h.runner.Run(ctx, domain.DownloadRequest{URL: form.URL, Format: format})
	if err != nil {
		writeResult(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, domain.DownloadResponse{
		Success: true,
		Message: "Download completed: " + artifact.Name,
		File: &domain.FileResponse{
			Name:      artifact.Name,
			Size:      humanize.Bytes(artifact.SizeBytes),
			SizeBytes: artifact.SizeBytes,
		},
	})
}

// Progress handles GET /progress.
func (h *DownloadHandler) Progress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.runner.Progress())
}

// ListFiles handles GET /files.
func (h *DownloadHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.files.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list files", "error", err)
		writeResult(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, domain.FilesResponse{Files: files})
}

// ServeFile handles GET /download_file/{filename} and sends the file as an attachment.
func (h *DownloadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name, ok := h.filename(w, r)
	if !ok {
		return
	}

	path, err := h.files.Path(name)
	if err != nil {
		writeResult(w, http.StatusBadRequest, "Invalid file name")
		return
	}
	if !h.files.FileExists(name) {
		writeResult(w, http.StatusNotFound, "File does not exist")
		return
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeFile(w, r, path)
}

// DeleteFile handles POST /delete/{filename} and DELETE /files/{filename}.
func (h *DownloadHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	name, ok := h.filename(w, r)
	if !ok {
		return
	}

	err := h.files.Delete(name)
	switch {
	case err == nil:
		metrics.FilesDeleted.Inc()
		h.logger.Info("file deleted", "file", name)
		writeJSON(w, http.StatusOK, domain.DownloadResponse{Success: true, Message: "File deleted successfully"})
	case errors.Is(err, apperrors.ErrFileNotFound):
		writeResult(w, http.StatusNotFound, "File does not exist")
	case errors.Is(err, apperrors.ErrInvalidFileName):
		writeResult(w, http.StatusBadRequest, "Invalid file name")
	default:
		h.logger.Error("failed to delete file", "file", name, "error", err)
		writeResult(w, http.StatusInternalServerError, fmt.Sprintf("Error deleting file: %v", err))
	}
}

func (h *DownloadHandler) filename(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "filename"))
	if err != nil || name == "" {
		writeResult(w, http.StatusBadRequest, "Invalid file name")
		return "", false
	}
	return name, true
}

// decodeForm accepts a JSON body or form fields.
func decodeForm(w http.ResponseWriter, r *http.Request) (*domain.DownloadForm, error) {
	var form domain.DownloadForm
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return nil, err
		}
		return &form, nil
	}

	form.URL = r.PostFormValue("url")
	form.Format = r.PostFormValue("format")
	return &form, nil
}

func statusFor(err error) int {
	kind, _ := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindTransferFailed, apperrors.KindNoOutputProduced, apperrors.KindZeroByteOutput:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeResult(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, domain.DownloadResponse{
		Success: false,
		Message: message,
	})
}
