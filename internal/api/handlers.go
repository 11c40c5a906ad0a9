package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	apperrors "object-updater/internal/errors"
	"object-updater/internal/models"
	"object-updater/internal/uploader"
)

type APIHandler struct {
	updater      Updater
	logger       zerolog.Logger
	maxBodyBytes int64
}

// Updater is satisfied by *uploader.Uploader and *uploader.Serialized.
type Updater interface {
	Update(ctx context.Context, payload []byte, key string, contentType models.ContentType) (bool, error)
	Bucket() string
}

type putObjectResponse struct {
	Bucket      string             `json:"bucket"`
	Key         string             `json:"key"`
	ContentType models.ContentType `json:"content_type"`
	Updated     bool               `json:"updated"`
	SHA256      string             `json:"sha256"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewAPIHandler caps request bodies at maxBodyBytes; zero or less means no cap.
func NewAPIHandler(updater Updater, logger zerolog.Logger, maxBodyBytes int64) *APIHandler {
	return &APIHandler{
		updater:      updater,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

func (h *APIHandler) HandlePutObject(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()

	// chi returns the raw segment when the path carries escapes
	key, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid object key encoding")
		return
	}
	if key == "" {
		writeError(w, r, http.StatusBadRequest, "Missing object key. Use PUT /objects/{key}")
		return
	}

	contentType, err := models.ParseContentType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid type, expected json, png or other")
		return
	}

	body := io.Reader(r.Body)
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	payload, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "An error occurred upon reading the payload")
		return
	}

	updated, err := h.updater.Update(r.Context(), payload, key, contentType)
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("update failed")

		if errors.Is(err, apperrors.ErrLockNotAcquired) {
			writeError(w, r, http.StatusConflict, "Another update of this key is in progress")
			return
		}
		writeError(w, r, http.StatusBadGateway, "Failed to upload object")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, putObjectResponse{
		Bucket:      h.updater.Bucket(),
		Key:         key,
		ContentType: contentType,
		Updated:     updated,
		SHA256:      uploader.Digest(payload),
	})
}

func (h *APIHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}
