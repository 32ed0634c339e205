package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Brownie44l1/harmful-image-api/internal/caption"
	"github.com/Brownie44l1/harmful-image-api/internal/model"
)

const maxUploadSize = 10 << 20 // 10MB

// ErrUnsupportedMediaType is returned for uploads outside the MIME allow-list.
var ErrUnsupportedMediaType = errors.New("unsupported file type")

var allowedTypes = map[string]string{
	"image/jpeg": "image/jpeg",
	"image/jpg":  "image/jpeg",
	"image/png":  "image/png",
}

type Handler struct {
	classifier *model.Classifier
	captions   *caption.Service
	logger     *slog.Logger
}

// NewHandler wires the request handlers. captions may be nil when no
// caption provider is configured.
func NewHandler(classifier *model.Classifier, captions *caption.Service, logger *slog.Logger) *Handler {
	return &Handler{
		classifier: classifier,
		captions:   captions,
		logger:     logger,
	}
}

type predictionResponse struct {
	Label        model.Label      `json:"label"`
	Confidence   float64          `json:"confidence"`
	Threshold    float64          `json:"threshold"`
	Caption      *caption.Caption `json:"caption,omitempty"`
	CaptionError string           `json:"caption_error,omitempty"`
}

func newPredictionResponse(r model.Result) *predictionResponse {
	return &predictionResponse{
		Label:      r.Label,
		Confidence: math.Round(r.Confidence*1e4) / 1e4,
		Threshold:  r.Threshold,
	}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Harmful Image Detection API is running!"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"model_loaded": h.classifier.Ready(),
		"captioning":   h.captions != nil,
	})
}

// Predict classifies an uploaded image.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if !h.classifier.Ready() {
		jsonError(w, model.ErrModelUnavailable.Error(), http.StatusInternalServerError)
		return
	}

	data, _, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	tensor, err := model.Decode(data)
	if err != nil {
		h.logger.Debug("decode failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
		jsonError(w, model.ErrInvalidImage.Error(), http.StatusBadRequest)
		return
	}

	result, ok := h.classify(w, r, tensor)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newPredictionResponse(result))
}

// PredictWithCaption classifies an uploaded image and captions it. The
// caption runs concurrently with classification; a caption failure is
// reported in caption_error without failing the request.
func (h *Handler) PredictWithCaption(w http.ResponseWriter, r *http.Request) {
	if !h.classifier.Ready() {
		jsonError(w, model.ErrModelUnavailable.Error(), http.StatusInternalServerError)
		return
	}

	data, mimeType, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	tensor, err := model.Decode(data)
	if err != nil {
		jsonError(w, model.ErrInvalidImage.Error(), http.StatusBadRequest)
		return
	}

	if h.captions == nil {
		jsonError(w, caption.ErrCaptionUnconfigured.Error(), http.StatusInternalServerError)
		return
	}

	task := h.captions.Start(r.Context(), data, mimeType)
	defer task.Cancel()

	result, ok := h.classify(w, r, tensor)
	if !ok {
		return
	}
	resp := newPredictionResponse(result)

	c, err := task.Wait()
	if err != nil {
		h.logger.Warn("caption failed",
			"provider", h.captions.Provider(),
			"err", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
		resp.CaptionError = err.Error()
	} else {
		resp.Caption = &c
	}
	writeJSON(w, http.StatusOK, resp)
}

// PredictTensor classifies an already normalized 1x128x128x3 tensor sent as JSON.
func (h *Handler) PredictTensor(w http.ResponseWriter, r *http.Request) {
	if !h.classifier.Ready() {
		jsonError(w, model.ErrModelUnavailable.Error(), http.StatusInternalServerError)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
	if err != nil {
		jsonError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req model.PredictionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if len(req.Image) != model.TensorLen {
		jsonError(w, fmt.Sprintf("Expected %d values, got %d", model.TensorLen, len(req.Image)),
			http.StatusBadRequest)
		return
	}

	result, ok := h.classify(w, r, model.Tensor(req.Image))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newPredictionResponse(result))
}

func (h *Handler) classify(w http.ResponseWriter, r *http.Request, tensor model.Tensor) (model.Result, bool) {
	result, err := h.classifier.Classify(r.Context(), tensor)
	switch {
	case err == nil:
		h.logger.Info("classified",
			"label", result.Label,
			"confidence", result.Confidence,
			"request_id", middleware.GetReqID(r.Context()),
		)
		return result, true
	case errors.Is(err, model.ErrInvalidTensor):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("prediction failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
		jsonError(w, "Prediction failed", http.StatusInternalServerError)
	}
	return model.Result{}, false
}

// readUpload extracts the uploaded image and its normalized MIME type. The
// content type is checked before the payload is read.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "File too large. Maximum upload size is 10MB", http.StatusRequestEntityTooLarge)
			return nil, "", false
		}
		jsonError(w, "Failed to parse form", http.StatusBadRequest)
		return nil, "", false
	}

	file, header, err := formFile(r)
	if err != nil {
		jsonError(w, "No image file provided. Use 'file' as the form field name", http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	mimeType, err := uploadType(header)
	if err != nil {
		jsonError(w, ErrUnsupportedMediaType.Error(), http.StatusUnsupportedMediaType)
		return nil, "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "Failed to read uploaded file", http.StatusBadRequest)
		return nil, "", false
	}

	h.logger.Debug("received file",
		"filename", header.Filename,
		"size", header.Size,
		"content_type", mimeType,
		"request_id", middleware.GetReqID(r.Context()),
	)
	return data, mimeType, true
}

func formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return r.FormFile("image")
	}
	return file, header, err
}

func uploadType(header *multipart.FileHeader) (string, error) {
	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
	}
	normalized, ok := allowedTypes[strings.ToLower(mediaType)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
	return normalized, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, detail string, status int) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
