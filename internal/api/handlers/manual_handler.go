package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unimoghub/manuals/internal/config"
	"github.com/unimoghub/manuals/internal/core"
	"github.com/unimoghub/manuals/internal/core/ingest"
)

type ManualHandler struct {
	store    core.Store
	objects  core.ObjectStore
	ingestor ingest.Ingestor
	cfg      *config.Config
}

func NewManualHandler(store core.Store, objects core.ObjectStore, ing ingest.Ingestor, cfg *config.Config) *ManualHandler {
	return &ManualHandler{store: store, objects: objects, ingestor: ing, cfg: cfg}
}

type processRequest struct {
	Filename   string   `json:"filename"`
	Bucket     string   `json:"bucket,omitempty"`
	Title      string   `json:"title,omitempty"`
	ModelCodes []string `json:"model_codes,omitempty"`
	YearRange  string   `json:"year_range,omitempty"`
	Category   string   `json:"category,omitempty"`
}

// Upload stores the PDF in the manuals bucket and queues it for processing.
func (h *ManualHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(64 << 20) // 64 MB

	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read file", http.StatusBadRequest)
		return
	}

	// Strip any path components from the client-supplied name.
	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(header.Filename))

	uploadCtx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	if _, err := h.objects.UploadFile(uploadCtx, h.cfg.BucketName, filename, data, "application/pdf"); err != nil {
		http.Error(w, fmt.Sprintf("upload failed: %v", err), http.StatusInternalServerError)
		return
	}

	h.ingestor.Enqueue(ingest.Request{
		Bucket:     h.cfg.BucketName,
		Filename:   filename,
		Title:      r.FormValue("title"),
		YearRange:  r.FormValue("year_range"),
		Category:   r.FormValue("category"),
		UploadedBy: userID,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"filename": filename,
		"status":   "queued",
	})
}

// Process runs the pipeline synchronously for an already-uploaded object
// and returns the confirmation payload.
func (h *ManualHandler) Process(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Filename == "" {
		http.Error(w, "filename is required", http.StatusBadRequest)
		return
	}
	bucket := req.Bucket
	if bucket == "" {
		bucket = h.cfg.BucketName
	}

	res, err := h.ingestor.Process(r.Context(), ingest.Request{
		Bucket:     bucket,
		Filename:   req.Filename,
		Title:      req.Title,
		ModelCodes: req.ModelCodes,
		YearRange:  req.YearRange,
		Category:   req.Category,
		UploadedBy: userID,
	})
	if err != nil {
		log.Printf("process %s failed: %v", req.Filename, err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *ManualHandler) List(w http.ResponseWriter, r *http.Request) {
	manuals, err := h.store.ListManuals(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(manuals)
}

// Delete removes the metadata row (chunks cascade) and the stored object.
func (h *ManualHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	manual, err := h.store.GetManualByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if manual == nil {
		http.Error(w, "manual not found", http.StatusNotFound)
		return
	}

	if err := h.store.DeleteManual(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.objects.DeleteFile(r.Context(), h.cfg.BucketName, manual.Filename); err != nil {
		// Row is gone; a leftover object is an operator cleanup, not a failure.
		log.Printf("could not delete object %s: %v", manual.Filename, err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// statusForError maps the pipeline error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, core.ErrParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmbedding):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
