package export

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/innledger/internal/auth"
	"github.com/MrJamesThe3rd/innledger/internal/export"
	ledgerHandler "github.com/MrJamesThe3rd/innledger/internal/http/ledger"
	"github.com/MrJamesThe3rd/innledger/internal/http/middleware"
	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

type Service interface {
	Entries(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Entry, error)
	GenerateSummary(entries []*ledger.Entry) string
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Use(middleware.RequireRole(auth.RoleAccountant, auth.RoleAdmin))
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	StartDate    *time.Time           `json:"start_date,omitempty"`
	EndDate      *time.Time           `json:"end_date,omitempty"`
	SourceType   *ledger.SourceType   `json:"source_type,omitempty"`
	CategoryType *ledger.CategoryType `json:"category_type,omitempty"`
}

func (req exportRequest) filter() ledger.ListFilter {
	return ledger.ListFilter{
		SourceType:   req.SourceType,
		CategoryType: req.CategoryType,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
}

type exportMetadataResponse struct {
	Entries []ledgerHandler.EntryResponse `json:"entries"`
	Summary string                        `json:"summary"`
}

func (h *Handler) entries(w http.ResponseWriter, r *http.Request) ([]*ledger.Entry, bool) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	entries, err := h.svc.Entries(r.Context(), req.filter())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	return entries, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.entries(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(exportMetadataResponse{
		Entries: ledgerHandler.ToEntryResponseList(entries),
		Summary: h.svc.GenerateSummary(entries),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// download streams a zip holding ledger.csv and summary.txt.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.entries(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"ledger_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"ledger.csv", func(w io.Writer) error { return export.WriteCSV(w, entries) }},
		{"summary.txt", func(w io.Writer) error {
			_, err := io.WriteString(w, h.svc.GenerateSummary(entries))
			return err
		}},
	}

	for _, f := range files {
		zf, err := zipWriter.Create(f.name)
		if err != nil {
			slog.Error("failed to create zip", "error", err)
			return
		}

		if err := f.write(zf); err != nil {
			slog.Error("failed to create zip", "file", f.name, "error", err)
			return
		}
	}
}
