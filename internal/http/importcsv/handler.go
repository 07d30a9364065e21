package importcsv

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/innledger/internal/auth"
	"github.com/MrJamesThe3rd/innledger/internal/http/middleware"
	"github.com/MrJamesThe3rd/innledger/internal/importer"
)

type Importer interface {
	Parse(bank importer.Bank, r io.Reader) ([]importer.Line, error)
	Import(ctx context.Context, bank importer.Bank, r io.Reader) (*importer.Report, error)
}

type Handler struct {
	svc Importer
}

func NewHandler(svc Importer) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Use(middleware.RequireRole(auth.RoleAccountant, auth.RoleAdmin))
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type lineDTO struct {
	Date        string             `json:"date"`
	Description string             `json:"description"`
	Amount      string             `json:"amount"`
	Direction   importer.Direction `json:"direction"`
}

type recordedDTO struct {
	lineDTO
	BankReference string `json:"bank_reference"`
	SupplierName  string `json:"supplier_name"`
	Reference     string `json:"reference"`
	Posted        bool   `json:"posted"`
	PostingError  string `json:"posting_error,omitempty"`
}

type failedDTO struct {
	lineDTO
	Error string `json:"error"`
}

type importResponse struct {
	Lines    int           `json:"lines"`
	Skipped  int           `json:"skipped"`
	Recorded []recordedDTO `json:"recorded"`
	Failed   []failedDTO   `json:"failed"`
}

func toLineDTO(l importer.Line) lineDTO {
	return lineDTO{
		Date:        l.Date.Format(time.DateOnly),
		Description: l.Description,
		Amount:      l.Amount.StringFixed(2),
		Direction:   l.Direction,
	}
}

func toImportResponse(rep *importer.Report) importResponse {
	resp := importResponse{
		Lines:    rep.Lines,
		Skipped:  rep.Skipped,
		Recorded: make([]recordedDTO, 0, len(rep.Recorded)),
		Failed:   make([]failedDTO, 0, len(rep.Failed)),
	}

	for _, r := range rep.Recorded {
		dto := recordedDTO{
			lineDTO:       toLineDTO(r.Line),
			BankReference: r.BankReference,
			SupplierName:  r.SupplierName,
		}

		if r.Result != nil {
			dto.Reference = r.Result.Reference
			dto.Posted = r.Result.PostingErr == nil && r.Result.Posting != nil

			if r.Result.PostingErr != nil {
				dto.PostingError = r.Result.PostingErr.Error()
			}
		}

		resp.Recorded = append(resp.Recorded, dto)
	}

	for _, f := range rep.Failed {
		resp.Failed = append(resp.Failed, failedDTO{lineDTO: toLineDTO(f.Line), Error: f.Error})
	}

	return resp
}

// statement reads the "bank" and "file" fields of a multipart upload.
func statement(w http.ResponseWriter, r *http.Request) (importer.Bank, io.ReadCloser, bool) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		http.Error(w, "bank field is required", http.StatusBadRequest)
		return "", nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return "", nil, false
	}

	return bank, file, true
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	bank, file, ok := statement(w, r)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.svc.Import(r.Context(), bank, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toImportResponse(report)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// preview parses a statement without recording anything.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	bank, file, ok := statement(w, r)
	if !ok {
		return
	}
	defer file.Close()

	lines, err := h.svc.Parse(bank, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := make([]lineDTO, len(lines))
	for i, l := range lines {
		resp[i] = toLineDTO(l)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
