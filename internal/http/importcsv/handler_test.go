package importcsv_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/innledger/internal/auth"
	"github.com/MrJamesThe3rd/innledger/internal/checkout"
	"github.com/MrJamesThe3rd/innledger/internal/http/importcsv"
	"github.com/MrJamesThe3rd/innledger/internal/http/middleware"
	"github.com/MrJamesThe3rd/innledger/internal/importer"
)

type fakeImporter struct {
	lines   []importer.Line
	report  *importer.Report
	err     error
	gotBank importer.Bank
	gotBody string
}

func (f *fakeImporter) Parse(bank importer.Bank, r io.Reader) ([]importer.Line, error) {
	f.gotBank = bank
	return f.lines, f.err
}

func (f *fakeImporter) Import(_ context.Context, bank importer.Bank, r io.Reader) (*importer.Report, error) {
	b, _ := io.ReadAll(r)
	f.gotBank, f.gotBody = bank, string(b)

	return f.report, f.err
}

func upload(t *testing.T, svc importcsv.Importer, role, path string, fields map[string]string, file string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if file != "" {
		fw, err := mw.CreateFormFile("file", "extrato.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(file))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithClaims(req.Context(), &auth.Claims{Role: role})))
		})
	})
	r.Route("/import", importcsv.NewHandler(svc).Routes)

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	return rr
}

func TestHandler_Import(t *testing.T) {
	line := importer.Line{
		Date:        time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
		Description: "LAVANDARIA NORTE",
		Amount:      decimal.RequireFromString("588.74"),
		Direction:   importer.Debit,
	}

	svc := &fakeImporter{report: &importer.Report{
		Lines:   3,
		Skipped: 1,
		Recorded: []importer.Recorded{{
			Line:          line,
			BankReference: "cgd-00000000000000aa",
			SupplierName:  "Lavandaria Norte",
			Result:        &checkout.Result{Reference: "SP-1", PostingErr: errors.New("ledger down")},
		}},
		Failed: []importer.Failed{{Line: line, Error: "invalid input"}},
	}}

	rr := upload(t, svc, auth.RoleAccountant, "/import/", map[string]string{"bank": "cgd"}, "csv-bytes")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, importer.BankCGD, svc.gotBank)
	assert.Equal(t, "csv-bytes", svc.gotBody)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.EqualValues(t, 3, resp["lines"])

	recorded := resp["recorded"].([]any)[0].(map[string]any)
	assert.Equal(t, "588.74", recorded["amount"])
	assert.Equal(t, "2026-01-30", recorded["date"])
	assert.Equal(t, false, recorded["posted"])
	assert.Equal(t, "ledger down", recorded["posting_error"])
}

func TestHandler_Import_Rejects(t *testing.T) {
	rr := upload(t, &fakeImporter{}, auth.RoleAccountant, "/import/", nil, "csv")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = upload(t, &fakeImporter{}, auth.RoleAccountant, "/import/", map[string]string{"bank": "cgd"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = upload(t, &fakeImporter{err: errors.New("no matching CGD format found")}, auth.RoleAccountant,
		"/import/", map[string]string{"bank": "cgd"}, "junk")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = upload(t, &fakeImporter{}, auth.RoleStaff, "/import/", map[string]string{"bank": "cgd"}, "csv")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHandler_Preview(t *testing.T) {
	svc := &fakeImporter{lines: []importer.Line{{
		Date:        time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC),
		Description: "TPA VENDAS",
		Amount:      decimal.RequireFromString("4324.06"),
		Direction:   importer.Credit,
	}}}

	rr := upload(t, svc, auth.RoleAdmin, "/import/preview", map[string]string{"bank": "cgd"}, "csv")
	require.Equal(t, http.StatusOK, rr.Code)

	var lines []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&lines))
	require.Len(t, lines, 1)
	assert.Equal(t, "credit", lines[0]["direction"])
}
