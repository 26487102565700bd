package v1

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/analysis"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "market.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(analysis.NewService(analysis.DefaultOptions()), st)
	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)
	return r, st
}

func buildListingWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	wb := excelize.NewFile()
	rows := [][]interface{}{
		{"Brand", "Product Title", "Price", "Rating", "Review Count"},
		{"Acme", "Acme Whitening Toothpaste Pack of 3, 12oz, nano", 24.99, 4.6, 1203},
		{"Cove", "Cove Sensitive Relief Toothpaste 100g", 8.5, 4.2, 356},
		{"Acme", "Acme Charcoal Toothpaste 4 oz", 12.0, 3.9, 87},
	}
	if err := wb.SetSheetName("Sheet1", "listing"); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		r := row
		if err := wb.SetSheetRow("listing", cell, &r); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf
}

func uploadWorkbook(t *testing.T, r *gin.Engine) UploadResponse {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "listing.xlsx")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := fw.Write(buildListingWorkbook(t).Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload status=%d body=%s", w.Code, w.Body.String())
	}
	var resp UploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return resp
}

func TestUploadPreviewMapping(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := uploadWorkbook(t, r)
	if resp.Token == "" {
		t.Fatalf("empty upload token")
	}
	if len(resp.Sheets) != 1 {
		t.Fatalf("len(sheets)=%d, want 1", len(resp.Sheets))
	}
	sheet := resp.Sheets[0]
	if sheet.Name != "listing" || sheet.RowCount != 3 {
		t.Fatalf("unexpected sheet preview: %+v", sheet)
	}
	if got := sheet.Mapping["brand"].Column; got != "Brand" {
		t.Fatalf("brand column=%q, want Brand", got)
	}
	if got := sheet.Mapping["reviews"].Column; got != "Review Count" {
		t.Fatalf("reviews column=%q, want Review Count", got)
	}
}

func TestAnalyzePersistsRun(t *testing.T) {
	r, st := newTestRouter(t)

	up := uploadWorkbook(t, r)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/"+up.Token+"/analyze", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("analyze status=%d body=%s", w.Code, w.Body.String())
	}
	var resp AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode analyze response: %v", err)
	}
	if len(resp.Analyses) != 1 {
		t.Fatalf("len(analyses)=%d, want 1", len(resp.Analyses))
	}
	ta := resp.Analyses[0]
	if ta.RowCount != 3 || len(ta.Records) != 3 {
		t.Fatalf("rowCount=%d records=%d, want 3/3", ta.RowCount, len(ta.Records))
	}

	runs, err := st.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != ta.ID {
		t.Fatalf("run not persisted: %+v", runs)
	}
	if runs[0].SourceFile != "listing.xlsx" {
		t.Fatalf("sourceFile=%q, want listing.xlsx", runs[0].SourceFile)
	}

	// 持久化的记录应与响应一致
	records, err := st.GetRunRecords(ta.ID)
	if err != nil {
		t.Fatalf("GetRunRecords: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records)=%d, want 3", len(records))
	}
	if records[0].Brand != "Acme" || records[0].PackCount != 3 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
}

func TestAnalyzeWithOverrides(t *testing.T) {
	r, _ := newTestRouter(t)

	up := uploadWorkbook(t, r)

	body, _ := json.Marshal(AnalyzeRequest{
		Overrides: map[string]map[string]string{
			"listing": {"rating": ""}, // 显式声明没有评分列
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/"+up.Token+"/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("analyze status=%d body=%s", w.Code, w.Body.String())
	}
	var resp AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode analyze response: %v", err)
	}
	ta := resp.Analyses[0]
	for _, rec := range ta.Records {
		if rec.Rating != nil {
			t.Fatalf("rating present despite explicit none override: %+v", rec)
		}
	}
}

func TestAnalyzeUnknownFieldRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	up := uploadWorkbook(t, r)

	body, _ := json.Marshal(AnalyzeRequest{
		Overrides: map[string]map[string]string{
			"listing": {"bogus": "Price"},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/"+up.Token+"/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestExportAfterAnalyze(t *testing.T) {
	r, _ := newTestRouter(t)

	up := uploadWorkbook(t, r)

	// 未分析时导出应 409
	req := httptest.NewRequest(http.MethodGet, "/api/v1/upload/"+up.Token+"/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("export before analyze status=%d, want 409", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/upload/"+up.Token+"/analyze", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("analyze status=%d body=%s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/upload/"+up.Token+"/export", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("export status=%d body=%s", w.Code, w.Body.String())
	}

	wb, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("exported file not a valid workbook: %v", err)
	}
	defer wb.Close()
	found := false
	for _, name := range wb.GetSheetList() {
		if name == "listing_cleaned" {
			found = true
		}
	}
	if !found {
		t.Fatalf("listing_cleaned sheet missing, got %v", wb.GetSheetList())
	}
}

func TestUploadMissingFile(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}
