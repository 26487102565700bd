package excel_test

import (
	"strings"
	"testing"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/analysis"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/excel"
)

func analyzeFixture(t *testing.T) *analysis.TableAnalysis {
	t.Helper()
	svc := analysis.NewService(analysis.DefaultOptions())
	ta, err := svc.AnalyzeTable(&model.RawTable{
		Name:    "US",
		Columns: []string{"Product Title", "Brand", "Price", "Stars", "Review Count"},
		Rows: [][]interface{}{
			{"Nano Hydroxyapatite Toothpaste Pack of 3", "Acme", "$24.99", "4.6", "1,203"},
			{"Whitening Charcoal Toothpaste", "Bolt", "9.99", "4.2", "310"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("AnalyzeTable failed: %v", err)
	}
	return ta
}

func TestBuildReport(t *testing.T) {
	t.Parallel()

	ta := analyzeFixture(t)
	wb, err := excel.BuildReport([]*analysis.TableAnalysis{ta})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	sheets := wb.GetSheetList()
	wantSuffixes := []string{"_cleaned", "_top_brands", "_tech_perf", "_eff_perf", "_opp_low_supply", "_opp_price_gaps", "_risk", "_band", "_pack_demand", "_top_sku"}
	for _, suffix := range wantSuffixes {
		found := false
		for _, s := range sheets {
			if strings.HasSuffix(s, suffix) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing sheet with suffix %s in %v", suffix, sheets)
		}
	}

	rows, err := wb.GetRows("US_cleaned")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	// 表头 + 两条记录
	if len(rows) != 3 {
		t.Fatalf("cleaned rows=%d, want 3", len(rows))
	}
	if rows[1][1] != "Acme" {
		t.Fatalf("cleaned brand=%q", rows[1][1])
	}
}

func TestBuildReport_SheetNameClamped(t *testing.T) {
	t.Parallel()

	ta := analyzeFixture(t)
	ta.Sheet = strings.Repeat("很长的工作表名", 10)
	wb, err := excel.BuildReport([]*analysis.TableAnalysis{ta})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}
	for _, name := range wb.GetSheetList() {
		if n := len([]rune(name)); n > 31 {
			t.Fatalf("sheet name %q exceeds 31 chars (%d)", name, n)
		}
	}
}
