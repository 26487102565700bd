package analyzer

import (
	"fmt"
	"testing"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

func f(v float64) *float64 { return &v }

func taggedRec(tech, eff string, demand float64, rating float64) model.NormalizedRecord {
	return model.NormalizedRecord{
		Brand:       "X",
		DemandProxy: demand,
		Rating:      f(rating),
		Tags:        model.Tags{Technology: tech, Efficacy: eff},
	}
}

func TestLowSupplyHighDemand_SmallHotComboWins(t *testing.T) {
	t.Parallel()

	var records []model.NormalizedRecord
	// 大组合：20 个 SKU，低需求
	for i := 0; i < 20; i++ {
		records = append(records, taggedRec("charcoal", "whitening", 10, 4.0))
	}
	// 小组合：2 个 SKU，高需求
	records = append(records,
		taggedRec("nano", "repair", 5000, 4.8),
		taggedRec("nano", "repair", 4000, 4.7),
	)

	rows := LowSupplyHighDemand(records, DefaultComboLimit)
	if len(rows) != 2 {
		t.Fatalf("rows=%d, want 2", len(rows))
	}
	if rows[0].Combo != "nano + repair" {
		t.Fatalf("top combo=%q, want nano + repair", rows[0].Combo)
	}
	if rows[0].Score <= rows[1].Score {
		t.Fatalf("scores not descending: %v <= %v", rows[0].Score, rows[1].Score)
	}
}

func TestLowSupplyHighDemand_NoTags(t *testing.T) {
	t.Parallel()

	records := []model.NormalizedRecord{{Brand: "A", DemandProxy: 5}}
	if rows := LowSupplyHighDemand(records, 0); len(rows) != 0 {
		t.Fatalf("untagged records should yield empty, got %d", len(rows))
	}
}

func gapRec(unitPrice, rating, demand float64) model.NormalizedRecord {
	return model.NormalizedRecord{
		Brand:       "X",
		UnitPrice:   f(unitPrice),
		Rating:      f(rating),
		DemandProxy: demand,
	}
}

func TestUnitPriceGaps_MinSampleSize(t *testing.T) {
	t.Parallel()

	var records []model.NormalizedRecord
	for i := 0; i < 30; i++ {
		records = append(records, gapRec(float64(i+1)*0.1, 4.0, 100))
	}
	// 恰好 30 行不满足 >30 的下限
	if rows := UnitPriceGaps(records, DefaultMinDecileRows, DefaultGapLimit); rows != nil {
		t.Fatalf("30 rows must return empty, got %d", len(rows))
	}

	records = append(records, gapRec(5.0, 4.5, 200))
	rows := UnitPriceGaps(records, DefaultMinDecileRows, DefaultGapLimit)
	if len(rows) == 0 {
		t.Fatalf("31 rows should produce buckets")
	}
	if len(rows) > DefaultGapLimit {
		t.Fatalf("rows=%d exceeds limit", len(rows))
	}
}

func TestUnitPriceGaps_ScoresDescending(t *testing.T) {
	t.Parallel()

	var records []model.NormalizedRecord
	for i := 0; i < 100; i++ {
		up := float64(i%10) + 1
		rating := 3.0 + float64(i%3)*0.5
		records = append(records, gapRec(up, rating, float64(i)))
	}
	rows := UnitPriceGaps(records, DefaultMinDecileRows, DefaultGapLimit)
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Score < rows[i].Score {
			t.Fatalf("scores not descending at %d: %v < %v", i, rows[i-1].Score, rows[i].Score)
		}
	}
}

func TestRiskTags_PopularLowRatedWins(t *testing.T) {
	t.Parallel()

	var records []model.NormalizedRecord
	// charcoal：SKU 多、评分低 → 风险最高
	for i := 0; i < 15; i++ {
		records = append(records, taggedRec("t", "charcoal-stain", 50, 3.1))
	}
	for i := 0; i < 3; i++ {
		records = append(records, taggedRec("t", "repair", 50, 4.8))
	}
	records = append(records, taggedRec("t", "gum", 50, 4.5))

	rows := RiskTags(records, DefaultRiskLimit)
	if len(rows) != 3 {
		t.Fatalf("rows=%d, want 3", len(rows))
	}
	if rows[0].Tag != "charcoal-stain" {
		t.Fatalf("top risk=%q, want charcoal-stain", rows[0].Tag)
	}
}

func TestRiskTags_NoRatedRecords(t *testing.T) {
	t.Parallel()

	records := []model.NormalizedRecord{
		{Brand: "A", Tags: model.Tags{Efficacy: "whitening"}}, // 无评分
	}
	if rows := RiskTags(records, 0); len(rows) != 0 {
		t.Fatalf("no rated records should yield empty, got %d", len(rows))
	}
}

func TestPercentileRanks_TiesAndBounds(t *testing.T) {
	t.Parallel()

	ranks := percentileRanks([]float64{10, 20, 20, 40})
	// 并列取平均秩：20 与 20 的秩为 (2+3)/2=2.5 → 0.625
	want := []float64{0.25, 0.625, 0.625, 1.0}
	for i := range want {
		if diff := ranks[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("ranks[%d]=%v, want %v", i, ranks[i], want[i])
		}
	}
}

func TestQuantileEdges_DropsDuplicates(t *testing.T) {
	t.Parallel()

	values := make([]float64, 50)
	for i := range values {
		values[i] = 1.0 // 全部相同
	}
	edges := quantileEdges(values, 10)
	if len(edges) != 1 {
		t.Fatalf("identical values should collapse edges, got %v", edges)
	}
}

func TestTagPerformance_CoverageAndSort(t *testing.T) {
	t.Parallel()

	records := []model.NormalizedRecord{
		taggedRec("nano", "whitening", 100, 4.0),
		taggedRec("nano", "whitening", 200, 4.2),
		taggedRec("charcoal", "repair", 50, 4.9),
		{Brand: "Z", DemandProxy: 10}, // 无标签，不计入分组但计入覆盖率分母
	}

	rows := TagPerformance(records, model.TagCategoryEfficacy)
	if len(rows) != 2 {
		t.Fatalf("rows=%d, want 2", len(rows))
	}
	if rows[0].Tag != "whitening" {
		t.Fatalf("top tag=%q, want whitening (higher demand sum)", rows[0].Tag)
	}
	if rows[0].Coverage != 0.5 {
		t.Fatalf("coverage=%v, want 0.5", rows[0].Coverage)
	}
	if rows[0].SumDemand != 300 {
		t.Fatalf("sum demand=%v, want 300", rows[0].SumDemand)
	}
}

func TestTopSKUs(t *testing.T) {
	t.Parallel()

	var records []model.NormalizedRecord
	for i := 0; i < 25; i++ {
		records = append(records, model.NormalizedRecord{
			Brand:       fmt.Sprintf("B%d", i),
			DemandProxy: float64(i),
		})
	}
	top := TopSKUs(records, 20)
	if len(top) != 20 {
		t.Fatalf("top=%d, want 20", len(top))
	}
	if top[0].DemandProxy != 24 {
		t.Fatalf("top demand=%v, want 24", top[0].DemandProxy)
	}
}
