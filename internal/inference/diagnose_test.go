package inference

import (
	"testing"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

func TestDiagnoseColumn_ParseRateAndStats(t *testing.T) {
	t.Parallel()

	values := []interface{}{"$12.99", "15.50", "N/A", "", nil, float64(20)}
	d := DiagnoseColumn(model.FieldPrice, "Price", values)

	// 6 个单元格中 4 个非空，其中 3 个可解析
	if d.NonEmptyRate != 4.0/6.0 {
		t.Fatalf("NonEmptyRate=%v", d.NonEmptyRate)
	}
	if d.ParseSuccessRate != 3.0/4.0 {
		t.Fatalf("ParseSuccessRate=%v", d.ParseSuccessRate)
	}
	if d.Median != 15.50 {
		t.Fatalf("Median=%v, want 15.50", d.Median)
	}
	if len(d.BadSamples) != 1 || d.BadSamples[0] != "N/A" {
		t.Fatalf("BadSamples=%v", d.BadSamples)
	}
}

func TestRatingPlausible_ReviewCountsDisqualified(t *testing.T) {
	t.Parallel()

	// 评论数被误选为评分列：中位数/P90 远超 5.5/6.0，必须否决
	values := []interface{}{"4500", "120", "89", "2300", "15"}
	d := DiagnoseColumn(model.FieldRating, "Rating", values)
	if RatingPlausible(d) {
		t.Fatalf("review counts must be disqualified as rating: median=%v p90=%v", d.Median, d.P90)
	}
}

func TestRatingPlausible_RealRatingsPass(t *testing.T) {
	t.Parallel()

	values := []interface{}{"4.6", "4.2", "3.9", "5.0", "4.8"}
	d := DiagnoseColumn(model.FieldRating, "Stars", values)
	if !RatingPlausible(d) {
		t.Fatalf("real ratings should pass: median=%v p90=%v", d.Median, d.P90)
	}
}

func TestRatingPlausible_UnparseableFails(t *testing.T) {
	t.Parallel()

	d := DiagnoseColumn(model.FieldRating, "Stars", []interface{}{"good", "bad"})
	if RatingPlausible(d) {
		t.Fatalf("fully unparseable rating column should be disqualified")
	}
}
