package analyzer

import (
	"testing"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
)

func rec(brand string, demand float64) model.NormalizedRecord {
	return model.NormalizedRecord{Brand: brand, DemandProxy: demand}
}

func TestBrandConcentration_CRMonotonic(t *testing.T) {
	t.Parallel()

	records := []model.NormalizedRecord{
		rec("A", 100), rec("B", 80), rec("C", 60), rec("D", 40),
		rec("E", 30), rec("F", 20), rec("G", 10), rec("H", 5),
		rec("I", 3), rec("J", 2), rec("K", 1), rec("L", 1),
	}

	c := BrandConcentration(records, 20)
	if !(c.CR3 <= c.CR5 && c.CR5 <= c.CR10) {
		t.Fatalf("CR monotonicity violated: cr3=%v cr5=%v cr10=%v", c.CR3, c.CR5, c.CR10)
	}
	for _, v := range []float64{c.CR3, c.CR5, c.CR10} {
		if v < 0 || v > 1 {
			t.Fatalf("CR out of [0,1]: %v", v)
		}
	}
	if c.TopBrands[0].Brand != "A" {
		t.Fatalf("top brand=%q, want A", c.TopBrands[0].Brand)
	}
}

func TestBrandConcentration_ZeroDemand(t *testing.T) {
	t.Parallel()

	c := BrandConcentration([]model.NormalizedRecord{rec("A", 0), rec("B", 0)}, 10)
	if c.CR3 != 0 || c.CR5 != 0 || c.CR10 != 0 {
		t.Fatalf("zero total demand must yield CRn=0, got %v %v %v", c.CR3, c.CR5, c.CR10)
	}
}

func TestBrandConcentration_SameBrandAggregated(t *testing.T) {
	t.Parallel()

	c := BrandConcentration([]model.NormalizedRecord{rec("A", 10), rec("A", 20), rec("B", 5)}, 10)
	if len(c.TopBrands) != 2 {
		t.Fatalf("brands=%d, want 2", len(c.TopBrands))
	}
	if c.TopBrands[0].Brand != "A" || c.TopBrands[0].Demand != 30 {
		t.Fatalf("top=%+v, want A/30", c.TopBrands[0])
	}
	wantCR3 := 1.0
	if c.CR3 != wantCR3 {
		t.Fatalf("CR3=%v, want %v", c.CR3, wantCR3)
	}
}
