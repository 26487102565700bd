package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/analysis"
)

// maxSheetNameLen Excel sheet 名上限
const maxSheetNameLen = 31

// BuildReport 把若干表的分析结果导出为多 Sheet 工作簿
// 每张源表产出一组结果 Sheet：cleaned / top_brands / tech_perf / eff_perf /
// opp_low_supply / opp_price_gaps / risk / band / pack_demand / top_sku
func BuildReport(analyses []*analysis.TableAnalysis) (*excelize.File, error) {
	wb := excelize.NewFile()

	first := true
	addSheet := func(name string, header []string, rows [][]interface{}) error {
		name = clampSheetName(name)
		if first {
			// 复用默认 Sheet1
			if err := wb.SetSheetName("Sheet1", name); err != nil {
				return err
			}
			first = false
		} else {
			if _, err := wb.NewSheet(name); err != nil {
				return err
			}
		}
		if err := wb.SetSheetRow(name, "A1", &header); err != nil {
			return err
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := wb.SetSheetRow(name, cell, &row); err != nil {
				return err
			}
		}
		return nil
	}

	for _, ta := range analyses {
		prefix := ta.Sheet
		if err := writeTableSheets(addSheet, prefix, ta); err != nil {
			return nil, fmt.Errorf("build report for %s: %w", ta.Sheet, err)
		}
	}
	return wb, nil
}

type sheetWriter func(name string, header []string, rows [][]interface{}) error

func writeTableSheets(add sheetWriter, prefix string, ta *analysis.TableAnalysis) error {
	cleaned := make([][]interface{}, 0, len(ta.Records))
	for _, rec := range ta.Records {
		cleaned = append(cleaned, []interface{}{
			rec.RowNo, rec.Brand, rec.Title,
			floatCell(rec.Price), floatCell(rec.UnitPrice), rec.PackCount,
			floatCell(rec.NetContentGrams), floatCell(rec.Rating),
			rec.DemandProxy, string(rec.DemandSource),
			rec.Tags.Efficacy, rec.Tags.Technology, rec.Tags.Audience, rec.Tags.Context,
			rec.PriceBand,
		})
	}
	if err := add(prefix+"_cleaned",
		[]string{"行号", "品牌", "标题", "价格", "单位价格", "装数", "净含量(g)", "评分", "需求代理", "需求来源", "功效标签", "技术标签", "人群标签", "场景标签", "价格带"},
		cleaned); err != nil {
		return err
	}

	brands := make([][]interface{}, 0, len(ta.Concentration.TopBrands))
	for _, b := range ta.Concentration.TopBrands {
		brands = append(brands, []interface{}{b.Brand, b.Demand})
	}
	if err := add(prefix+"_top_brands", []string{"品牌", "需求代理总量"}, brands); err != nil {
		return err
	}

	if err := add(prefix+"_tech_perf", tagPerfHeader(), tagPerfRows(ta.TechPerf)); err != nil {
		return err
	}
	if err := add(prefix+"_eff_perf", tagPerfHeader(), tagPerfRows(ta.EffPerf)); err != nil {
		return err
	}

	opp := make([][]interface{}, 0, len(ta.Opportunities))
	for _, row := range ta.Opportunities {
		opp = append(opp, []interface{}{
			row.Combo, row.Count, row.MeanDemand, row.SumDemand,
			floatCell(row.MeanRating), floatCell(row.MeanPrice), floatCell(row.MeanUnitPrice), row.Score,
		})
	}
	if err := add(prefix+"_opp_low_supply",
		[]string{"组合", "SKU数", "需求代理均值", "需求代理总量", "均评分", "均价", "单位价格均值", "机会分"}, opp); err != nil {
		return err
	}

	gaps := make([][]interface{}, 0, len(ta.PriceGaps))
	for _, row := range ta.PriceGaps {
		gaps = append(gaps, []interface{}{row.BucketMin, row.BucketMax, row.Count, row.MeanRating, row.MeanDemand, row.Score})
	}
	if err := add(prefix+"_opp_price_gaps",
		[]string{"单位价格最小", "单位价格最大", "桶内SKU数", "桶内均评分", "桶内需求代理均值", "空档分"}, gaps); err != nil {
		return err
	}

	risks := make([][]interface{}, 0, len(ta.RiskTags))
	for _, row := range ta.RiskTags {
		risks = append(risks, []interface{}{row.Tag, row.Count, row.MeanRating, row.SumDemand, row.Score})
	}
	if err := add(prefix+"_risk", []string{"标签", "SKU数", "均评分", "需求代理总量", "风险分"}, risks); err != nil {
		return err
	}

	bands := make([][]interface{}, 0, len(ta.BandDemand))
	for _, row := range ta.BandDemand {
		bands = append(bands, []interface{}{row.Band, row.Count, row.SumDemand})
	}
	if err := add(prefix+"_band", []string{"价格带", "SKU数", "需求代理总量"}, bands); err != nil {
		return err
	}

	packs := make([][]interface{}, 0, len(ta.PackDemand))
	for _, row := range ta.PackDemand {
		packs = append(packs, []interface{}{row.PackCount, row.Count, row.SumDemand})
	}
	if err := add(prefix+"_pack_demand", []string{"装数", "SKU数", "需求代理总量"}, packs); err != nil {
		return err
	}

	topSKUs := make([][]interface{}, 0, len(ta.TopSKUs))
	for _, rec := range ta.TopSKUs {
		topSKUs = append(topSKUs, []interface{}{
			rec.Brand, truncate(rec.Title, 60), floatCell(rec.Price), floatCell(rec.UnitPrice),
			rec.PackCount, floatCell(rec.Rating), rec.DemandProxy, rec.Tags.Efficacy, rec.Tags.Technology,
		})
	}
	return add(prefix+"_top_sku",
		[]string{"品牌", "短标题", "价格", "单位价格", "装数", "评分", "需求代理", "功效标签", "技术标签"}, topSKUs)
}

func tagPerfHeader() []string {
	return []string{"标签", "SKU数", "覆盖率", "均价", "均评分", "需求代理均值", "需求代理总量"}
}

func tagPerfRows(rows []model.TagPerformanceRow) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		out = append(out, []interface{}{
			row.Tag, row.Count, row.Coverage,
			floatCell(row.MeanPrice), floatCell(row.MeanRating), row.MeanDemand, row.SumDemand,
		})
	}
	return out
}

// floatCell 可选数值转单元格：缺失写空
func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// clampSheetName sheet 名超长截断（Excel 限 31 字符）
func clampSheetName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxSheetNameLen {
		return name
	}
	return string(runes[:maxSheetNameLen])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
