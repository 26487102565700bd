package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/analysis"
)

// RunSummary 分析运行的列表视图
type RunSummary struct {
	ID                 string    `json:"id"`
	SheetName          string    `json:"sheetName"`
	SourceFile         string    `json:"sourceFile"`
	RowCount           int       `json:"rowCount"`
	RatingDisqualified bool      `json:"ratingDisqualified"`
	CreatedAt          time.Time `json:"createdAt"`
}

// SaveAnalysis 持久化一次表分析：运行元信息 + 字段映射 + 归一化记录
func (s *Store) SaveAnalysis(ta *analysis.TableAnalysis, sourceFile string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ratingDisq := 0
	if c, ok := ta.ChosenMapping[model.FieldRating]; ok && c.Disqualified {
		ratingDisq = 1
	}

	if _, err := tx.Exec(
		`INSERT INTO analysis_runs (id, sheet_name, source_file, row_count, rating_disqualified, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ta.ID, ta.Sheet, sourceFile, ta.RowCount, ratingDisq, ta.CreatedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, field := range model.AllFields() {
		auto := ta.AutoMapping[field]
		chosen := ta.ChosenMapping[field]
		overridden := 0
		if chosen.Overridden {
			overridden = 1
		}
		disqualified := 0
		if chosen.Disqualified {
			disqualified = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO run_mappings (run_id, field, auto_column, auto_score, chosen_column, overridden, disqualified)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ta.ID, string(field), auto.Column, auto.Score, chosen.Column, overridden, disqualified,
		); err != nil {
			return fmt.Errorf("insert mapping %s: %w", field, err)
		}
	}

	for _, d := range ta.Diagnostics {
		samples, err := json.Marshal(d.BadSamples)
		if err != nil {
			samples = []byte("[]")
		}
		disq := 0
		if d.Disqualified {
			disq = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO run_diagnostics (run_id, field, column_name, non_empty_rate, parse_success_rate,
			 median, p90, mean, disqualified, bad_samples)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ta.ID, string(d.Field), d.Column, d.NonEmptyRate, d.ParseSuccessRate,
			d.Median, d.P90, d.Mean, disq, string(samples),
		); err != nil {
			return fmt.Errorf("insert diagnostics %s: %w", d.Field, err)
		}
	}

	for _, rec := range ta.Records {
		if _, err := tx.Exec(
			`INSERT INTO run_records (run_id, row_no, brand, title, price, rating, demand_proxy, demand_source,
			 net_content_g, pack_count, unit_price, tag_efficacy, tag_technology, tag_audience, tag_context, price_band)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ta.ID, rec.RowNo, rec.Brand, rec.Title,
			nullFloat(rec.Price), nullFloat(rec.Rating), rec.DemandProxy, string(rec.DemandSource),
			nullFloat(rec.NetContentGrams), rec.PackCount, nullFloat(rec.UnitPrice),
			rec.Tags.Efficacy, rec.Tags.Technology, rec.Tags.Audience, rec.Tags.Context, rec.PriceBand,
		); err != nil {
			return fmt.Errorf("insert record row %d: %w", rec.RowNo, err)
		}
	}

	return tx.Commit()
}

// ListRuns 按时间倒序列出分析运行
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, sheet_name, source_file, row_count, rating_disqualified, created_at
		 FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		var disq int
		var created string
		if err := rows.Scan(&r.ID, &r.SheetName, &r.SourceFile, &r.RowCount, &disq, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.RatingDisqualified = disq != 0
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRunMapping 取某次运行的字段映射（auto + chosen）
func (s *Store) GetRunMapping(runID string) (auto, chosen model.ColumnMapping, err error) {
	rows, err := s.db.Query(
		`SELECT field, auto_column, auto_score, chosen_column, overridden, disqualified
		 FROM run_mappings WHERE run_id = ?`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()

	auto = make(model.ColumnMapping)
	chosen = make(model.ColumnMapping)
	for rows.Next() {
		var field, autoCol, chosenCol string
		var score float64
		var overridden, disq int
		if err := rows.Scan(&field, &autoCol, &score, &chosenCol, &overridden, &disq); err != nil {
			return nil, nil, fmt.Errorf("scan mapping: %w", err)
		}
		auto[model.FieldKey(field)] = model.FieldChoice{Column: autoCol, Score: score}
		chosen[model.FieldKey(field)] = model.FieldChoice{
			Column:       chosenCol,
			Overridden:   overridden != 0,
			Disqualified: disq != 0,
		}
	}
	return auto, chosen, rows.Err()
}

// GetRunRecords 取某次运行的归一化记录
func (s *Store) GetRunRecords(runID string) ([]model.NormalizedRecord, error) {
	rows, err := s.db.Query(
		`SELECT row_no, brand, title, price, rating, demand_proxy, demand_source,
		 net_content_g, pack_count, unit_price, tag_efficacy, tag_technology, tag_audience, tag_context, price_band
		 FROM run_records WHERE run_id = ? ORDER BY row_no`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []model.NormalizedRecord{}
	for rows.Next() {
		var rec model.NormalizedRecord
		var price, rating, netG, unitPrice sql.NullFloat64
		var demandSource string
		if err := rows.Scan(
			&rec.RowNo, &rec.Brand, &rec.Title, &price, &rating, &rec.DemandProxy, &demandSource,
			&netG, &rec.PackCount, &unitPrice,
			&rec.Tags.Efficacy, &rec.Tags.Technology, &rec.Tags.Audience, &rec.Tags.Context, &rec.PriceBand,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.DemandSource = model.DemandSource(demandSource)
		rec.Price = fromNull(price)
		rec.Rating = fromNull(rating)
		rec.NetContentGrams = fromNull(netG)
		rec.UnitPrice = fromNull(unitPrice)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetRunDiagnostics 取某次运行的数值字段诊断
func (s *Store) GetRunDiagnostics(runID string) ([]model.FieldDiagnostics, error) {
	rows, err := s.db.Query(
		`SELECT field, column_name, non_empty_rate, parse_success_rate, median, p90, mean, disqualified, bad_samples
		 FROM run_diagnostics WHERE run_id = ? ORDER BY field`, runID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	out := []model.FieldDiagnostics{}
	for rows.Next() {
		var d model.FieldDiagnostics
		var field, samples string
		var disq int
		if err := rows.Scan(&field, &d.Column, &d.NonEmptyRate, &d.ParseSuccessRate,
			&d.Median, &d.P90, &d.Mean, &disq, &samples); err != nil {
			return nil, fmt.Errorf("scan diagnostics: %w", err)
		}
		d.Field = model.FieldKey(field)
		d.Disqualified = disq != 0
		if err := json.Unmarshal([]byte(samples), &d.BadSamples); err != nil {
			d.BadSamples = nil
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteRun 删除一次运行及其全部数据
func (s *Store) DeleteRun(runID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"run_records", "run_mappings", "run_diagnostics", "analysis_runs"} {
		col := "run_id"
		if table == "analysis_runs" {
			col = "id"
		}
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, col), runID); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
