// Package export renders canonical companies and comparison metrics into
// interchange formats: a re-ingestable JSON document, CSV, and XLSX.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/adtech-insider/insight-cli/internal/model"
)

// Document is the on-disk company export shape. It uses the loose input
// schema so an exported file feeds straight back into the import pipeline.
type Document struct {
	Companies []model.InputCompany `json:"companies"`
}

// CompaniesDocument converts canonical companies back into the export
// document, labeling quarters with the given year ("Q1 2025").
func CompaniesDocument(companies []model.CanonicalCompany, year int) Document {
	doc := Document{Companies: make([]model.InputCompany, 0, len(companies))}
	for _, c := range companies {
		in := model.InputCompany{
			ID:           c.ID,
			Name:         c.CompanyName,
			Tagline:      c.Tagline,
			Overview:     c.Overview,
			Strategy2025: c.Strategy2025,
			Offerings:    c.Offerings,
			Logo:         c.Logo,
			Quarters:     make([]model.InputQuarter, 0, len(c.QuarterlyData)),
		}
		for _, q := range c.QuarterlyData {
			in.Quarters = append(in.Quarters, model.InputQuarter{
				Quarter:         fmt.Sprintf("%s %d", q.Quarter, year),
				MainTheme:       q.MarketingFocus,
				BrandPerception: string(q.BrandPerception),
				IntensityScore:  float64(q.IntensityScore),
				PerceptionScore: float64(q.PerceptionScore),
				KeyActivities:   q.Events,
			})
		}
		doc.Companies = append(doc.Companies, in)
	}
	return doc
}

// WriteCompaniesJSON writes the indented company export document.
func WriteCompaniesJSON(w io.Writer, companies []model.CanonicalCompany, year int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(CompaniesDocument(companies, year)); err != nil {
		return eris.Wrap(err, "export: encode companies json")
	}
	return nil
}

// WriteCompareJSON writes the full comparison result, debug info included.
func WriteCompareJSON(w io.Writer, result *model.CompareResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return eris.Wrap(err, "export: encode compare json")
	}
	return nil
}

var compareHeader = []string{
	"id", "name",
	"avg_brand_score", "avg_intensity", "total_activity", "peak_intensity",
	"consistency", "composite_score",
	"rank_brand", "rank_intensity", "rank_activity", "rank_peak",
	"rank_consistency", "rank_composite",
	"norm_brand", "norm_intensity", "norm_activity", "norm_peak",
}

func compareRow(m *model.CompanyCompareMetrics) []string {
	return []string{
		m.ID, m.Name,
		ftoa(m.AvgBrandScore), ftoa(m.AvgIntensity), ftoa(m.TotalActivity), ftoa(m.PeakIntensity),
		ftoa(m.Consistency), ftoa(m.CompositeScore),
		strconv.Itoa(m.RankAvgBrandScore), strconv.Itoa(m.RankAvgIntensity),
		strconv.Itoa(m.RankTotalActivity), strconv.Itoa(m.RankPeakIntensity),
		strconv.Itoa(m.RankConsistency), strconv.Itoa(m.RankCompositeScore),
		ftoa(m.NormalizedBrandScore), ftoa(m.NormalizedIntensity),
		ftoa(m.NormalizedActivity), ftoa(m.NormalizedPeakIntensity),
	}
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCompareCSV writes the comparison metrics as CSV, one company per row.
func WriteCompareCSV(w io.Writer, result *model.CompareResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(compareHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for i := range result.Metrics {
		if err := cw.Write(compareRow(&result.Metrics[i])); err != nil {
			return eris.Wrapf(err, "export: write csv row %d", i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// WriteCompareXLSX writes a workbook with a Metrics sheet and a Warnings
// sheet when any warnings were collected.
func WriteCompareXLSX(w io.Writer, result *model.CompareResult) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Metrics")
	if err != nil {
		return eris.Wrap(err, "export: add metrics sheet")
	}

	header := sheet.AddRow()
	for _, col := range compareHeader {
		header.AddCell().SetString(col)
	}
	for i := range result.Metrics {
		m := &result.Metrics[i]
		row := sheet.AddRow()
		row.AddCell().SetString(m.ID)
		row.AddCell().SetString(m.Name)
		for _, v := range []float64{
			m.AvgBrandScore, m.AvgIntensity, m.TotalActivity, m.PeakIntensity,
			m.Consistency, m.CompositeScore,
		} {
			row.AddCell().SetFloat(v)
		}
		for _, r := range []int{
			m.RankAvgBrandScore, m.RankAvgIntensity, m.RankTotalActivity,
			m.RankPeakIntensity, m.RankConsistency, m.RankCompositeScore,
		} {
			row.AddCell().SetInt(r)
		}
		for _, v := range []float64{
			m.NormalizedBrandScore, m.NormalizedIntensity,
			m.NormalizedActivity, m.NormalizedPeakIntensity,
		} {
			row.AddCell().SetFloat(v)
		}
	}

	if len(result.Debug.Warnings) > 0 {
		warnSheet, err := f.AddSheet("Warnings")
		if err != nil {
			return eris.Wrap(err, "export: add warnings sheet")
		}
		wh := warnSheet.AddRow()
		for _, col := range []string{"company_id", "metric", "message"} {
			wh.AddCell().SetString(col)
		}
		for _, warning := range result.Debug.Warnings {
			row := warnSheet.AddRow()
			row.AddCell().SetString(warning.CompanyID)
			row.AddCell().SetString(warning.Metric)
			row.AddCell().SetString(warning.Message)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}
