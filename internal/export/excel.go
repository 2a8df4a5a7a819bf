// Package export writes analysis reports to Excel workbooks.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Kele901/career-projector/internal/models"
)

const (
	SummarySheet         = "Summary"
	RecommendationsSheet = "Recommendations"
	WorkHistorySheet     = "Work History"
	SkillsSheet          = "Skills"
)

// Band is a colour band for match scores
type Band struct {
	Label string
	Min   float64
	Color string
}

// Bands are checked top down; the last one catches everything else
var Bands = []Band{
	{Label: "Strong (0.70-1.00)", Min: 0.7, Color: "C6EFCE"},
	{Label: "Good (0.50-0.69)", Min: 0.5, Color: "FFEB9C"},
	{Label: "Fair (0.30-0.49)", Min: 0.3, Color: "FFC7CE"},
	{Label: "Weak (<0.30)", Min: 0, Color: "FF9999"},
}

// BandFor returns the index into Bands for a score
func BandFor(score float64) int {
	for i, b := range Bands {
		if score >= b.Min {
			return i
		}
	}
	return len(Bands) - 1
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

type styles struct {
	title  int
	header int
	label  int
	wrap   int
	bands  []int
	links  []int
}

func newStyles(f *excelize.File) (*styles, error) {
	s := &styles{}
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return nil, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	}); err != nil {
		return nil, err
	}
	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	if s.wrap, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder,
	}); err != nil {
		return nil, err
	}

	for _, b := range Bands {
		fill := excelize.Fill{Type: "pattern", Color: []string{b.Color}, Pattern: 1}
		band, err := f.NewStyle(&excelize.Style{Fill: fill, Border: thinBorder})
		if err != nil {
			return nil, err
		}
		link, err := f.NewStyle(&excelize.Style{
			Font:   &excelize.Font{Color: "0563C1", Underline: "single"},
			Fill:   fill,
			Border: thinBorder,
		})
		if err != nil {
			return nil, err
		}
		s.bands = append(s.bands, band)
		s.links = append(s.links, link)
	}
	return s, nil
}

// ExportToExcel writes the reports to an .xlsx file and returns the path written.
// The extension is added when missing.
func ExportToExcel(reports []models.Report, outputPath string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f, err := Build(reports, time.Now())
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(outputPath); err != nil {
		// Some network drives reject excelize's temp-file save; retry with a plain write.
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return "", fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return "", fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}
	return outputPath, nil
}

// WriteExcel streams the workbook to w
func WriteExcel(w io.Writer, reports []models.Report) error {
	f, err := Build(reports, time.Now())
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel workbook: %w", err)
	}
	return nil
}

// Build lays out the workbook. Reports are written in the order given.
func Build(reports []models.Report, generated time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{RecommendationsSheet, WorkHistorySheet, SkillsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create styles: %w", err)
	}

	steps := []struct {
		name  string
		write func(*excelize.File, *styles, []models.Report) error
	}{
		{"summary", func(f *excelize.File, st *styles, r []models.Report) error {
			return createSummarySheet(f, st, r, generated)
		}},
		{"recommendations", createRecommendationsSheet},
		{"work history", createWorkHistorySheet},
		{"skills", createSkillsSheet},
	}
	for _, step := range steps {
		if err := step.write(f, st, reports); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create %s sheet: %w", step.name, err)
		}
	}
	return f, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func colName(i int) string {
	name, _ := excelize.ColumnNumberToName(i + 1)
	return name
}

func writeHeader(f *excelize.File, sheet string, st *styles, headers []string, widths []float64) {
	for i, h := range headers {
		c := cell(colName(i), 1)
		f.SetCellValue(sheet, c, h)
		f.SetCellStyle(sheet, c, c, st.header)
		if i < len(widths) {
			f.SetColWidth(sheet, colName(i), colName(i), widths[i])
		}
	}
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// createSummarySheet lists every candidate with the best pathway and the score bands
func createSummarySheet(f *excelize.File, st *styles, reports []models.Report, generated time.Time) error {
	sheet := SummarySheet
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 50)

	row := 1
	f.SetCellValue(sheet, cell("A", row), "Career Pathway Report")
	f.SetCellStyle(sheet, cell("A", row), cell("B", row), st.title)
	if err := f.MergeCell(sheet, cell("A", row), cell("B", row)); err != nil {
		return err
	}
	row += 2

	label := func(name string, value any) {
		f.SetCellValue(sheet, cell("A", row), name)
		f.SetCellStyle(sheet, cell("A", row), cell("A", row), st.label)
		f.SetCellValue(sheet, cell("B", row), value)
		row++
	}
	label("Generated:", generated.Format("2006-01-02 15:04:05"))
	label("Candidates Analysed:", len(reports))
	row++

	counts := make([]int, len(Bands))
	var total float64
	var scored int
	for _, r := range reports {
		if len(r.Recommendations) == 0 {
			continue
		}
		counts[BandFor(r.TopScore())]++
		total += r.TopScore()
		scored++
	}

	f.SetCellValue(sheet, cell("A", row), "Best Match Distribution:")
	f.SetCellStyle(sheet, cell("A", row), cell("B", row), st.title)
	if err := f.MergeCell(sheet, cell("A", row), cell("B", row)); err != nil {
		return err
	}
	row++
	for i, b := range Bands {
		f.SetCellValue(sheet, cell("A", row), b.Label)
		f.SetCellValue(sheet, cell("B", row), counts[i])
		f.SetCellStyle(sheet, cell("A", row), cell("B", row), st.bands[i])
		row++
	}
	label("Without Recommendations:", len(reports)-scored)
	if scored > 0 {
		label("Average Best Score:", fmt.Sprintf("%.2f", total/float64(scored)))
	}
	row++

	top := row
	writeRow := func(values ...any) {
		for i, v := range values {
			f.SetCellValue(sheet, cell(colName(i), row), v)
		}
		row++
	}
	f.SetColWidth(sheet, "C", "E", 18)
	writeRow("Candidate", "Best Pathway", "Match Score", "Trajectory", "Skills Found")
	f.SetCellStyle(sheet, cell("A", top), cell("E", top), st.header)
	for _, r := range reports {
		best, score := "-", 0.0
		if len(r.Recommendations) > 0 {
			best, score = r.Recommendations[0].Pathway, r.TopScore()
		}
		writeRow(r.Name, best, score, string(r.Trajectory.Type), len(r.Skills))
		f.SetCellStyle(sheet, cell("A", row-1), cell("E", row-1), st.bands[BandFor(score)])
	}
	return nil
}

// createRecommendationsSheet writes one colour-coded row per candidate and pathway
func createRecommendationsSheet(f *excelize.File, st *styles, reports []models.Report) error {
	sheet := RecommendationsSheet
	headers := []string{"Rank", "Candidate", "Pathway", "Match Score", "Experience", "Progression",
		"Context", "Recency", "Missing Skills", "Reasoning", "AI Insight", "Roadmap", "CV"}
	widths := []float64{8, 22, 26, 12, 12, 12, 10, 10, 40, 60, 40, 14, 12}
	writeHeader(f, sheet, st, headers, widths)

	row := 2
	for _, r := range reports {
		for i, rec := range r.Recommendations {
			band := BandFor(rec.MatchScore)
			values := []any{
				i + 1, r.Name, rec.Pathway, rec.MatchScore,
				rec.ExperienceRelevance, rec.CareerProgressionScore,
				rec.CompanyContextMatch, rec.RecencyBoost,
				strings.Join(rec.RecommendedSkills, ", "), rec.Reasoning, insightText(rec),
			}
			for col, v := range values {
				f.SetCellValue(sheet, cell(colName(col), row), v)
			}
			f.SetCellStyle(sheet, cell("A", row), cell("K", row), st.bands[band])
			f.SetCellStyle(sheet, cell("I", row), cell("K", row), st.wrap)

			setLink(f, sheet, cell("L", row), "Open Roadmap", rec.RoadmapURL, st, band)
			setLink(f, sheet, cell("M", row), "Open CV", fileURL(r.Source), st, band)
			row++
		}
	}

	if row > 2 {
		return f.AutoFilter(sheet, fmt.Sprintf("A1:M%d", row-1), []excelize.AutoFilterOptions{})
	}
	return nil
}

// createWorkHistorySheet writes the parsed roles of every candidate
func createWorkHistorySheet(f *excelize.File, st *styles, reports []models.Report) error {
	sheet := WorkHistorySheet
	headers := []string{"Candidate", "Job Title", "Company", "Start", "End", "Months", "Seniority",
		"Company Size", "Industry", "Technologies"}
	widths := []float64{22, 30, 24, 10, 10, 8, 12, 14, 12, 40}
	writeHeader(f, sheet, st, headers, widths)

	row := 2
	for _, r := range reports {
		for _, w := range r.WorkHistory {
			var months any = "unknown"
			if w.DurationMonths != nil {
				months = *w.DurationMonths
			}
			values := []any{r.Name, w.JobTitle, w.CompanyName, w.StartDate, w.EndDate, months,
				string(w.SeniorityLevel), string(w.CompanySize), string(w.CompanyIndustry), w.TechnologiesUsed}
			for col, v := range values {
				f.SetCellValue(sheet, cell(colName(col), row), v)
			}
			f.SetCellStyle(sheet, cell("A", row), cell("J", row), st.wrap)
			row++
		}
	}
	return nil
}

// createSkillsSheet writes the extracted skills of every candidate
func createSkillsSheet(f *excelize.File, st *styles, reports []models.Report) error {
	sheet := SkillsSheet
	writeHeader(f, sheet, st, []string{"Candidate", "Skill", "Category", "Level", "Confidence"}, []float64{22, 24, 12, 14, 12})

	row := 2
	for _, r := range reports {
		for _, s := range r.Skills {
			values := []any{r.Name, s.Name, string(s.Category), string(s.Level), s.Confidence}
			for col, v := range values {
				f.SetCellValue(sheet, cell(colName(col), row), v)
			}
			row++
		}
	}
	return nil
}

func setLink(f *excelize.File, sheet, c, text, url string, st *styles, band int) {
	if url == "" {
		f.SetCellStyle(sheet, c, c, st.bands[band])
		return
	}
	f.SetCellValue(sheet, c, text)
	f.SetCellHyperLink(sheet, c, url, "External")
	f.SetCellStyle(sheet, c, c, st.links[band])
}

// fileURL turns a local path into a file:// link with forward slashes
func fileURL(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file:///" + strings.TrimPrefix(strings.ReplaceAll(abs, "\\", "/"), "/")
}

func insightText(rec models.Recommendation) string {
	if !rec.IsAIEnhanced || len(rec.AIInsight) == 0 {
		return ""
	}
	if raw, ok := rec.AIInsight["raw_insight"].(string); ok {
		return raw
	}
	for _, key := range []string{"profile_analysis", "best_pathway"} {
		if v, ok := rec.AIInsight[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
