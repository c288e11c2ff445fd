// Package export writes scored résumés to an Excel workbook.
package export

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/muhammadolammi/resumatch/internal/resume"
	"github.com/muhammadolammi/resumatch/internal/scoring"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	rankedSheet  = "Ranked"
	skillsSheet  = "Skills"
)

// Row is one scored input file. Err is set when the file could not be
// extracted; Record and Result are then zero.
type Row struct {
	File   string
	Record resume.Record
	Result scoring.Result
	Err    error
}

// XLSXPath appends .xlsx to path when it has another extension.
func XLSXPath(path string) string {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	return filepath.Clean(path)
}

// Rank orders rows by score, highest first, keeping input order for ties.
// Failed rows go last.
func Rank(rows []Row) []Row {
	ranked := slices.Clone(rows)
	slices.SortStableFunc(ranked, func(a, b Row) int {
		if (a.Err != nil) != (b.Err != nil) {
			if a.Err != nil {
				return 1
			}
			return -1
		}
		return cmp.Compare(b.Result.Score, a.Result.Score)
	})
	return ranked
}

// WriteWorkbook writes a Summary, a Ranked and a Skills sheet to path.
func WriteWorkbook(path, jobTitle string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	ranked := Rank(rows)

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	for _, name := range []string{rankedSheet, skillsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create %s sheet: %w", name, err)
		}
	}

	if err := writeSummary(f, jobTitle, ranked); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeRanked(f, ranked); err != nil {
		return fmt.Errorf("failed to create ranked sheet: %w", err)
	}
	if err := writeSkills(f, ranked); err != nil {
		return fmt.Errorf("failed to create skills sheet: %w", err)
	}

	if err := f.SaveAs(XLSXPath(path)); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

// setRow writes values starting at column A of the given row.
func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeHeader(f *excelize.File, sheet string, headers ...any) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, headers...); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeSummary(f *excelize.File, jobTitle string, ranked []Row) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 50); err != nil {
		return err
	}

	var scored []int
	for _, r := range ranked {
		if r.Err == nil {
			scored = append(scored, r.Result.Score)
		}
	}

	lines := [][]any{
		{"Résumé Match Report"},
		{},
		{"Job Title:", jobTitle},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Files:", len(ranked)},
		{"Scored:", len(scored)},
		{"Failed:", len(ranked) - len(scored)},
	}
	if len(scored) > 0 {
		total := 0
		for _, s := range scored {
			total += s
		}
		lines = append(lines,
			[]any{},
			[]any{"Average Score:", fmt.Sprintf("%.2f", float64(total)/float64(len(scored)))},
			[]any{"Highest Score:", slices.Max(scored)},
			[]any{"Lowest Score:", slices.Min(scored)},
		)
	}

	for i, values := range lines {
		if len(values) == 0 {
			continue
		}
		if err := setRow(f, summarySheet, i+1, values...); err != nil {
			return err
		}
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", style); err != nil {
		return err
	}
	return f.MergeCell(summarySheet, "A1", "B1")
}

func writeRanked(f *excelize.File, ranked []Row) error {
	if err := writeHeader(f, rankedSheet, "Rank", "File", "Candidate", "Email", "Phone", "Score", "Skills", "Error"); err != nil {
		return err
	}
	if err := f.SetColWidth(rankedSheet, "B", "G", 25); err != nil {
		return err
	}

	for i, r := range ranked {
		values := []any{i + 1, r.File}
		if r.Err != nil {
			values = append(values, "", "", "", "", "", r.Err.Error())
		} else {
			values = append(values, r.Record.Name, r.Record.Email, r.Record.Phone, r.Result.Score, strings.Join(r.Record.Skills, ", "))
		}
		if err := setRow(f, rankedSheet, i+2, values...); err != nil {
			return err
		}
	}
	return nil
}

func writeSkills(f *excelize.File, ranked []Row) error {
	if err := writeHeader(f, skillsSheet, "Rank", "Candidate", "Skill", "Importance"); err != nil {
		return err
	}

	row := 2
	for i, r := range ranked {
		if r.Err != nil {
			continue
		}
		skills := make([]string, 0, len(r.Result.SkillsMatch))
		for skill := range r.Result.SkillsMatch {
			skills = append(skills, skill)
		}
		slices.SortFunc(skills, func(a, b string) int {
			if c := cmp.Compare(r.Result.SkillsMatch[b], r.Result.SkillsMatch[a]); c != 0 {
				return c
			}
			return strings.Compare(a, b)
		})

		candidate := cmp.Or(r.Record.Name, r.File)
		for _, skill := range skills {
			if err := setRow(f, skillsSheet, row, i+1, candidate, skill, r.Result.SkillsMatch[skill]); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}
