package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	ErrExportGenerateFail = errors.New("generate results spreadsheet")
)

// ExportService renders results as a spreadsheet.
type ExportService interface {
	// ExportResults returns the workbook and a suggested file name.
	ExportResults(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	results ResultService
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService creates an ExportService on top of results.
func NewExportService(results ResultService, logger *zap.Logger) ExportService {
	return &exportService{results: results, logger: logger, now: time.Now}
}

const resultsSheet = "Results"

var exportHeader = []string{
	"Position", "Contestant", "Votes", "Percentage",
	"Yes", "No", "Cancelled", "Winner",
}

// ═══════════════════════════════════════════════════════════
// ExportResults
// ═══════════════════════════════════════════════════════════
//
// One row per contestant, followed by a totals row for each position.

func (s *exportService) ExportResults(ctx context.Context) (*bytes.Buffer, string, error) {
	results, err := s.results.Realtime(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, "", s.fail(err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", s.fail(err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Italic: true}})
	if err != nil {
		return nil, "", s.fail(err)
	}

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(resultsSheet, cell, h); err != nil {
			return nil, "", s.fail(err)
		}
	}
	if err := f.SetCellStyle(resultsSheet, "A1", "H1", headerStyle); err != nil {
		return nil, "", s.fail(err)
	}

	row := 2
	for _, pr := range results {
		for _, c := range pr.Contestants {
			winner := ""
			if pr.Winner != nil && pr.Winner.ID == c.ID {
				winner = "yes"
			}
			values := []interface{}{
				pr.Position.Name, c.Name, c.Votes, c.Percentage,
				c.YesVotes, c.NoVotes, c.CancelledVotes, winner,
			}
			if err := setRow(f, row, values); err != nil {
				return nil, "", s.fail(err)
			}
			row++
		}

		totals := []interface{}{
			pr.Position.Name, "Total valid / cancelled", pr.TotalValidVotes, "",
			"", "", pr.TotalCancelledVotes, "",
		}
		if err := setRow(f, row, totals); err != nil {
			return nil, "", s.fail(err)
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(exportHeader), row)
		if err := f.SetCellStyle(resultsSheet, start, end, totalStyle); err != nil {
			return nil, "", s.fail(err)
		}
		row++
	}

	_ = f.SetColWidth(resultsSheet, "A", "B", 28)
	_ = f.SetColWidth(resultsSheet, "C", "H", 12)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.fail(err)
	}

	filename := fmt.Sprintf("results-%s.xlsx", s.now().Format("20060102-1504"))
	return buf, filename, nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(resultsSheet, cell, &values)
}

func (s *exportService) fail(err error) error {
	s.logger.Error("build results workbook failed", zap.Error(err))
	return ErrExportGenerateFail
}
