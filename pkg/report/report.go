// Package report records item outcomes and writes them as an XLSX workbook.
package report

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nodewee/img2md/pkg/constants"
	"github.com/nodewee/img2md/pkg/logger"
	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

const (
	OutcomesSheet = constants.DefaultReportSheetName
	SummarySheet  = constants.DefaultSummarySheetName
)

var outcomeHeaders = []string{"#", "File", "Status", "Output", "Assets", "Duration (ms)", "Error"}

// Collector gathers outcomes as they are reported by a batch run
type Collector struct {
	mu       sync.Mutex
	outcomes []types.ItemOutcome
	logger   *logger.Logger
}

// NewCollector creates an empty collector
func NewCollector(log *logger.Logger) *Collector {
	if log == nil {
		log = logger.Discard()
	}
	return &Collector{logger: log}
}

// Observe records one outcome
func (c *Collector) Observe(o types.ItemOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, o)
}

// Outcomes returns a copy of the recorded outcomes in arrival order
func (c *Collector) Outcomes() []types.ItemOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.ItemOutcome(nil), c.outcomes...)
}

// Reset drops everything recorded so far
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = nil
}

// Build renders the workbook. result may be nil when the run never reached
// the processing stage.
func (c *Collector) Build(result *types.ProcessingResult) (*excelize.File, error) {
	outcomes := c.Outcomes()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", OutcomesSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, err
	}

	for i, h := range outcomeHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(OutcomesSheet, cell, h)
	}

	for i, o := range outcomes {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(OutcomesSheet, cell, v)
		}
		write(1, o.Index+1)
		write(2, o.Candidate.Name)
		write(3, string(o.Status))
		write(4, o.OutputPath)
		write(5, o.AssetCount)
		write(6, o.Duration.Milliseconds())
		write(7, o.ErrorMessage())
	}

	_ = f.SetColWidth(OutcomesSheet, "A", "A", 6)
	_ = f.SetColWidth(OutcomesSheet, "B", "B", 32)
	_ = f.SetColWidth(OutcomesSheet, "C", "C", 12)
	_ = f.SetColWidth(OutcomesSheet, "D", "D", 48)
	_ = f.SetColWidth(OutcomesSheet, "E", "F", 14)
	_ = f.SetColWidth(OutcomesSheet, "G", "G", 60)

	if result == nil {
		result = summarize(outcomes)
	}
	summary := [][2]any{
		{"Run ID", result.RunID},
		{"Input directory", result.InputDir},
		{"Total", result.Total},
		{"Succeeded", result.Succeeded},
		{"Failed", result.Failed},
		{"Skipped", result.Skipped},
		{"Duration", result.Duration.Round(time.Millisecond).String()},
	}
	for i, kv := range summary {
		for col, v := range kv {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			_ = f.SetCellValue(SummarySheet, cell, v)
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 18)
	_ = f.SetColWidth(SummarySheet, "B", "B", 60)

	f.SetActiveSheet(0)
	return f, nil
}

// WriteFile builds the workbook and saves it at path
func (c *Collector) WriteFile(path string, result *types.ProcessingResult) error {
	f, err := c.Build(result)
	if err != nil {
		return utils.NewIOError("failed to build report", err)
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return utils.NewIOError(fmt.Sprintf("failed to write report: %s", path), err)
	}

	c.logger.Info("report written", "path", path, "rows", len(c.Outcomes()))
	return nil
}

// Bytes builds the workbook and returns its serialized form
func (c *Collector) Bytes(result *types.ProcessingResult) ([]byte, error) {
	f, err := c.Build(result)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf *bytes.Buffer
	if buf, err = f.WriteToBuffer(); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func summarize(outcomes []types.ItemOutcome) *types.ProcessingResult {
	r := &types.ProcessingResult{}
	for _, o := range outcomes {
		r.Record(o)
	}
	return r
}
