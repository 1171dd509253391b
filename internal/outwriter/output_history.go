package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const historyTimeFormat = "2006-01-02 15:04:05"

// coverageDelta returns the coverage change of runs[i] against the next older run.
// Runs are ordered newest first; the oldest listed run has no delta.
func coverageDelta(runs []schema.RunRecord, i int) string {
	if i+1 >= len(runs) {
		return "-"
	}
	return schema.FormatDelta(runs[i+1].Coverage, runs[i].Coverage)
}

// PrintHistoryRuns outputs stored runs, dispatching based on the output format configured.
func PrintHistoryRuns(stdout io.Writer, runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, stdout, func(w io.Writer) error {
			return writeJSONHistory(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, stdout, func(w io.Writer) error {
			return writeCSVHistory(w, runs)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, stdout, func(w io.Writer) error {
			return writeHistoryTable(w, runs, cfg)
		}, "Wrote table")
	}
}

// writeJSONHistory marshals the runs with their coverage delta added.
func writeJSONHistory(w io.Writer, runs []schema.RunRecord) error {
	type JSONRunRecord struct {
		schema.RunRecord
		CoverageDelta string `json:"coverage_delta"`
	}

	output := make([]JSONRunRecord, len(runs))
	for i, r := range runs {
		output[i] = JSONRunRecord{RunRecord: r, CoverageDelta: coverageDelta(runs, i)}
	}
	return writeJSON(w, output)
}

func writeCSVHistory(w io.Writer, runs []schema.RunRecord) error {
	header := []string{
		"run_id",
		"run_time",
		"artifacts_dir",
		"tests",
		"failures",
		"errors",
		"skipped",
		"lines_found",
		"lines_hit",
		"coverage_percent",
		"coverage_delta",
		"min_coverage",
		"gate",
		"files_scanned",
		"files_failed",
		"duration_ms",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range runs {
			row := []string{
				strconv.FormatInt(r.RunID, 10),
				r.RunTime.UTC().Format(time.RFC3339),
				r.ArtifactsDir,
				strconv.Itoa(r.Totals.Tests),
				strconv.Itoa(r.Totals.Failures),
				strconv.Itoa(r.Totals.Errors),
				strconv.Itoa(r.Totals.Skipped),
				strconv.Itoa(r.Totals.LinesFound),
				strconv.Itoa(r.Totals.LinesHit),
				strconv.FormatFloat(r.Coverage, 'f', 1, 64),
				coverageDelta(runs, i),
				strconv.FormatFloat(r.MinCoverage, 'f', 1, 64),
				contract.GetPlainLabel(r.GatePassed),
				strconv.Itoa(r.FilesScanned),
				strconv.Itoa(r.FilesFailed),
				strconv.FormatInt(r.DurationMs, 10),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

func writeHistoryTable(w io.Writer, runs []schema.RunRecord, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Time", "Tests", "Failures", "Errors", "Coverage", "Delta", "Gate"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(runs))
	for i, r := range runs {
		label := contract.GetPlainLabel(r.GatePassed)
		if cfg.UseColors {
			label = contract.GetColorLabel(r.GatePassed)
		}
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.RunTime.Local().Format(historyTimeFormat),
			humanize.Comma(int64(r.Totals.Tests)),
			humanize.Comma(int64(r.Totals.Failures)),
			humanize.Comma(int64(r.Totals.Errors)),
			schema.FormatPercent(r.Coverage),
			coverageDelta(runs, i),
			label,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d most recent runs (backend: %s)\n", len(runs), cfg.HistoryBackend)
	return err
}
