package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// FormatJUnitCounts renders "<t> tests, <f> failures, <e> errors, <s> skipped".
func FormatJUnitCounts(t schema.RunTotals) string {
	return fmt.Sprintf("%d tests, %d failures, %d errors, %d skipped", t.Tests, t.Failures, t.Errors, t.Skipped)
}

// FormatCoverage renders "<pct>% (LH=<hit>, LF=<found>)".
func FormatCoverage(t schema.RunTotals, coverage float64) string {
	return fmt.Sprintf("%s (LH=%d, LF=%d)", schema.FormatPercent(coverage), t.LinesHit, t.LinesFound)
}

// PrintRunSummary outputs the run summary, dispatching based on the output format configured.
func PrintRunSummary(stdout io.Writer, report *schema.RunReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, stdout, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, stdout, func(w io.Writer) error {
			return writeCSVSummary(w, report)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.TableOut:
		if err := writeWithFile(cfg.OutputFile, stdout, func(w io.Writer) error {
			return writeSummaryTable(w, report, cfg)
		}, "Wrote table"); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, stdout, func(w io.Writer) error {
			return writeTextSummary(w, report)
		}, "Wrote text"); err != nil {
			return fmt.Errorf("error writing text output: %w", err)
		}
	}
	return nil
}

// writeTextSummary writes the two summary lines.
func writeTextSummary(w io.Writer, report *schema.RunReport) error {
	t := report.Scan.Totals
	if _, err := fmt.Fprintf(w, "JUnit: %s\n", FormatJUnitCounts(t)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Coverage: %s\n", FormatCoverage(t, report.Coverage))
	return err
}

// writeCSVSummary writes the totals and gate outcome as a single CSV row.
func writeCSVSummary(w io.Writer, report *schema.RunReport) error {
	header := []string{
		"artifacts_dir",
		"tests",
		"failures",
		"errors",
		"skipped",
		"lines_found",
		"lines_hit",
		"coverage_percent",
		"min_coverage",
		"gate",
		"files_scanned",
		"files_failed",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		t := report.Scan.Totals
		return cw.Write([]string{
			report.Scan.Root,
			strconv.Itoa(t.Tests),
			strconv.Itoa(t.Failures),
			strconv.Itoa(t.Errors),
			strconv.Itoa(t.Skipped),
			strconv.Itoa(t.LinesFound),
			strconv.Itoa(t.LinesHit),
			strconv.FormatFloat(report.Coverage, 'f', 1, 64),
			strconv.FormatFloat(report.Gate.MinCoverage, 'f', 1, 64),
			string(report.Gate.Status()),
			strconv.Itoa(report.Scan.FilesScanned),
			strconv.Itoa(report.Scan.FilesFailed()),
		})
	})
}

// writeSummaryTable prints the totals and any diagnostics using the tablewriter API.
func writeSummaryTable(w io.Writer, report *schema.RunReport, cfg *contract.Config) error {
	t := report.Scan.Totals

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	gateLabel := contract.GetPlainLabel(report.Gate.Passed)
	if cfg.UseColors {
		gateLabel = contract.GetColorLabel(report.Gate.Passed)
	}

	data := [][]string{
		{"Tests", humanize.Comma(int64(t.Tests))},
		{"Failures", humanize.Comma(int64(t.Failures))},
		{"Errors", humanize.Comma(int64(t.Errors))},
		{"Skipped", humanize.Comma(int64(t.Skipped))},
		{"Lines found", humanize.Comma(int64(t.LinesFound))},
		{"Lines hit", humanize.Comma(int64(t.LinesHit))},
		{"Coverage", schema.FormatPercent(report.Coverage)},
		{"Min coverage", schema.FormatPercent(report.Gate.MinCoverage)},
		{"Gate", gateLabel},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(report.Scan.Diagnostics) > 0 {
		if err := writeDiagnosticsTable(w, report.Scan.Diagnostics, cfg); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Scanned %d artifacts (%d failed) in %v\n",
		report.Scan.FilesScanned, report.Scan.FilesFailed(), report.Duration)
	return err
}

// writeDiagnosticsTable lists the artifacts that could not be parsed.
func writeDiagnosticsTable(w io.Writer, diags []schema.Diagnostic, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Kind", "Path", "Message"})

	maxPath := getMaxTablePathWidth(cfg)
	data := make([][]string, 0, len(diags))
	for _, d := range diags {
		kind := string(d.Kind)
		if cfg.UseColors {
			kind = contract.WarnColor.Sprint(kind)
		}
		data = append(data, []string{kind, contract.TruncatePath(d.Path, maxPath), d.Message})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
