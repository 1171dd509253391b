package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/internal/parquet"
)

// ExecuteHistoryExport exports every stored run from store to a Parquet file.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("no history backend configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	runs, err := store.ListRuns(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	rows := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(rows), outputFile)
	return nil
}
