// Package report assembles and renders pipeline run reports.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Stage status values.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Stage names, in pipeline order.
const (
	StageGenerate  = "generate"
	StageWrite     = "write_csv"
	StageAddID     = "add_unique_id"
	StageNormalize = "normalize_datetime"
)

// -----------------------------
// Report Types
// -----------------------------

// StageResult captures the outcome of one pipeline stage.
type StageResult struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Rows     int64         `json:"rows"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// RunReport aggregates a full pipeline run.
type RunReport struct {
	Records    int           `json:"records"`
	OutputPath string        `json:"output_path"`
	Seed       uint64        `json:"seed,omitempty"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration"`
	Stages     []StageResult `json:"stages"`
	Success    bool          `json:"success"`
}

// -----------------------------
// Report Storage
// -----------------------------

// RunStore abstracts run report storage.
type RunStore interface {
	Save(run RunReport) error
	SaveWithContext(ctx context.Context, run RunReport) error
}

// JSONRunStore stores run reports as JSON.
type JSONRunStore struct {
	FilePath string
}

func (j *JSONRunStore) Save(run RunReport) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	if j.FilePath != "" {
		return os.WriteFile(j.FilePath, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}

func (j *JSONRunStore) SaveWithContext(ctx context.Context, run RunReport) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return j.Save(run)
	}
}

// RunFromFilePath loads a run report from a file.
func RunFromFilePath(path string) (RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunReport{}, err
	}

	var run RunReport
	if err := json.Unmarshal(data, &run); err != nil {
		return RunReport{}, err
	}
	return run, nil
}

// -----------------------------
// Text Rendering
// -----------------------------

// WriteSummary prints a human-readable run summary to the specified writer.
func WriteSummary(w io.Writer, run RunReport) {
	fmt.Fprintln(w, "\nRun Summary:")
	fmt.Fprintf(w, "  Records:  %d\n", run.Records)
	fmt.Fprintf(w, "  Output:   %s\n", run.OutputPath)
	if run.Seed != 0 {
		fmt.Fprintf(w, "  Seed:     %d\n", run.Seed)
	}
	fmt.Fprintf(w, "  Duration: %s\n", run.Duration.Round(time.Millisecond))

	fmt.Fprintln(w, "\nStages:")
	for _, stage := range run.Stages {
		line := fmt.Sprintf("  %-20s %-8s %s", stage.Name, stage.Status, stage.Duration.Round(time.Millisecond))
		if stage.Error != "" {
			line += "  " + stage.Error
		}
		fmt.Fprintln(w, line)
	}

	if run.Success {
		fmt.Fprintln(w, "\nResult: OK")
	} else {
		fmt.Fprintln(w, "\nResult: FAILED")
	}
}
