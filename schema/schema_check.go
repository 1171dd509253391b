package schema

import "errors"

// ErrGateFailed is returned when the gate fails and enforcement is enabled.
var ErrGateFailed = errors.New("gate failed")

// GateResult holds the outcome of the coverage and test-failure gate.
type GateResult struct {
	Passed      bool     `json:"passed"`
	Coverage    float64  `json:"coverage_percent"`
	MinCoverage float64  `json:"min_coverage"`
	Failures    int      `json:"failures"`
	Errors      int      `json:"errors"`
	Reasons     []string `json:"reasons,omitempty"`
}

// Status returns the gate outcome as a GateStatus.
func (g GateResult) Status() GateStatus {
	if g.Passed {
		return GatePass
	}
	return GateFail
}
