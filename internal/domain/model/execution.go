package model

import "fmt"

type ExecutionMode string

const (
	// ModeRun grades public test cases only and never awards points.
	ModeRun ExecutionMode = "run"
	// ModeSubmit grades public plus hidden cases; an all-pass may award points.
	ModeSubmit ExecutionMode = "submission"
)

// ParseExecutionMode maps an API mode selector to an ExecutionMode. Both
// "submit" and "submission" select submission grading.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch s {
	case string(ModeRun):
		return ModeRun, nil
	case "submit", string(ModeSubmit):
		return ModeSubmit, nil
	}
	return "", fmt.Errorf("unknown execution mode %q", s)
}

type ExecutionStatus string

const (
	StatusAccepted     ExecutionStatus = "Accepted"
	StatusWrongAnswer  ExecutionStatus = "Wrong Answer"
	StatusRuntimeError ExecutionStatus = "Runtime Error"
	StatusAPIError     ExecutionStatus = "API Error"
	StatusNetworkError ExecutionStatus = "Network Error"
)

// ExecutionResult is the graded outcome of one test case. For hidden cases the
// Input/Expected/Actual/Error fields are redacted before the result leaves the
// orchestrator; only Status, Passed and Hidden survive.
type ExecutionResult struct {
	Input    string          `json:"input,omitempty"`
	Expected string          `json:"expected,omitempty"`
	Actual   string          `json:"actual,omitempty"`
	Error    string          `json:"error,omitempty"`
	Passed   bool            `json:"passed"`
	Hidden   bool            `json:"hidden"`
	Status   ExecutionStatus `json:"status"`
}

// Redacted returns a copy safe to show for a hidden test case.
func (r ExecutionResult) Redacted() ExecutionResult {
	return ExecutionResult{
		Passed: r.Passed,
		Hidden: r.Hidden,
		Status: r.Status,
	}
}

// Verdict aggregates the results of one run/submit batch. Results preserve the
// selection order: public cases in catalog order, then hidden cases in catalog
// order.
type Verdict struct {
	ProblemID int               `json:"problem_id"`
	Mode      ExecutionMode     `json:"mode"`
	Language  Language          `json:"language"`
	Results   []ExecutionResult `json:"results"`
	AllPassed bool              `json:"all_passed"`
	Credit    *CreditOutcome    `json:"credit,omitempty"`
}

// CreditOutcome reports what the progress ledger did after an all-passing
// submission by an authenticated user.
type CreditOutcome struct {
	Awarded       bool `json:"awarded"`
	AlreadySolved bool `json:"already_solved"`
	Points        int  `json:"points,omitempty"`
	TotalPoints   int  `json:"total_points,omitempty"`
}
