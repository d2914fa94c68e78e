package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/spiral/internal/ir"
)

// StepTrace is the outcome of one step: the error kind it failed with, if
// any, and the issuances its operation committed.
type StepTrace struct {
	Index     int           `json:"index"`
	Op        string        `json:"op"`
	Error     string        `json:"error,omitempty"`
	Issuances []ir.Issuance `json:"issuances,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step matched its expectation and every
	// assertion held.
	Pass bool `json:"pass"`

	Trace  []StepTrace `json:"trace"`
	Errors []string    `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Trace: []StepTrace{}, Errors: []string{}}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// FormatTrace renders the trace of a run in the golden file format:
//
//	scenario: <name>
//	#1 create_community ok
//	#2 join ok
//	  issue alice 1.0000 BES "Thanks for helping Bespiral grow!"
//	#3 cast_vote error=duplicate
func FormatTrace(name string, trace []StepTrace) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	for _, st := range trace {
		if st.Error == "" {
			fmt.Fprintf(&b, "#%d %s ok\n", st.Index, st.Op)
		} else {
			fmt.Fprintf(&b, "#%d %s error=%s\n", st.Index, st.Op, st.Error)
		}
		for _, iss := range st.Issuances {
			switch iss.Kind {
			case ir.IssuanceInitAcc:
				fmt.Fprintf(&b, "  initacc %s %s\n", iss.Quantity.Symbol, iss.Account)
			default:
				fmt.Fprintf(&b, "  issue %s %s %q\n", iss.Account, iss.Quantity, iss.Memo)
			}
		}
	}
	return []byte(b.String())
}
