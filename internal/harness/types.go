package harness

import "github.com/nan-1212/abipy/internal/fixture"

// Result is the outcome of running one case.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Errors lists the failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Codes lists the validation codes reported for the document.
	Codes []string `json:"codes,omitempty"`

	// Identity is set when the document decoded.
	Identity *fixture.Identity `json:"identity,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
