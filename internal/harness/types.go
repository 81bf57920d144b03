package harness

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Definitions lists the module's definition names in order.
	Definitions []string `json:"definitions"`

	// Source is the rendered module, empty when the translation failed.
	Source string `json:"source,omitempty"`

	// Warnings lists the warning codes of the translation.
	Warnings []string `json:"warnings"`

	// Stage and ErrorKind describe a failed translation. ErrorKind is only
	// set for lowering errors.
	Stage     string `json:"stage,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
	Message   string `json:"message,omitempty"`

	// RunID and Seq identify the recorded translation.
	RunID string `json:"run_id,omitempty"`
	Seq   int64  `json:"seq"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Definitions: []string{},
		Warnings:    []string{},
		Errors:      []string{},
	}
}

// Failed reports whether the translation itself failed.
func (r *Result) Failed() bool {
	return r.Stage != ""
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
