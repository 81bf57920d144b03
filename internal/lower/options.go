package lower

import (
	"fmt"

	"github.com/roach88/jutus/internal/canonical"
)

// IfBranch selects which IR arm becomes the body of the lowered branch.
type IfBranch int

const (
	// IfBranchElse lowers both the branch body and the final else from the
	// else arm. The then arm is never read.
	IfBranchElse IfBranch = iota
	// IfBranchThen lowers the branch body from the then arm and the final else
	// from the else arm.
	IfBranchThen
)

func (b IfBranch) String() string {
	switch b {
	case IfBranchElse:
		return "else"
	case IfBranchThen:
		return "then"
	}
	return fmt.Sprintf("IfBranch(%d)", int(b))
}

// ParseIfBranch accepts "else" or "then".
func ParseIfBranch(s string) (IfBranch, error) {
	switch s {
	case "else":
		return IfBranchElse, nil
	case "then":
		return IfBranchThen, nil
	}
	return 0, fmt.Errorf("invalid if branch policy %q (want else or then)", s)
}

// FloatPolicy decides how float literals become target integers.
type FloatPolicy int

const (
	// FloatsRejectFractional accepts finite integral floats and lowers them
	// to their exact integer text; -0 becomes 0.
	FloatsRejectFractional FloatPolicy = iota
	// FloatsText uses the float's shortest decimal text, fractional or not.
	FloatsText
)

func (p FloatPolicy) String() string {
	switch p {
	case FloatsRejectFractional:
		return "reject"
	case FloatsText:
		return "text"
	}
	return fmt.Sprintf("FloatPolicy(%d)", int(p))
}

// ParseFloatPolicy accepts "reject" or "text".
func ParseFloatPolicy(s string) (FloatPolicy, error) {
	switch s {
	case "reject":
		return FloatsRejectFractional, nil
	case "text":
		return FloatsText, nil
	}
	return 0, fmt.Errorf("invalid float policy %q (want reject or text)", s)
}

// Options configures a Lowerer. The zero value is the default.
type Options struct {
	IfBranch IfBranch
	Floats   FloatPolicy
}

// DefaultOptions returns the zero Options.
func DefaultOptions() Options {
	return Options{}
}

// Hash fingerprints the options so translations can be keyed by them.
func (o Options) Hash() (string, error) {
	return canonical.Hash(canonical.DomainOptions, map[string]any{
		"if_branch": o.IfBranch.String(),
		"floats":    o.Floats.String(),
	})
}
