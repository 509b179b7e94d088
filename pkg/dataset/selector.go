package dataset

import (
	"fmt"
	"path"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultFeedFilter keeps the subway feeds of the RATP per-line archive
const DefaultFeedFilter = `Base contains "METRO"`

// FeedSelector decides which inner archives are subway feeds
type FeedSelector interface {
	Select(name string) (bool, error)
}

// FeedCandidate is the environment a feed filter expression is evaluated against
type FeedCandidate struct {
	// Full path of the entry inside the outer archive
	Name string
	// File name without directories
	Base string
}

type ExprSelector struct {
	expression string
	program    *vm.Program
}

// NewExprSelector compiles a boolean expr-lang expression over FeedCandidate,
// eg. `Base contains "METRO"` or `Base matches "^RATP_GTFS_METRO_[0-9]+"`.
func NewExprSelector(expression string) (*ExprSelector, error) {
	program, err := expr.Compile(expression, expr.Env(FeedCandidate{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile feed filter %q: %w", expression, err)
	}

	return &ExprSelector{
		expression: expression,
		program:    program,
	}, nil
}

func (s *ExprSelector) Select(name string) (bool, error) {
	output, err := expr.Run(s.program, FeedCandidate{
		Name: name,
		Base: path.Base(name),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate feed filter %q on %s: %w", s.expression, name, err)
	}

	return output.(bool), nil
}

func (s *ExprSelector) String() string {
	return s.expression
}
