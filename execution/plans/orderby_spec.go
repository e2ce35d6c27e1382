package plans

import "github.com/gopherdb/txcore/execution/expression"

// OrderByType is the direction a single OrderBySpec sorts by.
type OrderByType int

const (
	OrderByDefault OrderByType = iota
	OrderByAsc
	OrderByDesc
)

// OrderBySpec pairs a sort direction with the expression evaluated on
// each tuple to produce the value that direction sorts by. Sort and
// TopN both walk a list of these, breaking ties by falling through to
// the next entry, the way a SQL ORDER BY clause with multiple columns
// does.
type OrderBySpec struct {
	Type OrderByType
	Expr expression.Expression
}
