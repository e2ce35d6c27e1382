// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package plans

import "github.com/gopherdb/txcore/storage/table/schema"

type PlanType int

const (
	SeqScan PlanType = iota
	IndexScan
	Insert
	Delete
	Update
	Sort
	TopN
	Aggregation
	NestedLoopJoin
	Limit
)

// Plan is the base every plan node in this package satisfies. A plan
// tree is built bottom-up by hand (there is no planner beyond the one
// Sort+Limit->TopN rewrite rule); executors walk it the same way
// BusTub's do, pulling one child at a time.
type Plan interface {
	OutputSchema() *schema.Schema
	GetChildAt(childIndex uint32) Plan
	GetChildren() []Plan
	GetType() PlanType
	// CloneWithChildren rebuilds this node with children in place of
	// its own, keeping every other field. Used by optimizer rewrite
	// rules to walk a plan tree bottom-up without mutating it in
	// place. Leaf nodes ignore children and return themselves.
	CloneWithChildren(children []Plan) Plan
}

// AbstractPlanNode holds the fields every concrete plan node shares.
type AbstractPlanNode struct {
	outputSchema *schema.Schema
	children     []Plan
}

func (p *AbstractPlanNode) OutputSchema() *schema.Schema { return p.outputSchema }

func (p *AbstractPlanNode) GetChildAt(childIndex uint32) Plan {
	if int(childIndex) >= len(p.children) {
		return nil
	}
	return p.children[childIndex]
}

func (p *AbstractPlanNode) GetChildren() []Plan { return p.children }
