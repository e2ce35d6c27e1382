package executors

import (
	"github.com/gopherdb/txcore/catalog"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
)

// Done reports whether an executor's iteration has been exhausted.
type Done = bool

// Executor is the pull-based interface every operator in this package
// satisfies. Init resets iteration state (and, for blocking operators
// such as joins, sorts and aggregation, materializes their input);
// Next produces one output tuple at a time until it reports done. An
// executor never panics on a lock conflict or storage error: Next
// returns the error and leaves the caller to inspect the transaction's
// state. Init has no error return, so a child error met while a
// blocking operator materializes its input stops the materialization
// and is not reported by the later Next calls.
type Executor interface {
	Init()
	Next() (*tuple.Tuple, Done, error)
	GetOutputSchema() *schema.Schema
	GetTableMetaData() *catalog.TableMetadata
}
