package catalog

import "fmt"

// QueryError reports a failed catalog metadata query. It is fatal to the
// snapshot being built: enumeration either works for a whole category or the
// read is aborted. Row-count failures on individual tables are not
// QueryErrors; they degrade to a null count instead.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("catalog query failed: %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
