package filter

// Matcher decides whether a single record passes
type Matcher interface {
	// Match evaluates the matcher against a record
	Match(record any) (bool, error)

	// Expression returns the source expression
	Expression() string
}

var _ Matcher = (*Filter)(nil)
