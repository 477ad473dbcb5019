package types

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxBatchSize bounds the per-transaction row count for bulk loads.
const MaxBatchSize = 100000

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedWords is the denylist of SQL keywords rejected as identifiers.
// Table and column names cannot be bound as SQL parameters, so this check
// is the sole injection defense on the identifier path.
var reservedWords = map[string]bool{
	"SELECT": true, "INSERT": true, "UPDATE": true, "DELETE": true,
	"DROP": true, "CREATE": true, "ALTER": true, "TABLE": true,
	"INDEX": true, "FROM": true, "WHERE": true, "AND": true,
	"OR": true, "NOT": true, "NULL": true, "TRUE": true, "FALSE": true,
}

// ValidateIdentifier checks that name is safe to interpolate into SQL text
// as the given role (e.g. "table name"). Returns an error wrapping
// ErrInvalidIdentifier when name is empty or whitespace, does not match
// ^[A-Za-z_][A-Za-z0-9_]*$, or is a reserved keyword.
func ValidateIdentifier(name, role string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidIdentifier, role)
	}
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: %s %q contains illegal characters", ErrInvalidIdentifier, role, name)
	}
	if reservedWords[strings.ToUpper(name)] {
		return fmt.Errorf("%w: %s %q is a reserved keyword", ErrInvalidIdentifier, role, name)
	}
	return nil
}

// ValidateSrsID rejects spatial reference ids below -1. The ids -1
// (undefined cartesian) and 0 (undefined geographic) are always legal.
func ValidateSrsID(id int) error {
	if id < -1 {
		return fmt.Errorf("%w: %d", ErrInvalidSrsID, id)
	}
	return nil
}

// ValidateBatchSize rejects batch sizes outside [1, MaxBatchSize].
func ValidateBatchSize(n int) error {
	if n < 1 || n > MaxBatchSize {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, n)
	}
	return nil
}
