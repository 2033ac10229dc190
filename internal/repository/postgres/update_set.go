package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// UpdateSet collects the columns of a partial update. Column names come from
// code, values are always sent as bind parameters.
type UpdateSet struct {
	columns []string
	values  []any
	touch   string
}

func NewUpdateSet() *UpdateSet {
	return &UpdateSet{}
}

// Set adds column = value to the statement.
func (u *UpdateSet) Set(column string, value any) *UpdateSet {
	u.columns = append(u.columns, column)
	u.values = append(u.values, value)
	return u
}

// Touch also sets column to NOW() whenever the statement is rendered.
func (u *UpdateSet) Touch(column string) *UpdateSet {
	u.touch = column
	return u
}

// Len reports the number of explicitly set columns.
func (u *UpdateSet) Len() int {
	return len(u.columns)
}

// Statement renders
//
//	UPDATE table SET c1 = $1, c2 = $2[, touch = NOW()] WHERE key = $3 [RETURNING ...]
//
// and the matching argument list.
func (u *UpdateSet) Statement(table, keyColumn string, key any, returning ...string) (string, []any, error) {
	if len(u.columns) == 0 {
		return "", nil, errors.New(errEmptyUpdate)
	}
	if keyColumn == "" {
		return "", nil, fmt.Errorf(errStatementNoKeyFmt, table)
	}

	names := append([]string{table, keyColumn}, u.columns...)
	names = append(names, returning...)
	if u.touch != "" {
		names = append(names, u.touch)
	}
	for _, name := range names {
		if !identifierPattern.MatchString(name) {
			return "", nil, fmt.Errorf(errInvalidColumnFmt, name)
		}
	}

	assignments := make([]string, 0, len(u.columns)+1)
	for i, column := range u.columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+1))
	}
	if u.touch != "" {
		assignments = append(assignments, u.touch+" = NOW()")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s WHERE %s = $%d", table, strings.Join(assignments, ", "), keyColumn, len(u.columns)+1)
	if len(returning) > 0 {
		b.WriteString(" RETURNING ")
		b.WriteString(strings.Join(returning, ", "))
	}

	args := make([]any, 0, len(u.values)+1)
	args = append(args, u.values...)
	args = append(args, key)

	return b.String(), args, nil
}
