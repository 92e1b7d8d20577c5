package postgres

import (
	"database/sql"

	"github.com/alignhq/api/pkg/domain/shared"
)

// nullID converts a *shared.ID to a nullable driver value.
func nullID(id *shared.ID) any {
	if id == nil || id.IsZero() {
		return nil
	}
	return id.String()
}

// scanNullID extracts a *shared.ID from a sql.NullString column.
func scanNullID(ns sql.NullString) (*shared.ID, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	id, err := shared.ParseID(ns.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// nullString converts a string to sql.NullString, treating empty as
// NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue extracts a string from sql.NullString.
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
