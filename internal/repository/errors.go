package repository

import (
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error code for foreign_key_violation.
const fkViolationCode = "23503"

// foreignKeyTarget reports whether err is a foreign key violation and, if
// so, returns the name of the violated constraint. Repositories use the
// constraint name to translate storage-level violations into the domain's
// reference errors.
func foreignKeyTarget(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == fkViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}
