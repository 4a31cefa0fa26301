package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation — код unique_violation в PostgreSQL.
const pgUniqueViolation = "23505"

// uniqueConstraint возвращает имя нарушенного уникального ограничения, если
// ошибка — нарушение уникальности.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
