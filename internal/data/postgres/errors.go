package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

// MapError translates driver failures into the domain taxonomy. This is the
// only place backend error shapes are interpreted; it understands Postgres
// error codes and the SQLite driver's message forms.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var domErr *domain.Error
	if errors.As(err, &domErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.Wrap(domain.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.Wrap(domain.CodeUnavailable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return domain.Wrap(domain.CodeConflict, op, err)
		case "23503": // foreign_key_violation
			return domain.Wrap(domain.CodeValidation, op, err)
		}
		return domain.Wrap(domain.CodeUnavailable, op, err)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "already exists"):
		return domain.Wrap(domain.CodeConflict, op, err)
	default:
		return domain.Wrap(domain.CodeUnavailable, op, err)
	}
}
