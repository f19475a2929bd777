package usecase

import (
	"context"
	"errors"
	"strings"

	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

var (
	ErrForbidden = apperror.Forbidden("You don't have permission to access this resource")
	ErrInvalidID = apperror.Validation("invalid id")
)

// authorize consults the capability table.
func authorize(authz service.Authorizer, principal *entity.Principal, resource, action string) error {
	if !authz.Can(principal, resource, action) {
		return ErrForbidden
	}
	return nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// publishEvent runs after commit; a broker failure is logged, never returned.
func publishEvent(ctx context.Context, log *logrus.Logger, publisher service.EventPublisher, name string, payload interface{}) {
	if err := publisher.Publish(ctx, name, payload); err != nil {
		log.Warnf("Failed to publish %s event: %+v", name, err)
	}
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
