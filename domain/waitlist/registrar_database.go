package waitlist

import (
	"context"

	"github.com/akeren/levelup-fit/internal/log"
	"github.com/akeren/levelup-fit/internal/models"
	apperrors "github.com/akeren/levelup-fit/pkg/errors"
	"go.opentelemetry.io/otel/codes"
)

// DatabaseRegistrar stores submissions. Joining twice with the same email
// is reported as success.
type DatabaseRegistrar struct {
	logger     *log.Logger
	repository EntryRepository
}

func NewDatabaseRegistrar(logger *log.Logger, repository EntryRepository) *DatabaseRegistrar {
	return &DatabaseRegistrar{logger: logger, repository: repository}
}

func (r *DatabaseRegistrar) Register(ctx context.Context, submission WaitlistSubmission) error {
	ctx, span := tracer.Start(ctx, "waitlist.DatabaseRegistrar.Register")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, r.logger)

	_, err := r.repository.CreateEntry(ctx, &models.WaitlistEntry{
		Name:  submission.Name,
		Email: submission.Email,
	})
	if err == nil {
		return nil
	}

	if apperrors.GetErrorType(err) == apperrors.ErrorTypeConflict {
		logger.Info("Waitlist email already registered")
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "create waitlist entry")
	return err
}
