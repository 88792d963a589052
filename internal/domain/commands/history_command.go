package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	infraRepos "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories"
)

// ErrNoHistoryDatabase is returned when the history is queried without a configured database.
var ErrNoHistoryDatabase = errors.New("report.history_database is not configured")

// History is the interface for the history command.
type History interface {
	Execute(ctx context.Context, settings *entities.Settings, opts HistoryOptions) ([]entities.HistoryRecord, error)
}

// HistoryOptions selects the repository whose audit trail is listed.
type HistoryOptions struct {
	Locator string
}

// HistoryCommand reads the stored evaluations of one repository.
type HistoryCommand struct {
	open infraRepos.HistoryOpener
}

// NewHistoryCommand creates a new HistoryCommand.
func NewHistoryCommand(open infraRepos.HistoryOpener) *HistoryCommand {
	return &HistoryCommand{open: open}
}

// Execute returns the repository's history, oldest first.
func (it *HistoryCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts HistoryOptions,
) ([]entities.HistoryRecord, error) {
	if settings == nil || settings.Report.HistoryDatabase == "" {
		return nil, ErrNoHistoryDatabase
	}
	ref, err := entities.ParseRepositoryLocator(opts.Locator)
	if err != nil {
		return nil, err
	}

	history, err := it.open(ctx, settings.Report.HistoryDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit history: %w", err)
	}
	defer func() {
		if closeErr := history.Close(); closeErr != nil {
			logger.Warnf("[history] Failed to close %s: %v", settings.Report.HistoryDatabase, closeErr)
		}
	}()

	records, err := history.History(ctx, ref.String())
	if err != nil {
		return nil, err
	}
	logger.Debugf("[history] %d records for %s", len(records), ref)
	return records, nil
}
