//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/safeupdate/internal/domain/commands"
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// StubHistoryCommand is a stub implementation of commands.History.
type StubHistoryCommand struct {
	ExecuteErr error
	Records    []entities.HistoryRecord
	LastOpts   commands.HistoryOptions
}

var _ commands.History = (*StubHistoryCommand)(nil)

func (s *StubHistoryCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.HistoryOptions,
) ([]entities.HistoryRecord, error) {
	s.LastOpts = opts
	return s.Records, s.ExecuteErr
}
