package report

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

const schema = `
CREATE TABLE IF NOT EXISTS dependency_updates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_at DATETIME NOT NULL,
	provider TEXT NOT NULL,
	repository TEXT NOT NULL,
	manifest TEXT NOT NULL,
	ecosystem TEXT NOT NULL,
	dependency TEXT NOT NULL,
	category TEXT NOT NULL,
	current_version TEXT NOT NULL,
	latest_version TEXT NOT NULL,
	tier TEXT NOT NULL,
	verdict TEXT NOT NULL,
	approved INTEGER NOT NULL,
	outcome TEXT NOT NULL,
	pull_request_url TEXT,
	dry_run INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dependency_updates_repository
	ON dependency_updates (repository, dependency);
`

const insertUpdate = `INSERT INTO dependency_updates (
	run_at, provider, repository, manifest, ecosystem, dependency, category,
	current_version, latest_version, tier, verdict, approved, outcome, pull_request_url, dry_run
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteHistory appends one row per outdated dependency per run.
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory opens (or creates) the history database at path.
func NewSQLiteHistory(ctx context.Context, path string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQLiteHistory{db: db}, nil
}

// Close closes the database connection.
func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}

// Save records every outdated dependency of the report in one transaction.
func (h *SQLiteHistory) Save(ctx context.Context, report entities.RepositoryReport) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertUpdate)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, manifest := range report.Manifests {
		approved := make(map[string]bool, len(manifest.Partition.Approved))
		for _, update := range manifest.Partition.Approved {
			approved[update.Name()] = true
		}
		var prURL string
		if manifest.PullRequest != nil {
			prURL = manifest.PullRequest.URL
		}

		for _, update := range manifest.Updates {
			if _, err = stmt.ExecContext(ctx,
				report.GeneratedAt.UTC(),
				report.Repository.ProviderName,
				report.Repository.FullName(),
				manifest.Manifest.Path,
				string(manifest.Manifest.Ecosystem),
				update.Name(),
				string(update.Dependency.Category),
				update.Current(),
				update.BareLatest(),
				string(update.Tier),
				string(verdictState(update)),
				boolToInt(approved[update.Name()] && !report.DryRun),
				string(manifest.Outcome),
				prURL,
				boolToInt(report.DryRun),
			); err != nil {
				return fmt.Errorf("failed to record %s: %w", update.Name(), err)
			}
		}
	}
	return tx.Commit()
}

// History returns the stored rows of a repository, oldest first.
func (h *SQLiteHistory) History(ctx context.Context, repository string) ([]entities.HistoryRecord, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT
		run_at, repository, manifest, ecosystem, dependency, current_version, latest_version,
		tier, verdict, approved, outcome, COALESCE(pull_request_url, ''), dry_run
		FROM dependency_updates WHERE repository = ? ORDER BY id`, repository)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []entities.HistoryRecord
	for rows.Next() {
		var record entities.HistoryRecord
		var approved, dryRun int
		if err = rows.Scan(
			&record.RunAt, &record.Repository, &record.Manifest, &record.Ecosystem, &record.Dependency,
			&record.CurrentVersion, &record.LatestVersion, &record.Tier, &record.Verdict,
			&approved, &record.Outcome, &record.PullRequestURL, &dryRun,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		record.Approved = approved == 1
		record.DryRun = dryRun == 1
		records = append(records, record)
	}
	return records, rows.Err()
}

func verdictState(update entities.ResolvedUpdate) entities.VerdictState {
	if update.Verdict == nil {
		return entities.StateUnchecked
	}
	return update.Verdict.EffectiveState()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
