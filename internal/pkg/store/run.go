package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/logger"
	"github.com/tgaplan/estimator/internal/pkg/store/xpgx"
)

var runColumns = []string{"id", "project_name", "catalog_version", "snapshot", "created_at"}

type runRow struct {
	ID             string    `db:"id"`
	ProjectName    string    `db:"project_name"`
	CatalogVersion string    `db:"catalog_version"`
	Snapshot       []byte    `db:"snapshot"`
	CreatedAt      time.Time `db:"created_at"`
}

func (s *store) InsertRun(ctx context.Context, run *domain.Run) error {
	snapshot, err := sonic.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run snapshot: %w", err)
	}

	query := builder().Insert(tableRuns).
		Columns(runColumns...).
		Values(run.ID, run.ProjectName, run.CatalogVersion, snapshot, run.CreatedAt)

	if _, err = xpgx.Execx(ctx, s.pool, query); err != nil {
		logger.Errorf(ctx, "insertRun: %s", err.Error())
		return fmt.Errorf("insertRun, id-%s: %w", run.ID, err)
	}

	if err = s.insertIssues(ctx, run); err != nil {
		return fmt.Errorf("insertIssues, id-%s: %w", run.ID, err)
	}

	return nil
}

func (s *store) UpdateRun(ctx context.Context, run *domain.Run) error {
	snapshot, err := sonic.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run snapshot: %w", err)
	}

	query := builder().Update(tableRuns).
		Set("snapshot", snapshot).
		Where(sq.Eq{"id": run.ID})

	if _, err = xpgx.Execx(ctx, s.pool, query); err != nil {
		logger.Errorf(ctx, "updateRun: %s", err.Error())
		return fmt.Errorf("updateRun, id-%s: %w", run.ID, err)
	}

	if err = s.insertIssues(ctx, run); err != nil {
		return fmt.Errorf("insertIssues, id-%s: %w", run.ID, err)
	}

	return nil
}

func (s *store) insertIssues(ctx context.Context, run *domain.Run) error {
	if len(run.Issues) == 0 {
		return nil
	}

	// issues are append-only per run, rewrite the set wholesale
	deleteQuery := builder().Delete(tableRunIssues).Where(sq.Eq{"run_id": run.ID})
	if _, err := xpgx.Execx(ctx, s.pool, deleteQuery); err != nil {
		return err
	}

	query := builder().Insert(tableRunIssues).
		Columns("run_id", "room_id", "stage", "kind", "detail")
	for _, issue := range run.Issues {
		query = query.Values(run.ID, issue.RoomID, string(issue.Stage), string(issue.Kind), issue.Detail)
	}

	if _, err := xpgx.Execx(ctx, s.pool, query); err != nil {
		return err
	}

	return nil
}

func (s *store) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	query := builder().Select(runColumns...).
		From(tableRuns).
		Where(sq.Eq{"id": id})

	row, err := xpgx.Getx[runRow](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	run := new(domain.Run)
	if err = sonic.Unmarshal(row.Snapshot, run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run snapshot, id-%s: %w", id, err)
	}

	return run, nil
}
