package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/logger"
	"github.com/tgaplan/estimator/internal/pkg/store/xpgx"
)

var roomTypeColumns = []string{"catalog_version", "code", "display_name", "synonyms", "benchmarks"}

type roomTypeRow struct {
	CatalogVersion string `db:"catalog_version"`
	Code           string `db:"code"`
	DisplayName    string `db:"display_name"`
	Synonyms       []byte `db:"synonyms"`
	Benchmarks     []byte `db:"benchmarks"`
}

func (s *store) InsertCatalog(ctx context.Context, version string, entries []domain.CanonicalRoomType) error {
	insertVersion := builder().Insert(tableCatalogs).
		Columns("version").
		Values(version).
		Suffix(`on conflict (version) do nothing`)

	if _, err := xpgx.Execx(ctx, s.pool, insertVersion); err != nil {
		logger.Errorf(ctx, "insertCatalogVersion: %s", err.Error())
		return fmt.Errorf("insertCatalogVersion, version-%s: %w", version, err)
	}

	query := builder().Insert(tableRoomTypes).Columns(roomTypeColumns...)
	for _, entry := range entries {
		synonyms, err := sonic.Marshal(entry.Synonyms)
		if err != nil {
			return fmt.Errorf("failed to marshal synonyms: %w", err)
		}

		benchmarks, err := sonic.Marshal(entry.Benchmarks)
		if err != nil {
			return fmt.Errorf("failed to marshal benchmarks: %w", err)
		}

		query = query.Values(version, entry.Code, entry.DisplayName, synonyms, benchmarks)
	}

	query = query.Suffix(`
on conflict (catalog_version, code)
do update
set
	display_name = excluded.display_name,
	synonyms = excluded.synonyms,
	benchmarks = excluded.benchmarks`)

	if _, err := xpgx.Execx(ctx, s.pool, query); err != nil {
		logger.Error(ctx, err.Error())
		return fmt.Errorf("insertRoomTypes, version-%s: %w", version, err)
	}

	return nil
}

func (s *store) GetCatalogEntries(ctx context.Context, version string) ([]domain.CanonicalRoomType, error) {
	query := builder().Select(roomTypeColumns...).
		From(tableRoomTypes).
		Where(sq.Eq{"catalog_version": version}).
		OrderBy("code")

	rows, err := xpgx.Selectx[roomTypeRow](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	entries := make([]domain.CanonicalRoomType, 0, len(rows))
	for _, row := range rows {
		entry := domain.CanonicalRoomType{
			Code:        row.Code,
			DisplayName: row.DisplayName,
		}

		if err = sonic.Unmarshal(row.Synonyms, &entry.Synonyms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal synonyms, code-%s: %w", row.Code, err)
		}
		if err = sonic.Unmarshal(row.Benchmarks, &entry.Benchmarks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal benchmarks, code-%s: %w", row.Code, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
