package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

const (
	tableCatalogs    = "catalogs"
	tableRoomTypes   = "room_types"
	tableCostFactors = "cost_factors"
	tableRuns        = "runs"
	tableRunIssues   = "run_issues"
	tableArtifacts   = "artifacts"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel statement builder with $ placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
