package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/logger"
	"github.com/tgaplan/estimator/internal/pkg/store/xpgx"
)

var costFactorColumns = []string{
	"table_version", "subgroup_code", "subgroup_title", "trade_title",
	"unit", "unit_price", "quantity_source",
}

type costFactorRow struct {
	TableVersion   string          `db:"table_version"`
	SubgroupCode   string          `db:"subgroup_code"`
	SubgroupTitle  string          `db:"subgroup_title"`
	TradeTitle     string          `db:"trade_title"`
	Unit           string          `db:"unit"`
	UnitPrice      decimal.Decimal `db:"unit_price"`
	QuantitySource string          `db:"quantity_source"`
}

func (s *store) UpsertCostFactors(ctx context.Context, tableVersion string, factors []domain.CostFactor) error {
	if len(factors) == 0 {
		return nil
	}

	query := builder().Insert(tableCostFactors).Columns(costFactorColumns...)
	for _, f := range factors {
		query = query.Values(
			tableVersion, f.SubgroupCode, f.SubgroupTitle, f.TradeTitle,
			f.Unit, f.UnitPrice, string(f.Source),
		)
	}

	query = query.Suffix(`
on conflict (table_version, subgroup_code)
do update
set
	subgroup_title = excluded.subgroup_title,
	trade_title = excluded.trade_title,
	unit = excluded.unit,
	unit_price = excluded.unit_price,
	quantity_source = excluded.quantity_source`)

	if _, err := xpgx.Execx(ctx, s.pool, query); err != nil {
		logger.Errorf(ctx, "upsertCostFactors: %s", err.Error())
		return fmt.Errorf("upsertCostFactors, table_version-%s: %w", tableVersion, err)
	}

	return nil
}

func (s *store) ListCostFactors(ctx context.Context, tableVersion string) ([]domain.CostFactor, error) {
	query := builder().Select(costFactorColumns...).
		From(tableCostFactors).
		Where(sq.Eq{"table_version": tableVersion}).
		OrderBy("subgroup_code")

	rows, err := xpgx.Selectx[costFactorRow](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	factors := make([]domain.CostFactor, 0, len(rows))
	for _, row := range rows {
		factors = append(factors, domain.CostFactor{
			SubgroupCode:  row.SubgroupCode,
			SubgroupTitle: row.SubgroupTitle,
			TradeTitle:    row.TradeTitle,
			Unit:          row.Unit,
			UnitPrice:     row.UnitPrice,
			Source:        domain.QuantitySource(row.QuantitySource),
		})
	}

	return factors, nil
}
