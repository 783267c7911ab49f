package domain

import "github.com/shopspring/decimal"

// QuantitySource names the aggregate metric that drives a cost subgroup.
type QuantitySource string

const (
	SourceHeatingKW     QuantitySource = "heating_kw"
	SourceCoolingKW     QuantitySource = "cooling_kw"
	SourceAreaM2        QuantitySource = "area_m2"
	SourceAirflowM3PerH QuantitySource = "airflow_m3_per_h"
)

// CostFactor is one row of the DIN-276 benchmark table: a unit price for a
// cost subgroup plus the metric it is applied to.
type CostFactor struct {
	SubgroupCode  string          `json:"subgroup_code" db:"subgroup_code"`
	SubgroupTitle string          `json:"subgroup_title" db:"subgroup_title"`
	TradeTitle    string          `json:"trade_title" db:"trade_title"`
	Unit          string          `json:"unit" db:"unit"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	Source        QuantitySource  `json:"quantity_source" db:"quantity_source"`
}

// CostLineItem is one position of the bill of quantities.
type CostLineItem struct {
	Description      string          `json:"description"`
	SubgroupCode     string          `json:"subgroup_code"`
	SubgroupTitle    string          `json:"subgroup_title"`
	TradeTitle       string          `json:"trade_title"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	MaterialSubtotal decimal.Decimal `json:"material_subtotal"`
	FinalPrice       decimal.Decimal `json:"final_price"`
}

// CostSummary aggregates the run's project metrics, the applied factors and
// the grand total. The grand total always equals the sum of the line items'
// final prices.
type CostSummary struct {
	ProjectMetrics map[string]float64 `json:"project_metrics"`
	GrandTotal     decimal.Decimal    `json:"grand_total_cost"`
	FactorsApplied map[string]float64 `json:"cost_factors_applied"`
}
