package cost

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

// Factors are the project-level multipliers applied on top of the material
// subtotal of every line item.
type Factors struct {
	Labor          float64
	OverheadProfit float64
	Regional       float64
	Contingency    float64
}

func FactorsFromViper() Factors {
	return Factors{
		Labor:          viper.GetFloat64(constants.ViperKeyLaborFactor),
		OverheadProfit: viper.GetFloat64(constants.ViperKeyOverheadFactor),
		Regional:       viper.GetFloat64(constants.ViperKeyRegionalFactor),
		Contingency:    viper.GetFloat64(constants.ViperKeyContingencyFactor),
	}
}

func (f Factors) withDefaults() Factors {
	if f.Regional <= 0 {
		f.Regional = 1.0
	}
	if f.Contingency <= 0 {
		f.Contingency = 1.0
	}
	return f
}

// Estimator converts a power aggregate into a bill of quantities. All
// arithmetic stays in decimal; rounding happens only at output formatting.
type Estimator struct {
	factors Factors
}

func NewEstimator(factors Factors) *Estimator {
	return &Estimator{factors: factors.withDefaults()}
}

// Estimate builds one line item per required subgroup and the summary. A
// required subgroup missing from the factor table is fatal for the run.
func (e *Estimator) Estimate(agg *domain.PowerAggregate, table []domain.CostFactor, required []string) ([]domain.CostLineItem, *domain.CostSummary, error) {
	if agg == nil {
		return nil, nil, fmt.Errorf("power aggregate is missing")
	}

	byCode := make(map[string]domain.CostFactor, len(table))
	for _, factor := range table {
		byCode[factor.SubgroupCode] = factor
	}

	if len(required) == 0 {
		required = make([]string, 0, len(table))
		for _, factor := range table {
			required = append(required, factor.SubgroupCode)
		}
	}
	sort.Strings(required)

	labor := decimal.NewFromFloat(e.factors.Labor)
	overhead := decimal.NewFromFloat(e.factors.OverheadProfit)
	regional := decimal.NewFromFloat(e.factors.Regional)
	contingency := decimal.NewFromFloat(e.factors.Contingency)

	items := make([]domain.CostLineItem, 0, len(required))
	grandTotal := decimal.Zero

	for _, code := range required {
		factor, ok := byCode[code]
		if !ok {
			return nil, nil, fmt.Errorf("%w: subgroup %s required but absent from factor table",
				constants.ErrMissingCostFactor, code)
		}

		quantity, err := quantityFor(factor.Source, agg)
		if err != nil {
			return nil, nil, fmt.Errorf("subgroup %s: %w", code, err)
		}

		material := quantity.Mul(factor.UnitPrice)
		laborCost := material.Mul(labor)
		subtotal := material.Add(laborCost)
		markup := subtotal.Mul(overhead)
		finalPrice := subtotal.Add(markup).Mul(regional).Mul(contingency)

		items = append(items, domain.CostLineItem{
			Description:      fmt.Sprintf("%s (%s)", factor.SubgroupTitle, factor.TradeTitle),
			SubgroupCode:     factor.SubgroupCode,
			SubgroupTitle:    factor.SubgroupTitle,
			TradeTitle:       factor.TradeTitle,
			Quantity:         quantity,
			Unit:             factor.Unit,
			UnitPrice:        factor.UnitPrice,
			MaterialSubtotal: material,
			FinalPrice:       finalPrice,
		})

		grandTotal = grandTotal.Add(finalPrice)
	}

	summary := &domain.CostSummary{
		ProjectMetrics: map[string]float64{
			"total_area_m2":          agg.TotalAreaM2,
			"total_volume_m3":        agg.TotalVolumeM3,
			"total_heating_kw":       agg.TotalHeatingKW,
			"total_cooling_kw":       agg.TotalCoolingKW,
			"total_airflow_m3_per_h": agg.TotalAirflowM3PerH,
		},
		GrandTotal: grandTotal,
		FactorsApplied: map[string]float64{
			"labor_factor":           e.factors.Labor,
			"overhead_profit_factor": e.factors.OverheadProfit,
			"regional_factor":        e.factors.Regional,
			"contingency_factor":     e.factors.Contingency,
		},
	}

	return items, summary, nil
}

func quantityFor(source domain.QuantitySource, agg *domain.PowerAggregate) (decimal.Decimal, error) {
	switch source {
	case domain.SourceHeatingKW:
		return decimal.NewFromFloat(agg.TotalHeatingKW), nil
	case domain.SourceCoolingKW:
		return decimal.NewFromFloat(agg.TotalCoolingKW), nil
	case domain.SourceAreaM2:
		return decimal.NewFromFloat(agg.TotalAreaM2), nil
	case domain.SourceAirflowM3PerH:
		return decimal.NewFromFloat(agg.TotalAirflowM3PerH), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown quantity source %q", source)
	}
}
