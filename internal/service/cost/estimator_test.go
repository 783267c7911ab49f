package cost

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

func testAggregate() *domain.PowerAggregate {
	return &domain.PowerAggregate{
		RoomCount:          3,
		TotalAreaM2:        240,
		TotalVolumeM3:      720,
		TotalHeatingKW:     9.5,
		TotalCoolingKW:     6.2,
		TotalAirflowM3PerH: 1200,
	}
}

func testTable() []domain.CostFactor {
	return []domain.CostFactor{
		{
			SubgroupCode:  "421",
			SubgroupTitle: "Wärmeerzeugungsanlagen",
			TradeTitle:    "Heizungsbau",
			Unit:          "€/kW",
			UnitPrice:     decimal.NewFromInt(310),
			Source:        domain.SourceHeatingKW,
		},
		{
			SubgroupCode:  "422",
			SubgroupTitle: "Wärmeverteilnetze",
			TradeTitle:    "Heizungsbau",
			Unit:          "€/m²",
			UnitPrice:     decimal.NewFromInt(28),
			Source:        domain.SourceAreaM2,
		},
		{
			SubgroupCode:  "431",
			SubgroupTitle: "Lüftungsanlagen",
			TradeTitle:    "Lüftungsbau",
			Unit:          "€/(m³/h)",
			UnitPrice:     decimal.NewFromFloat(11.5),
			Source:        domain.SourceAirflowM3PerH,
		},
		{
			SubgroupCode:  "434",
			SubgroupTitle: "Kälteanlagen",
			TradeTitle:    "Kältetechnik",
			Unit:          "€/kW",
			UnitPrice:     decimal.NewFromInt(540),
			Source:        domain.SourceCoolingKW,
		},
	}
}

func TestEstimateFactorChain(t *testing.T) {
	e := NewEstimator(Factors{Labor: 0.4, OverheadProfit: 0.15, Regional: 1.0, Contingency: 1.05})

	agg := &domain.PowerAggregate{TotalAreaM2: 10}
	table := []domain.CostFactor{{
		SubgroupCode: "422",
		Unit:         "€/m²",
		UnitPrice:    decimal.NewFromInt(100),
		Source:       domain.SourceAreaM2,
	}}

	items, summary, err := e.Estimate(agg, table, []string{"422"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	// 10 × 100 = 1000 material; +40% labor = 1400; +15% overhead = 1610;
	// ×1.0 regional ×1.05 contingency = 1690.50
	assert.Equal(t, "1000.00", items[0].MaterialSubtotal.StringFixed(2))
	assert.Equal(t, "1690.50", items[0].FinalPrice.StringFixed(2))
	assert.Equal(t, "1690.50", summary.GrandTotal.StringFixed(2))
}

func TestEstimateGrandTotalIsSumOfLineItems(t *testing.T) {
	e := NewEstimator(Factors{Labor: 0.4, OverheadProfit: 0.15, Regional: 1.08, Contingency: 1.05})

	items, summary, err := e.Estimate(testAggregate(), testTable(), []string{"421", "422", "431", "434"})
	require.NoError(t, err)
	require.Len(t, items, 4)

	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.FinalPrice)
	}
	assert.True(t, summary.GrandTotal.Equal(sum),
		"grand total %s != line item sum %s", summary.GrandTotal, sum)
	assert.True(t, summary.GrandTotal.IsPositive())
}

func TestEstimateLineItemsOrderedByCode(t *testing.T) {
	e := NewEstimator(Factors{})

	items, _, err := e.Estimate(testAggregate(), testTable(), []string{"434", "421", "431", "422"})
	require.NoError(t, err)

	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.SubgroupCode)
	}
	assert.Equal(t, []string{"421", "422", "431", "434"}, codes)
}

func TestEstimateMissingRequiredSubgroup(t *testing.T) {
	e := NewEstimator(Factors{Labor: 0.4, OverheadProfit: 0.15})

	// drop the ventilation distribution subgroup from the table
	table := testTable()[:2]

	_, _, err := e.Estimate(testAggregate(), table, []string{"421", "422", "431"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, constants.ErrMissingCostFactor))
	assert.Contains(t, err.Error(), "431")
}

func TestEstimateDefaultsRequiredToWholeTable(t *testing.T) {
	e := NewEstimator(Factors{})

	items, _, err := e.Estimate(testAggregate(), testTable(), nil)
	require.NoError(t, err)
	assert.Len(t, items, len(testTable()))
}

func TestEstimateSummaryMetrics(t *testing.T) {
	e := NewEstimator(Factors{Labor: 0.4, OverheadProfit: 0.15, Regional: 1.0, Contingency: 1.05})

	_, summary, err := e.Estimate(testAggregate(), testTable(), nil)
	require.NoError(t, err)

	assert.InDelta(t, 240, summary.ProjectMetrics["total_area_m2"], 1e-9)
	assert.InDelta(t, 9.5, summary.ProjectMetrics["total_heating_kw"], 1e-9)
	assert.InDelta(t, 1200, summary.ProjectMetrics["total_airflow_m3_per_h"], 1e-9)
	assert.InDelta(t, 0.4, summary.FactorsApplied["labor_factor"], 1e-9)
	assert.InDelta(t, 1.05, summary.FactorsApplied["contingency_factor"], 1e-9)
}

func TestEstimateNilAggregate(t *testing.T) {
	e := NewEstimator(Factors{})

	_, _, err := e.Estimate(nil, testTable(), nil)
	require.Error(t, err)
}

func TestFactorsWithDefaults(t *testing.T) {
	f := Factors{Labor: 0.4, OverheadProfit: 0.15}.withDefaults()
	assert.Equal(t, 1.0, f.Regional)
	assert.Equal(t, 1.0, f.Contingency)
}
