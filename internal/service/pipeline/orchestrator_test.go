package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/constants"
	"github.com/tgaplan/estimator/internal/service/catalog"
	"github.com/tgaplan/estimator/internal/service/classifier"
	"github.com/tgaplan/estimator/internal/service/cost"
	"github.com/tgaplan/estimator/internal/service/power"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.Load("v1", []domain.CanonicalRoomType{
		{
			Code:        "BUERO",
			DisplayName: "Büro",
			Synonyms:    []string{"Office"},
			Benchmarks:  domain.Benchmarks{HeatingWPerM2: 45, CoolingWPerM2: 35, VentilationRate: 4, VentilationUnit: domain.UnitPerM2, MedianAreaM2: 25},
		},
		{
			Code:        "LAGER",
			DisplayName: "Lager",
			Synonyms:    []string{"Lagerraum"},
			Benchmarks:  domain.Benchmarks{HeatingWPerM2: 20, VentilationRate: 1, VentilationUnit: domain.UnitPerM2, MedianAreaM2: 100},
		},
	})
	require.NoError(t, err)

	return cat
}

func testTable() []domain.CostFactor {
	return []domain.CostFactor{
		{SubgroupCode: "421", SubgroupTitle: "Wärmeerzeugungsanlagen", Unit: "€/kW", UnitPrice: decimal.NewFromInt(310), Source: domain.SourceHeatingKW},
		{SubgroupCode: "422", SubgroupTitle: "Wärmeverteilnetze", Unit: "€/m²", UnitPrice: decimal.NewFromInt(28), Source: domain.SourceAreaM2},
	}
}

func testOrchestrator() *Orchestrator {
	return NewOrchestrator(
		classifier.New(classifier.Config{
			LexicalThreshold:    0.60,
			SemanticThreshold:   0.75,
			TopK:                25,
			Workers:             4,
			FallbackConcurrency: 2,
			FallbackTimeout:     time.Second,
		}, nil),
		power.NewEstimator(power.Config{
			DefaultHeatingWPerM2:   50,
			DefaultCoolingWPerM2:   40,
			DefaultVentilationRate: 4,
			DefaultVentilationUnit: domain.UnitPerM2,
		}),
		cost.NewEstimator(cost.Factors{Labor: 0.4, OverheadProfit: 0.15, Regional: 1.0, Contingency: 1.05}),
		nil,
	)
}

func f64(v float64) *float64 {
	return &v
}

func testRooms() []domain.RoomRecord {
	return []domain.RoomRecord{
		{ID: "r1", Name: "Büro 1.01", AreaM2: f64(20)},
		{ID: "r2", Name: "Lagerraum", AreaM2: f64(80)},
		{ID: "r3", Name: "Zzzz", AreaM2: f64(15)},
	}
}

func TestRunFullPipeline(t *testing.T) {
	ctx := context.Background()
	o := testOrchestrator()
	cat := testCatalog(t)

	run, err := o.NewRun(ctx, "Projekt Nord", testRooms(), cat.Version())
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	err = o.Run(ctx, run, cat, testTable(), []string{"421", "422"})
	require.NoError(t, err)

	require.Len(t, run.Classifications, 3)
	assert.Equal(t, "BUERO", run.Classifications[0].TypeCode)
	assert.Equal(t, "LAGER", run.Classifications[1].TypeCode)
	assert.True(t, run.Classifications[2].Unclassified())
	require.Len(t, run.Issues, 1)
	assert.Equal(t, domain.IssueUnclassifiedRoom, run.Issues[0].Kind)

	require.Len(t, run.Estimates, 3)
	require.NotNil(t, run.Aggregate)
	assert.InDelta(t, 115, run.Aggregate.TotalAreaM2, 1e-9)
	// 45×20 + 20×80 + 50×15 = 3250 W
	assert.InDelta(t, 3.25, run.Aggregate.TotalHeatingKW, 1e-9)

	require.Len(t, run.LineItems, 2)
	require.NotNil(t, run.Summary)
	assert.True(t, run.Summary.GrandTotal.IsPositive())
}

func TestStagesRequireUpstreamSnapshots(t *testing.T) {
	ctx := context.Background()
	o := testOrchestrator()
	cat := testCatalog(t)

	run, err := o.NewRun(ctx, "Projekt Nord", testRooms(), cat.Version())
	require.NoError(t, err)

	err = o.EstimatePower(ctx, run, cat)
	require.Error(t, err)
	var fatal *FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, domain.StagePower, fatal.Stage)

	err = o.EstimateCost(ctx, run, testTable(), nil)
	require.Error(t, err)
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, domain.StageCost, fatal.Stage)
}

func TestCostStageRerunsFromSnapshot(t *testing.T) {
	ctx := context.Background()
	o := testOrchestrator()
	cat := testCatalog(t)

	run, err := o.NewRun(ctx, "Projekt Nord", testRooms(), cat.Version())
	require.NoError(t, err)
	require.NoError(t, o.Run(ctx, run, cat, testTable(), []string{"421", "422"}))

	firstTotal := run.Summary.GrandTotal

	// re-pricing with a doubled heating rate only touches the cost snapshot
	repriced := testTable()
	repriced[0].UnitPrice = repriced[0].UnitPrice.Mul(decimal.NewFromInt(2))

	classifications := run.Classifications
	aggregate := run.Aggregate

	require.NoError(t, o.EstimateCost(ctx, run, repriced, []string{"421", "422"}))

	assert.True(t, run.Summary.GrandTotal.GreaterThan(firstTotal))
	assert.Equal(t, classifications, run.Classifications)
	assert.Equal(t, aggregate, run.Aggregate)
}

func TestCostStageFatalOnMissingFactor(t *testing.T) {
	ctx := context.Background()
	o := testOrchestrator()
	cat := testCatalog(t)

	run, err := o.NewRun(ctx, "Projekt Nord", testRooms(), cat.Version())
	require.NoError(t, err)

	err = o.Run(ctx, run, cat, testTable(), []string{"421", "422", "431"})
	require.Error(t, err)

	var fatal *FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, domain.StageCost, fatal.Stage)
	assert.True(t, errors.Is(err, constants.ErrMissingCostFactor))
}

func TestLoadRunWithoutStore(t *testing.T) {
	o := testOrchestrator()

	_, err := o.LoadRun(context.Background(), "some-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, constants.ErrDBNotFound))
}
