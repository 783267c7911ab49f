package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/constants"
	"github.com/tgaplan/estimator/internal/pkg/logger"
	"github.com/tgaplan/estimator/internal/pkg/store"
	"github.com/tgaplan/estimator/internal/service/catalog"
	"github.com/tgaplan/estimator/internal/service/classifier"
	"github.com/tgaplan/estimator/internal/service/cost"
	"github.com/tgaplan/estimator/internal/service/power"
)

// FatalError aborts a run and names the first stage that failed. Non-fatal
// problems never surface here; they are collected on the run as issues.
type FatalError struct {
	Stage domain.Stage
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("stage %s: %s", e.Stage, e.Err.Error())
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Orchestrator sequences classification, power estimation and cost estimation
// over one run. Stages communicate only through the run's immutable
// snapshots, so any downstream stage can be re-run alone from a stored run.
type Orchestrator struct {
	classifier *classifier.Classifier
	power      *power.Estimator
	cost       *cost.Estimator
	store      store.Store
}

// NewOrchestrator wires the three stages. store may be nil; the pipeline then
// keeps runs in memory only.
func NewOrchestrator(cls *classifier.Classifier, pow *power.Estimator, cst *cost.Estimator, st store.Store) *Orchestrator {
	return &Orchestrator{classifier: cls, power: pow, cost: cst, store: st}
}

// NewRun opens a run owning its own result set.
func (o *Orchestrator) NewRun(ctx context.Context, projectName string, rooms []domain.RoomRecord, catalogVersion string) (*domain.Run, error) {
	run := &domain.Run{
		ID:             uuid.NewString(),
		ProjectName:    projectName,
		CatalogVersion: catalogVersion,
		Rooms:          rooms,
		CreatedAt:      time.Now().UTC(),
	}

	if o.store != nil {
		if err := o.store.InsertRun(ctx, run); err != nil {
			return nil, fmt.Errorf("store.InsertRun: %w", err)
		}
	}

	return run, nil
}

// LoadRun restores a stored run for re-running a downstream stage.
func (o *Orchestrator) LoadRun(ctx context.Context, id string) (*domain.Run, error) {
	if o.store == nil {
		return nil, constants.ErrDBNotFound
	}
	return o.store.GetRun(ctx, id)
}

// Classify runs the classification stage and snapshots its output.
func (o *Orchestrator) Classify(ctx context.Context, run *domain.Run, cat *catalog.Catalog) error {
	ctx = withRunID(ctx, run)

	results, issues, err := o.classifier.Classify(ctx, run.Rooms, cat)
	if err != nil {
		return &FatalError{Stage: domain.StageClassification, Err: err}
	}

	run.CatalogVersion = cat.Version()
	run.Classifications = results
	run.Issues = append(run.Issues, issues...)

	logger.Infof(ctx, "classified %d rooms, %d issues", len(results), len(issues))

	return o.save(ctx, run)
}

// EstimatePower runs the power stage from the classification snapshot.
func (o *Orchestrator) EstimatePower(ctx context.Context, run *domain.Run, cat *catalog.Catalog) error {
	ctx = withRunID(ctx, run)

	if run.Classifications == nil {
		return &FatalError{Stage: domain.StagePower, Err: fmt.Errorf("classification snapshot missing")}
	}

	estimates, aggregate, err := o.power.Estimate(run.Rooms, run.Classifications, cat)
	if err != nil {
		return &FatalError{Stage: domain.StagePower, Err: err}
	}

	run.Estimates = estimates
	run.Aggregate = aggregate

	logger.Infof(ctx, "estimated power for %d rooms: %.1f kW heating, %.1f kW cooling",
		len(estimates), aggregate.TotalHeatingKW, aggregate.TotalCoolingKW)

	return o.save(ctx, run)
}

// EstimateCost runs the cost stage from the power snapshot.
func (o *Orchestrator) EstimateCost(ctx context.Context, run *domain.Run, table []domain.CostFactor, required []string) error {
	ctx = withRunID(ctx, run)

	if run.Aggregate == nil {
		return &FatalError{Stage: domain.StageCost, Err: fmt.Errorf("power snapshot missing")}
	}

	items, summary, err := o.cost.Estimate(run.Aggregate, table, required)
	if err != nil {
		return &FatalError{Stage: domain.StageCost, Err: err}
	}

	run.LineItems = items
	run.Summary = summary

	logger.Infof(ctx, "estimated cost: %d line items, grand total %s", len(items), summary.GrandTotal.StringFixed(2))

	return o.save(ctx, run)
}

// Run executes the whole pipeline. Each stage starts only after the previous
// one finished completely.
func (o *Orchestrator) Run(ctx context.Context, run *domain.Run, cat *catalog.Catalog, table []domain.CostFactor, required []string) error {
	if err := o.Classify(ctx, run, cat); err != nil {
		return err
	}
	if err := o.EstimatePower(ctx, run, cat); err != nil {
		return err
	}
	return o.EstimateCost(ctx, run, table, required)
}

func (o *Orchestrator) save(ctx context.Context, run *domain.Run) error {
	if o.store == nil {
		return nil
	}

	if err := o.store.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("store.UpdateRun: %w", err)
	}
	return nil
}

func withRunID(ctx context.Context, run *domain.Run) context.Context {
	return context.WithValue(ctx, constants.CtxKeyRunID, run.ID)
}
