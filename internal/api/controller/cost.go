package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/domain/dto"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

func (c *Controller) EstimateCost(ctx echo.Context) error {
	req := new(dto.CostRequest)
	if err := ctx.Bind(req); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrFileFormat, err.Error())
	}
	if err := ctx.Validate(req); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()

	run, err := c.orchestrator.LoadRun(reqCtx, req.RunID)
	if err != nil {
		return err
	}

	factors, err := c.resolveFactors(ctx, req)
	if err != nil {
		return err
	}

	required := req.RequiredSubgroups
	if len(required) == 0 {
		required = viper.GetStringSlice(constants.ViperKeyRequiredSubgroups)
	}

	if err = c.orchestrator.EstimateCost(reqCtx, run, factors, required); err != nil {
		return err
	}

	views := make([]dto.CostLineItemView, 0, len(run.LineItems))
	for _, item := range run.LineItems {
		views = append(views, dto.NewCostLineItemView(item))
	}

	return ctx.JSON(http.StatusOK, &dto.CostResponse{
		RunID: run.ID,
		Summary: dto.CostSummaryView{
			ProjectMetrics:     run.Summary.ProjectMetrics,
			GrandTotalCost:     run.Summary.GrandTotal.StringFixed(2),
			CostFactorsApplied: run.Summary.FactorsApplied,
		},
		DetailedBOQ: views,
	})
}

func (c *Controller) resolveFactors(ctx echo.Context, req *dto.CostRequest) ([]domain.CostFactor, error) {
	if len(req.Factors) > 0 {
		return req.Factors, nil
	}

	if req.FactorTableVersion == "" {
		return nil, constants.NewCodedError("either factors or factor_table_version is required", http.StatusBadRequest)
	}
	if c.store == nil {
		return nil, fmt.Errorf("factor table %s: %w", req.FactorTableVersion, constants.ErrDBNotFound)
	}

	factors, err := c.store.ListCostFactors(ctx.Request().Context(), req.FactorTableVersion)
	if err != nil {
		return nil, fmt.Errorf("store.ListCostFactors: %w", err)
	}

	return factors, nil
}
