package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tgaplan/estimator/internal/domain/dto"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

func (c *Controller) GenerateReport(ctx echo.Context) error {
	req := new(dto.ReportRequest)
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

	artifacts, err := c.report.Generate(reqCtx, req.ProjectName, req.Formats, run)
	if err != nil {
		return err
	}

	refs := make(map[string]string, len(artifacts))
	formats := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		refs[artifact.Format] = artifact.ID
		formats = append(formats, artifact.Format)
	}

	return ctx.JSON(http.StatusOK, &dto.ReportResponse{
		ProjectName: req.ProjectName,
		FileCount:   len(artifacts),
		Formats:     formats,
		Artifacts:   refs,
		Message:     "report generation complete",
	})
}
