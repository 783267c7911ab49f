package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tgaplan/estimator/internal/domain/dto"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

func (c *Controller) ClassifyRoomTypes(ctx echo.Context) error {
	req := new(dto.ClassifyRequest)
	if err := ctx.Bind(req); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrFileFormat, err.Error())
	}
	if err := ctx.Validate(req); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()

	cat, err := c.loadCatalog(reqCtx, req.CatalogVersion, req.Mapping)
	if err != nil {
		return err
	}

	run, err := c.orchestrator.NewRun(reqCtx, req.ProjectName, req.Rooms, cat.Version())
	if err != nil {
		return err
	}

	if err = c.orchestrator.Classify(reqCtx, run, cat); err != nil {
		return err
	}

	classified := 0
	for _, res := range run.Classifications {
		if !res.Unclassified() {
			classified++
		}
	}

	return ctx.JSON(http.StatusOK, &dto.ClassifyResponse{
		RunID:        run.ID,
		ProcessedRef: fmt.Sprintf("runs/%s", run.ID),
		ReportRef:    fmt.Sprintf("runs/%s/classification-report", run.ID),
		OutputRef:    fmt.Sprintf("runs/%s/classified", run.ID),
		Rows:         len(run.Classifications),
		Classified:   classified,
		Unclassified: len(run.Classifications) - classified,
		Results:      run.Classifications,
		Issues:       run.Issues,
		Message:      "classification complete",
	})
}
