package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/domain/dto"
	"github.com/tgaplan/estimator/internal/pkg/constants"
	"github.com/tgaplan/estimator/internal/service/catalog"
)

func (c *Controller) ImportCatalog(ctx echo.Context) error {
	req := new(dto.CatalogImportRequest)
	if err := ctx.Bind(req); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrFileFormat, err.Error())
	}
	if err := ctx.Validate(req); err != nil {
		return err
	}

	entries := make([]domain.CanonicalRoomType, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, e.ToDomain())
	}

	// validate conflicts before anything reaches the store
	if _, err := catalog.Load(req.Version, entries); err != nil {
		return err
	}

	if c.store == nil {
		return fmt.Errorf("catalog store: %w", constants.ErrDBNotFound)
	}
	if err := c.store.InsertCatalog(ctx.Request().Context(), req.Version, entries); err != nil {
		return fmt.Errorf("store.InsertCatalog: %w", err)
	}

	return ctx.JSON(http.StatusOK, &dto.CatalogImportResponse{
		Version: req.Version,
		Types:   len(entries),
		Message: "catalog imported",
	})
}

func (c *Controller) ImportCostFactors(ctx echo.Context) error {
	req := new(dto.CostFactorImportRequest)
	if err := ctx.Bind(req); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrFileFormat, err.Error())
	}
	if err := ctx.Validate(req); err != nil {
		return err
	}

	indexURL := req.IndexURL
	if indexURL == "" {
		indexURL = viper.GetString(constants.ViperKeyBKIIndexURL)
	}
	if indexURL == "" {
		return constants.NewCodedError("index_url is required when no default is configured", http.StatusBadRequest)
	}

	factors, err := c.importer.ImportCostFactors(ctx.Request().Context(), indexURL, req.TableVersion)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, &dto.CostFactorImportResponse{
		TableVersion: req.TableVersion,
		Factors:      len(factors),
		Message:      "cost factors imported",
	})
}
