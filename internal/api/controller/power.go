package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/domain/dto"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

func (c *Controller) GeneratePowerRequirements(ctx echo.Context) error {
	req := new(dto.PowerRequest)
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

	merged, columns := mergeRooms(run.Rooms, req.HeatingRooms, req.VentilationRooms)
	run.Rooms = merged

	cat, err := c.loadCatalog(reqCtx, run.CatalogVersion, nil)
	if err != nil {
		return err
	}

	if err = c.orchestrator.EstimatePower(reqCtx, run, cat); err != nil {
		return err
	}

	estimates := make(map[string]domain.PowerEstimate, len(run.Estimates))
	for _, estimate := range run.Estimates {
		estimates[estimate.RoomID] = estimate
	}

	return ctx.JSON(http.StatusOK, &dto.PowerResponse{
		RunID:               run.ID,
		HeatingRef:          fmt.Sprintf("runs/%s/heating", run.ID),
		VentilationRef:      fmt.Sprintf("runs/%s/ventilation", run.ID),
		MergedRows:          len(merged),
		MergedColumns:       columns,
		PowerEstimates:      estimates,
		Aggregate:           run.Aggregate,
		PerformanceTableRef: fmt.Sprintf("runs/%s/performance-table", run.ID),
		Message:             "power requirements generated",
	})
}

// mergeRooms overlays the heating and ventilation deliveries onto the run's
// room book, matching rows by room id. Heating rows win for area, ventilation
// rows fill volume; row order stays that of the room book so downstream joins
// hold.
func mergeRooms(rooms, heating, ventilation []domain.RoomRecord) ([]domain.RoomRecord, int) {
	heatingByID := indexByID(heating)
	ventilationByID := indexByID(ventilation)

	merged := make([]domain.RoomRecord, len(rooms))
	copy(merged, rooms)

	for i := range merged {
		if h, ok := heatingByID[merged[i].ID]; ok {
			overlay(&merged[i], h)
		}
		if v, ok := ventilationByID[merged[i].ID]; ok {
			overlay(&merged[i], v)
		}
	}

	return merged, countColumns(merged)
}

func indexByID(rooms []domain.RoomRecord) map[string]domain.RoomRecord {
	byID := make(map[string]domain.RoomRecord, len(rooms))
	for _, room := range rooms {
		byID[room.ID] = room
	}
	return byID
}

func overlay(dst *domain.RoomRecord, src domain.RoomRecord) {
	if src.AreaM2 != nil && dst.AreaM2 == nil {
		dst.AreaM2 = src.AreaM2
	}
	if src.VolumeM3 != nil && dst.VolumeM3 == nil {
		dst.VolumeM3 = src.VolumeM3
	}
	if src.WindowAreaM2 != nil && dst.WindowAreaM2 == nil {
		dst.WindowAreaM2 = src.WindowAreaM2
	}
	if src.Occupancy != nil && dst.Occupancy == nil {
		dst.Occupancy = src.Occupancy
	}
	if src.Floor != "" && dst.Floor == "" {
		dst.Floor = src.Floor
	}
}

func countColumns(rooms []domain.RoomRecord) int {
	columns := 2 // id and name are always present
	var hasArea, hasVolume, hasWindow, hasOccupancy, hasFloor bool
	for _, room := range rooms {
		hasArea = hasArea || room.AreaM2 != nil
		hasVolume = hasVolume || room.VolumeM3 != nil
		hasWindow = hasWindow || room.WindowAreaM2 != nil
		hasOccupancy = hasOccupancy || room.Occupancy != nil
		hasFloor = hasFloor || room.Floor != ""
	}
	for _, present := range []bool{hasArea, hasVolume, hasWindow, hasOccupancy, hasFloor} {
		if present {
			columns++
		}
	}
	return columns
}
