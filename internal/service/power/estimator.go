package power

import (
	"fmt"
	"math"

	"github.com/spf13/viper"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/constants"
	"github.com/tgaplan/estimator/internal/service/catalog"
)

// Config carries the generic benchmark applied to UNCLASSIFIED rooms so
// building totals stay representative.
type Config struct {
	DefaultHeatingWPerM2   float64
	DefaultCoolingWPerM2   float64
	DefaultVentilationRate float64
	DefaultVentilationUnit domain.BenchmarkUnit
}

func ConfigFromViper() Config {
	return Config{
		DefaultHeatingWPerM2:   viper.GetFloat64(constants.ViperKeyDefaultHeating),
		DefaultCoolingWPerM2:   viper.GetFloat64(constants.ViperKeyDefaultCooling),
		DefaultVentilationRate: viper.GetFloat64(constants.ViperKeyDefaultVentilation),
		DefaultVentilationUnit: domain.BenchmarkUnit(viper.GetString(constants.ViperKeyDefaultVentilationUnit)),
	}
}

// Estimator derives absolute loads from classifications and catalog
// benchmarks. Purely deterministic, no external calls.
type Estimator struct {
	cfg Config
}

func NewEstimator(cfg Config) *Estimator {
	if cfg.DefaultVentilationUnit == "" {
		cfg.DefaultVentilationUnit = domain.UnitPerM2
	}
	return &Estimator{cfg: cfg}
}

// lowConfidenceBound marks estimates whose classification confidence is too
// weak to trust individually; they still count into the building totals.
const lowConfidenceBound = 0.5

// Estimate produces one PowerEstimate per room plus the building-level
// aggregate. rooms and results must be the joined, same-order output of
// classification.
func (e *Estimator) Estimate(rooms []domain.RoomRecord, results []domain.ClassificationResult, cat *catalog.Catalog) ([]domain.PowerEstimate, *domain.PowerAggregate, error) {
	if len(rooms) != len(results) {
		return nil, nil, fmt.Errorf("rooms and classifications diverge: %d vs %d", len(rooms), len(results))
	}

	estimates := make([]domain.PowerEstimate, 0, len(rooms))
	agg := &domain.PowerAggregate{
		RoomCount:        len(rooms),
		MinHeatingWPerM2: math.Inf(1),
		MaxHeatingWPerM2: math.Inf(-1),
	}

	var totalHeatingW, totalCoolingW float64

	for i, room := range rooms {
		result := results[i]

		benchmarks := e.benchmarksFor(result, cat)

		estimate := domain.PowerEstimate{
			RoomID:          room.ID,
			TypeCode:        result.TypeCode,
			HeatingWPerM2:   benchmarks.HeatingWPerM2,
			CoolingWPerM2:   benchmarks.CoolingWPerM2,
			VentilationRate: benchmarks.VentilationRate,
			VentilationUnit: benchmarks.VentilationUnit,
			Confidence:      result.Confidence,
			LowConfidence:   result.Confidence < lowConfidenceBound,
		}

		if room.AreaM2 != nil && *room.AreaM2 > 0 {
			estimate.AreaM2 = *room.AreaM2
		}
		if room.VolumeM3 != nil && *room.VolumeM3 > 0 {
			estimate.VolumeM3 = *room.VolumeM3
		}

		estimate.HeatingW = estimate.HeatingWPerM2 * estimate.AreaM2
		estimate.CoolingW = estimate.CoolingWPerM2 * estimate.AreaM2

		switch estimate.VentilationUnit {
		case domain.UnitPerM3:
			estimate.VentilationM3PerH = estimate.VentilationRate * estimate.VolumeM3
		default:
			estimate.VentilationM3PerH = estimate.VentilationRate * estimate.AreaM2
		}

		estimates = append(estimates, estimate)

		totalHeatingW += estimate.HeatingW
		totalCoolingW += estimate.CoolingW
		agg.TotalAreaM2 += estimate.AreaM2
		agg.TotalVolumeM3 += estimate.VolumeM3
		agg.TotalAirflowM3PerH += estimate.VentilationM3PerH
		if estimate.LowConfidence {
			agg.LowConfidenceRooms++
		}

		if estimate.AreaM2 > 0 {
			agg.MinHeatingWPerM2 = math.Min(agg.MinHeatingWPerM2, estimate.HeatingWPerM2)
			agg.MaxHeatingWPerM2 = math.Max(agg.MaxHeatingWPerM2, estimate.HeatingWPerM2)
		}
	}

	agg.TotalHeatingKW = totalHeatingW / 1000
	agg.TotalCoolingKW = totalCoolingW / 1000

	// averages weighted by area, not a plain mean across rooms
	if agg.TotalAreaM2 > 0 {
		agg.AvgHeatingWPerM2 = totalHeatingW / agg.TotalAreaM2
		agg.AvgCoolingWPerM2 = totalCoolingW / agg.TotalAreaM2
	}
	if math.IsInf(agg.MinHeatingWPerM2, 1) {
		agg.MinHeatingWPerM2, agg.MaxHeatingWPerM2 = 0, 0
	}

	return estimates, agg, nil
}

func (e *Estimator) benchmarksFor(result domain.ClassificationResult, cat *catalog.Catalog) domain.Benchmarks {
	if !result.Unclassified() {
		if entry, ok := cat.Lookup(result.TypeCode); ok {
			return entry.Benchmarks
		}
	}

	return domain.Benchmarks{
		HeatingWPerM2:   e.cfg.DefaultHeatingWPerM2,
		CoolingWPerM2:   e.cfg.DefaultCoolingWPerM2,
		VentilationRate: e.cfg.DefaultVentilationRate,
		VentilationUnit: e.cfg.DefaultVentilationUnit,
	}
}
