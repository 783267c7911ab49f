package domain

// BenchmarkUnit declares which physical quantity a benchmark rate multiplies.
type BenchmarkUnit string

const (
	UnitPerM2 BenchmarkUnit = "per_m2"
	UnitPerM3 BenchmarkUnit = "per_m3"
)

// RoomRecord is one physical room as delivered by ingestion. Created once,
// never mutated by the pipeline.
type RoomRecord struct {
	ID           string   `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	AreaM2       *float64 `json:"area_m2" db:"area_m2"`
	VolumeM3     *float64 `json:"volume_m3" db:"volume_m3"`
	Floor        string   `json:"floor,omitempty" db:"floor"`
	WindowAreaM2 *float64 `json:"window_area_m2,omitempty" db:"window_area_m2"`
	Occupancy    *int     `json:"occupancy,omitempty" db:"occupancy"`
}

// Benchmarks holds the historical engineering values carried by a canonical
// room type.
type Benchmarks struct {
	HeatingWPerM2   float64       `json:"heating_w_per_m2"`
	CoolingWPerM2   float64       `json:"cooling_w_per_m2"`
	VentilationRate float64       `json:"ventilation_rate"`
	VentilationUnit BenchmarkUnit `json:"ventilation_unit"`
	MedianAreaM2    float64       `json:"median_area_m2"`
}

// CanonicalRoomType is one entry of the controlled vocabulary.
type CanonicalRoomType struct {
	Code        string     `json:"code"`
	DisplayName string     `json:"display_name"`
	Synonyms    []string   `json:"synonyms"`
	Benchmarks  Benchmarks `json:"benchmarks"`
}
