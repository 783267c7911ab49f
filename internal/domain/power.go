package domain

// PowerEstimate carries the per-room benchmark rates and the derived absolute
// loads. One exists for every room, including UNCLASSIFIED ones.
type PowerEstimate struct {
	RoomID            string        `json:"room_id"`
	TypeCode          string        `json:"type_code"`
	HeatingWPerM2     float64       `json:"heating_w_per_m2"`
	CoolingWPerM2     float64       `json:"cooling_w_per_m2"`
	VentilationRate   float64       `json:"ventilation_rate"`
	VentilationUnit   BenchmarkUnit `json:"ventilation_unit"`
	AreaM2            float64       `json:"area_m2"`
	VolumeM3          float64       `json:"volume_m3"`
	HeatingW          float64       `json:"heating_w"`
	CoolingW          float64       `json:"cooling_w"`
	VentilationM3PerH float64       `json:"ventilation_m3_per_h"`
	Confidence        float64       `json:"confidence"`
	LowConfidence     bool          `json:"low_confidence"`
}

// PowerAggregate is the building-level rollup over all per-room estimates.
// Average rates are weighted by the quantity the benchmark multiplies, not a
// plain mean across rooms.
type PowerAggregate struct {
	RoomCount          int     `json:"room_count"`
	TotalAreaM2        float64 `json:"total_area_m2"`
	TotalVolumeM3      float64 `json:"total_volume_m3"`
	TotalHeatingKW     float64 `json:"total_heating_kw"`
	TotalCoolingKW     float64 `json:"total_cooling_kw"`
	TotalAirflowM3PerH float64 `json:"total_airflow_m3_per_h"`
	AvgHeatingWPerM2   float64 `json:"avg_heating_w_per_m2"`
	AvgCoolingWPerM2   float64 `json:"avg_cooling_w_per_m2"`
	MinHeatingWPerM2   float64 `json:"min_heating_w_per_m2"`
	MaxHeatingWPerM2   float64 `json:"max_heating_w_per_m2"`
	LowConfidenceRooms int     `json:"low_confidence_rooms"`
}
