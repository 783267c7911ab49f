package dto

import (
	"github.com/tgaplan/estimator/internal/domain"
)

// RoomTypeEntry is one catalog row as supplied by the caller.
type RoomTypeEntry struct {
	Code        string            `json:"code" validate:"required"`
	DisplayName string            `json:"display_name" validate:"required"`
	Synonyms    []string          `json:"synonyms"`
	Benchmarks  domain.Benchmarks `json:"benchmarks"`
}

func (e RoomTypeEntry) ToDomain() domain.CanonicalRoomType {
	return domain.CanonicalRoomType{
		Code:        e.Code,
		DisplayName: e.DisplayName,
		Synonyms:    e.Synonyms,
		Benchmarks:  e.Benchmarks,
	}
}

// ClassifyRequest carries the room book plus either an inline synonym mapping
// or a reference to a stored catalog version.
type ClassifyRequest struct {
	ProjectName    string              `json:"project_name" validate:"required"`
	CatalogVersion string              `json:"catalog_version"`
	Mapping        []RoomTypeEntry     `json:"mapping" validate:"omitempty,dive"`
	Rooms          []domain.RoomRecord `json:"rooms" validate:"required,min=1"`
}

type PowerRequest struct {
	RunID            string              `json:"run_id" validate:"required"`
	HeatingRooms     []domain.RoomRecord `json:"heating_rooms"`
	VentilationRooms []domain.RoomRecord `json:"ventilation_rooms"`
}

type CostRequest struct {
	RunID              string              `json:"run_id" validate:"required"`
	FactorTableVersion string              `json:"factor_table_version"`
	Factors            []domain.CostFactor `json:"factors"`
	RequiredSubgroups  []string            `json:"required_subgroups"`
}

type ReportRequest struct {
	RunID       string   `json:"run_id" validate:"required"`
	ProjectName string   `json:"project_name" validate:"required"`
	Formats     []string `json:"formats" validate:"required,min=1,dive,oneof=pdf docx md"`
}

type CatalogImportRequest struct {
	Version string          `json:"version" validate:"required"`
	Entries []RoomTypeEntry `json:"entries" validate:"required,min=1,dive"`
}

type CostFactorImportRequest struct {
	TableVersion string `json:"table_version" validate:"required"`
	IndexURL     string `json:"index_url" validate:"omitempty,url"`
}
