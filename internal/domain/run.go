package domain

import "time"

// Stage identifies one step of the estimation pipeline.
type Stage string

const (
	StageClassification Stage = "classification"
	StagePower          Stage = "power_estimation"
	StageCost           Stage = "cost_estimation"
	StageReport         Stage = "report"
)

// IssueKind classifies a non-fatal, per-room problem recorded during a run.
type IssueKind string

const (
	IssueMalformedRoomRecord IssueKind = "malformed_room_record"
	IssueUnclassifiedRoom    IssueKind = "unclassified_room"
	IssueClassifierTimeout   IssueKind = "external_classifier_timeout"
	IssueClassifierError     IssueKind = "external_classifier_error"
)

// RunIssue is a recorded, non-fatal problem. Issues are surfaced alongside the
// run result, never silently dropped.
type RunIssue struct {
	RoomID string    `json:"room_id,omitempty" db:"room_id"`
	Stage  Stage     `json:"stage" db:"stage"`
	Kind   IssueKind `json:"kind" db:"kind"`
	Detail string    `json:"detail" db:"detail"`
}

// Run owns the immutable stage snapshots of one pipeline execution. Each
// snapshot is written once by its stage; downstream stages only read.
type Run struct {
	ID              string                 `json:"id"`
	ProjectName     string                 `json:"project_name"`
	CatalogVersion  string                 `json:"catalog_version"`
	Rooms           []RoomRecord           `json:"rooms,omitempty"`
	Classifications []ClassificationResult `json:"classifications,omitempty"`
	Estimates       []PowerEstimate        `json:"estimates,omitempty"`
	Aggregate       *PowerAggregate        `json:"aggregate,omitempty"`
	LineItems       []CostLineItem         `json:"line_items,omitempty"`
	Summary         *CostSummary           `json:"summary,omitempty"`
	Issues          []RunIssue             `json:"issues,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// Artifact references a generated file by id; retrieval happens elsewhere.
type Artifact struct {
	ID        string    `json:"id" db:"id"`
	RunID     string    `json:"run_id" db:"run_id"`
	Name      string    `json:"name" db:"name"`
	Format    string    `json:"format" db:"format"`
	Path      string    `json:"path" db:"path"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
