package domain

// TypeCodeUnclassified is the sentinel code assigned when no catalog entry
// could be matched with acceptable confidence.
const TypeCodeUnclassified = "UNCLASSIFIED"

// MatchMethod records how a classification was produced.
type MatchMethod string

const (
	MethodLexical      MatchMethod = "lexical"
	MethodSemantic     MatchMethod = "semantic"
	MethodDegraded     MatchMethod = "degraded"
	MethodUnclassified MatchMethod = "unclassified"
)

// Candidate is one ranked catalog entry considered for a room.
type Candidate struct {
	TypeCode    string  `json:"type_code"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

// ClassificationResult assigns a canonical type to one room. Produced exactly
// once per room per run and never mutated afterwards.
type ClassificationResult struct {
	RoomID     string      `json:"room_id"`
	RoomName   string      `json:"room_name"`
	TypeCode   string      `json:"type_code"`
	Confidence float64     `json:"confidence"`
	Candidates []Candidate `json:"candidates,omitempty"`
	Method     MatchMethod `json:"method"`
}

func (r ClassificationResult) Unclassified() bool {
	return r.TypeCode == TypeCodeUnclassified
}
