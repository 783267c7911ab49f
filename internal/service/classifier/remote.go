package classifier

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/tgaplan/estimator/internal/domain"
)

// RemoteRanker calls an external reasoning service over HTTP. The per-call
// deadline comes from the request context, set by the classifier.
type RemoteRanker struct {
	client *resty.Client
}

func NewRemoteRanker(baseURL string) *RemoteRanker {
	return &RemoteRanker{
		client: resty.New().SetBaseURL(baseURL),
	}
}

type rankRequest struct {
	RoomName   string             `json:"room_name"`
	Candidates []domain.Candidate `json:"candidates"`
}

type rankResponse struct {
	Candidates []domain.Candidate `json:"candidates"`
}

func (r *RemoteRanker) Rank(ctx context.Context, roomName string, candidates []domain.Candidate) ([]domain.Candidate, error) {
	var out rankResponse

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(rankRequest{RoomName: roomName, Candidates: candidates}).
		SetResult(&out).
		Post("/rank")
	if err != nil {
		return nil, fmt.Errorf("ranker request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ranker status: %s", resp.Status())
	}

	return out.Candidates, nil
}
