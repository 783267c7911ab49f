package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/logger"
	"github.com/tgaplan/estimator/internal/service/catalog"
	"golang.org/x/sync/errgroup"
)

// degradedConfidenceFactor lowers the lexical confidence when the semantic
// fallback failed and the lexical-only result is used instead.
const degradedConfidenceFactor = 0.5

// Classifier matches room records against a catalog. It is a pure function of
// (rooms, catalog, ranker); all per-run state lives on the stack of Classify.
type Classifier struct {
	cfg    Config
	ranker Ranker
	sem    chan struct{}
}

func New(cfg Config, ranker Ranker) *Classifier {
	cfg = cfg.withDefaults()
	return &Classifier{
		cfg:    cfg,
		ranker: ranker,
		sem:    make(chan struct{}, cfg.FallbackConcurrency),
	}
}

// Classify produces one ClassificationResult per room, same order as the
// input. Per-room problems degrade that room and are returned as issues; only
// cancellation aborts the batch.
func (c *Classifier) Classify(ctx context.Context, rooms []domain.RoomRecord, cat *catalog.Catalog) ([]domain.ClassificationResult, []domain.RunIssue, error) {
	results := make([]domain.ClassificationResult, len(rooms))

	var (
		issues   []domain.RunIssue
		issuesMx sync.Mutex
	)
	cache := newRunCache()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.cfg.Workers)

	for i := range rooms {
		i := i
		room := rooms[i]
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			res, roomIssues := c.classifyRoom(egCtx, room, cat, cache)
			results[i] = res

			if len(roomIssues) > 0 {
				issuesMx.Lock()
				issues = append(issues, roomIssues...)
				issuesMx.Unlock()
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, nil, fmt.Errorf("classification aborted: %w", err)
	}

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].RoomID < issues[j].RoomID })

	return results, issues, nil
}

func (c *Classifier) classifyRoom(ctx context.Context, room domain.RoomRecord, cat *catalog.Catalog, cache *runCache) (domain.ClassificationResult, []domain.RunIssue) {
	res := domain.ClassificationResult{
		RoomID:   room.ID,
		RoomName: room.Name,
		TypeCode: domain.TypeCodeUnclassified,
		Method:   domain.MethodUnclassified,
	}

	normalized := catalog.NormalizeName(room.Name)
	if normalized == "" {
		return res, []domain.RunIssue{{
			RoomID: room.ID,
			Stage:  domain.StageClassification,
			Kind:   domain.IssueMalformedRoomRecord,
			Detail: "room has no usable name",
		}}
	}

	if entry, ok := cache.get(normalized); ok {
		res.TypeCode = entry.TypeCode
		res.Confidence = entry.Confidence
		res.Method = entry.Method
		res.Candidates = entry.Candidates
		if res.Unclassified() {
			return res, []domain.RunIssue{unclassifiedIssue(room.ID, room.Name)}
		}
		return res, nil
	}

	candidates := c.rankLexical(normalized, room, cat)
	if len(candidates) == 0 {
		return res, []domain.RunIssue{unclassifiedIssue(room.ID, room.Name)}
	}

	top := candidates[0]
	topK := candidates
	if len(topK) > c.cfg.TopK {
		topK = topK[:c.cfg.TopK]
	}
	res.Candidates = topK

	if top.Score >= c.cfg.LexicalThreshold {
		res.TypeCode = top.TypeCode
		res.Confidence = top.Score
		res.Method = domain.MethodLexical
		cache.put(normalized, res)
		return res, nil
	}

	if c.ranker == nil {
		res.Confidence = 0
		cache.put(normalized, res)
		return res, []domain.RunIssue{unclassifiedIssue(room.ID, room.Name)}
	}

	ranked, err := c.rankSemantic(ctx, room.Name, topK)
	if err != nil {
		kind := domain.IssueClassifierError
		if errors.Is(err, context.DeadlineExceeded) {
			kind = domain.IssueClassifierTimeout
		}
		logger.Warnf(ctx, "semantic fallback failed for room %s: %s", room.ID, err.Error())

		issues := []domain.RunIssue{{
			RoomID: room.ID,
			Stage:  domain.StageClassification,
			Kind:   kind,
			Detail: err.Error(),
		}}

		if top.Score > 0 {
			// lexical-only result with lowered confidence, not cached so a
			// later room with the same name gets another fallback attempt
			res.TypeCode = top.TypeCode
			res.Confidence = top.Score * degradedConfidenceFactor
			res.Method = domain.MethodDegraded
			return res, issues
		}

		return res, append(issues, unclassifiedIssue(room.ID, room.Name))
	}

	if best := firstKnown(ranked, cat); best != nil &&
		best.Score >= c.cfg.SemanticThreshold && best.Score > top.Score {
		res.TypeCode = best.TypeCode
		res.Confidence = best.Score
		res.Method = domain.MethodSemantic
		res.Candidates = ranked
		cache.put(normalized, res)
		return res, nil
	}

	res.Confidence = 0
	cache.put(normalized, res)
	return res, []domain.RunIssue{unclassifiedIssue(room.ID, room.Name)}
}

// rankLexical scores every catalog entry against the room name and returns
// the full candidate list, best first. Ties break on the distance between the
// type's median area and the room's area, then on the smaller type code.
func (c *Classifier) rankLexical(normalized string, room domain.RoomRecord, cat *catalog.Catalog) []domain.Candidate {
	key := queryKey(normalized)

	entries := cat.Candidates()
	candidates := make([]domain.Candidate, 0, len(entries))
	for _, entry := range entries {
		best := 0.0
		for _, synonym := range cat.NormalizedSynonyms(entry.Code) {
			score := Score(normalized, synonym)
			if key != normalized {
				if keyScore := Score(key, synonym); keyScore > score {
					score = keyScore
				}
			}
			if score > best {
				best = score
			}
		}
		candidates = append(candidates, domain.Candidate{
			TypeCode:    entry.Code,
			DisplayName: entry.DisplayName,
			Score:       best,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if room.AreaM2 != nil {
			di := areaDistance(cat, candidates[i].TypeCode, *room.AreaM2)
			dj := areaDistance(cat, candidates[j].TypeCode, *room.AreaM2)
			if di != dj {
				return di < dj
			}
		}
		return candidates[i].TypeCode < candidates[j].TypeCode
	})

	return candidates
}

func (c *Classifier) rankSemantic(ctx context.Context, roomName string, candidates []domain.Candidate) ([]domain.Candidate, error) {
	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.FallbackTimeout)
	defer cancel()

	var ranked []domain.Candidate
	err := backoff.Retry(
		func() error {
			var rankErr error
			ranked, rankErr = c.ranker.Rank(callCtx, roomName, candidates)
			return rankErr
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(100*time.Millisecond), 2),
			callCtx,
		),
	)
	if err != nil {
		if ctxErr := callCtx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	return ranked, nil
}

// firstKnown returns the best ranked candidate whose type code exists in the
// catalog, guarding against fallback answers outside the vocabulary.
func firstKnown(ranked []domain.Candidate, cat *catalog.Catalog) *domain.Candidate {
	for i := range ranked {
		if _, ok := cat.Lookup(ranked[i].TypeCode); ok {
			return &ranked[i]
		}
	}
	return nil
}

func areaDistance(cat *catalog.Catalog, code string, area float64) float64 {
	entry, ok := cat.Lookup(code)
	if !ok || entry.Benchmarks.MedianAreaM2 <= 0 {
		return math.Inf(1)
	}
	return math.Abs(entry.Benchmarks.MedianAreaM2 - area)
}

func unclassifiedIssue(roomID, roomName string) domain.RunIssue {
	return domain.RunIssue{
		RoomID: roomID,
		Stage:  domain.StageClassification,
		Kind:   domain.IssueUnclassifiedRoom,
		Detail: fmt.Sprintf("no confident match for %q", roomName),
	}
}
