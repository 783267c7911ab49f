package classifier

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/service/catalog"
)

type rankerFunc func(ctx context.Context, roomName string, candidates []domain.Candidate) ([]domain.Candidate, error)

func (f rankerFunc) Rank(ctx context.Context, roomName string, candidates []domain.Candidate) ([]domain.Candidate, error) {
	return f(ctx, roomName, candidates)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.Load("v1", []domain.CanonicalRoomType{
		{
			Code:        "BUERO",
			DisplayName: "Büro",
			Synonyms:    []string{"Office"},
			Benchmarks:  domain.Benchmarks{HeatingWPerM2: 45, CoolingWPerM2: 35, VentilationRate: 4, VentilationUnit: domain.UnitPerM2, MedianAreaM2: 25},
		},
		{
			Code:        "LAGER",
			DisplayName: "Lager",
			Synonyms:    []string{"Lagerraum"},
			Benchmarks:  domain.Benchmarks{HeatingWPerM2: 20, CoolingWPerM2: 0, VentilationRate: 1, VentilationUnit: domain.UnitPerM2, MedianAreaM2: 100},
		},
		{
			Code:        "TEAM",
			DisplayName: "Teamraum",
			Benchmarks:  domain.Benchmarks{HeatingWPerM2: 50, CoolingWPerM2: 45, VentilationRate: 6, VentilationUnit: domain.UnitPerM2, MedianAreaM2: 25},
		},
		{
			Code:        "WC",
			DisplayName: "WC",
			Synonyms:    []string{"Toilette"},
			Benchmarks:  domain.Benchmarks{HeatingWPerM2: 24, CoolingWPerM2: 0, VentilationRate: 8, VentilationUnit: domain.UnitPerM2, MedianAreaM2: 5},
		},
	})
	require.NoError(t, err)

	return cat
}

func testConfig() Config {
	return Config{
		LexicalThreshold:    0.60,
		SemanticThreshold:   0.75,
		TopK:                25,
		Workers:             4,
		FallbackConcurrency: 2,
		FallbackTimeout:     time.Second,
	}
}

func f64(v float64) *float64 {
	return &v
}

func classifyOne(t *testing.T, c *Classifier, cat *catalog.Catalog, room domain.RoomRecord) (domain.ClassificationResult, []domain.RunIssue) {
	t.Helper()

	results, issues, err := c.Classify(context.Background(), []domain.RoomRecord{room}, cat)
	require.NoError(t, err)
	require.Len(t, results, 1)

	return results[0], issues
}

func TestClassifyExactSynonym(t *testing.T) {
	c := New(testConfig(), nil)

	res, issues := classifyOne(t, c, testCatalog(t), domain.RoomRecord{ID: "r1", Name: "Office"})

	assert.Empty(t, issues)
	assert.Equal(t, "BUERO", res.TypeCode)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, domain.MethodLexical, res.Method)
}

func TestClassifyLabelWithRoomNumber(t *testing.T) {
	c := New(testConfig(), nil)

	res, issues := classifyOne(t, c, testCatalog(t), domain.RoomRecord{ID: "r1", Name: "Büro 1.01", AreaM2: f64(20)})

	assert.Empty(t, issues)
	assert.Equal(t, "BUERO", res.TypeCode)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, domain.MethodLexical, res.Method)
}

func TestClassifyTieBreaksOnMedianArea(t *testing.T) {
	c := New(testConfig(), nil)

	// "raum" is contained in both "lagerraum" and "teamraum"; the room's
	// 20 m² sits next to TEAM's median of 25, far from LAGER's 100
	res, issues := classifyOne(t, c, testCatalog(t), domain.RoomRecord{ID: "r1", Name: "Raum", AreaM2: f64(20)})

	assert.Empty(t, issues)
	assert.Equal(t, "TEAM", res.TypeCode)
	assert.InDelta(t, 0.98, res.Confidence, 1e-9)
}

func TestClassifyMalformedName(t *testing.T) {
	c := New(testConfig(), nil)

	res, issues := classifyOne(t, c, testCatalog(t), domain.RoomRecord{ID: "r1", Name: "###"})

	assert.True(t, res.Unclassified())
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueMalformedRoomRecord, issues[0].Kind)
	assert.Equal(t, "r1", issues[0].RoomID)
}

func TestClassifyNoMatchWithoutRanker(t *testing.T) {
	c := New(testConfig(), nil)

	res, issues := classifyOne(t, c, testCatalog(t), domain.RoomRecord{ID: "r1", Name: "Zzzz"})

	assert.True(t, res.Unclassified())
	assert.Zero(t, res.Confidence)
	assert.Equal(t, domain.MethodUnclassified, res.Method)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueUnclassifiedRoom, issues[0].Kind)
}

func TestClassifySemanticFallbackAccepted(t *testing.T) {
	ranker := rankerFunc(func(_ context.Context, _ string, _ []domain.Candidate) ([]domain.Candidate, error) {
		return []domain.Candidate{{TypeCode: "BUERO", DisplayName: "Büro", Score: 0.9}}, nil
	})
	c := New(testConfig(), ranker)

	res, issues := classifyOne(t, c, testCatalog(t), domain.RoomRecord{ID: "r1", Name: "Arbeitszimmer Ost"})

	assert.Empty(t, issues)
	assert.Equal(t, "BUERO", res.TypeCode)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
	assert.Equal(t, domain.MethodSemantic, res.Method)
}

func TestClassifySemanticBelowThreshold(t *testing.T) {
	ranker := rankerFunc(func(_ context.Context, _ string, _ []domain.Candidate) ([]domain.Candidate, error) {
		return []domain.Candidate{{TypeCode: "BUERO", Score: 0.5}}, nil
	})
	c := New(testConfig(), ranker)

	res, issues := classifyOne(t, c, testCatalog(t), domain.RoomRecord{ID: "r1", Name: "Arbeitszimmer Ost"})

	assert.True(t, res.Unclassified())
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueUnclassifiedRoom, issues[0].Kind)
}

func TestClassifySemanticSkipsUnknownCodes(t *testing.T) {
	ranker := rankerFunc(func(_ context.Context, _ string, _ []domain.Candidate) ([]domain.Candidate, error) {
		return []domain.Candidate{
			{TypeCode: "NOT_IN_CATALOG", Score: 0.99},
			{TypeCode: "BUERO", Score: 0.8},
		}, nil
	})
	c := New(testConfig(), ranker)

	res, issues := classifyOne(t, c, testCatalog(t), domain.RoomRecord{ID: "r1", Name: "Arbeitszimmer Ost"})

	assert.Empty(t, issues)
	assert.Equal(t, "BUERO", res.TypeCode)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
}

func TestClassifyFallbackErrorDegrades(t *testing.T) {
	ranker := rankerFunc(func(_ context.Context, _ string, _ []domain.Candidate) ([]domain.Candidate, error) {
		return nil, errors.New("ranker unavailable")
	})
	c := New(testConfig(), ranker)

	// lexically ambiguous label: best lexical candidate is BUERO at 0.25
	res, issues := classifyOne(t, c, testCatalog(t), domain.RoomRecord{ID: "r1", Name: "Büro Besprechung Archiv Lager Ost"})

	assert.Equal(t, "BUERO", res.TypeCode)
	assert.InDelta(t, 0.125, res.Confidence, 1e-9)
	assert.Equal(t, domain.MethodDegraded, res.Method)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueClassifierError, issues[0].Kind)
}

func TestClassifyFallbackTimeoutDegrades(t *testing.T) {
	ranker := rankerFunc(func(ctx context.Context, _ string, _ []domain.Candidate) ([]domain.Candidate, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	cfg := testConfig()
	cfg.FallbackTimeout = 20 * time.Millisecond
	c := New(cfg, ranker)

	res, issues := classifyOne(t, c, testCatalog(t), domain.RoomRecord{ID: "r1", Name: "Büro Besprechung Archiv Lager Ost"})

	assert.Equal(t, domain.MethodDegraded, res.Method)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueClassifierTimeout, issues[0].Kind)
}

func TestClassifyRepeatedLabelsResolveOnce(t *testing.T) {
	var calls atomic.Int64
	ranker := rankerFunc(func(_ context.Context, _ string, _ []domain.Candidate) ([]domain.Candidate, error) {
		calls.Add(1)
		return []domain.Candidate{{TypeCode: "BUERO", Score: 0.9}}, nil
	})

	cfg := testConfig()
	cfg.Workers = 1
	c := New(cfg, ranker)

	rooms := []domain.RoomRecord{
		{ID: "r1", Name: "Arbeitszimmer"},
		{ID: "r2", Name: "Arbeitszimmer"},
	}

	results, issues, err := c.Classify(context.Background(), rooms, testCatalog(t))
	require.NoError(t, err)
	assert.Empty(t, issues)

	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, results[0].TypeCode, results[1].TypeCode)
	assert.Equal(t, results[0].Confidence, results[1].Confidence)
}

func TestClassifyDeterministic(t *testing.T) {
	cat := testCatalog(t)
	rooms := []domain.RoomRecord{
		{ID: "r1", Name: "Büro 1.01", AreaM2: f64(20)},
		{ID: "r2", Name: "Lagerraum 2", AreaM2: f64(80)},
		{ID: "r3", Name: "Toilette"},
		{ID: "r4", Name: "Zzzz"},
		{ID: "r5", Name: "Raum", AreaM2: f64(20)},
	}

	first, firstIssues, err := New(testConfig(), nil).Classify(context.Background(), rooms, cat)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, againIssues, err := New(testConfig(), nil).Classify(context.Background(), rooms, cat)
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Equal(t, firstIssues, againIssues)
	}
}

func TestClassifyMixedBatch(t *testing.T) {
	c := New(testConfig(), nil)

	rooms := []domain.RoomRecord{
		{ID: "r1", Name: "Büro 1.01", AreaM2: f64(20)},
		{ID: "r2", Name: "Office"},
		{ID: "r3", Name: "Zzzz"},
		{ID: "r4", Name: "Lagerraum 2", AreaM2: f64(80)},
		{ID: "r5", Name: "Qqqq"},
	}

	results, issues, err := c.Classify(context.Background(), rooms, testCatalog(t))
	require.NoError(t, err)
	require.Len(t, results, len(rooms))

	classified := 0
	for _, res := range results {
		if !res.Unclassified() {
			classified++
		}
	}
	assert.Equal(t, 3, classified)

	// results keep input order, issues are sorted by room id
	assert.Equal(t, "r1", results[0].RoomID)
	assert.Equal(t, "r5", results[4].RoomID)
	require.Len(t, issues, 2)
	assert.Equal(t, "r3", issues[0].RoomID)
	assert.Equal(t, "r5", issues[1].RoomID)
}

func TestClassifyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(testConfig(), nil)
	_, _, err := c.Classify(ctx, []domain.RoomRecord{{ID: "r1", Name: "Office"}}, testCatalog(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
