package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelist-service/internal/pricelist/model"
)

func items(names ...string) []model.CatalogItem {
	out := make([]model.CatalogItem, len(names))
	for i, n := range names {
		out[i] = model.CatalogItem{SKU: n, Name: n, Unit: "piece", Price: 1}
	}
	return out
}

func TestSynonymFoldingAcrossLanguages(t *testing.T) {
	pool := NewPool(items("Comté Wheel 2kg", "Gruyère Block 1kg"), NewScorer())
	item, score := pool.BestMatch("Comté Laib 2kg", false)
	require.NotNil(t, item)
	assert.Equal(t, "Comté Wheel 2kg", item.Name)
	assert.GreaterOrEqual(t, score, 80.0)
}

func TestAnchorPenaltyOnDisjointTokens(t *testing.T) {
	pool := NewPool(items("abd"), NewScorer())
	_, anchored := pool.BestMatch("abc", false)
	_, relaxed := pool.BestMatch("abc", true)
	assert.InDelta(t, relaxed*0.9, anchored, 1e-9)
	assert.Less(t, anchored, relaxed)
}

func TestTwoPassAcceptsContainment(t *testing.T) {
	m := NewMatcher(80, 10)
	pool := NewPool(items("Gouda jung 1000 g Block", "Comté Laib 2kg"), m.Scorer)

	res := m.Resolve("Gouda jung", pool)
	require.NotNil(t, res.Item)
	assert.Equal(t, 2, res.Pass)
	assert.GreaterOrEqual(t, res.Score, 90.0)
	assert.Equal(t, "Gouda jung 1000 g Block", res.Item.Name)
}

func TestResolveFirstPass(t *testing.T) {
	m := NewMatcher(80, 10)
	pool := NewPool(items("Comté Laib 2kg"), m.Scorer)
	res := m.Resolve("Comté Wheel 2kg", pool)
	require.NotNil(t, res.Item)
	assert.Equal(t, 1, res.Pass)
	assert.GreaterOrEqual(t, res.Score, 80.0)
}

func TestResolveUnmatched(t *testing.T) {
	m := NewMatcher(80, 10)
	pool := NewPool(items("Gouda jung 1000 g Block", "Comté Laib 2kg"), m.Scorer)
	res := m.Resolve("Ziegenfrischkäse Rolle", pool)
	assert.Nil(t, res.Item)
	assert.Equal(t, 0, res.Pass)
	assert.Less(t, res.Score, 70.0)
}

func TestTieBreaksToFirstCandidate(t *testing.T) {
	pool := NewPool(items("Gouda jung", "Gouda jung"), NewScorer())
	item, score := pool.BestMatch("Gouda jung", false)
	require.NotNil(t, item)
	assert.InDelta(t, 100, score, 1e-9)
	assert.Same(t, pool.cands[0].item, item)
}

func TestEditMetricIsOptionalCapability(t *testing.T) {
	// no shared characters: every always-on metric scores 0
	withEdit := NewPool(items("qqq"), Scorer{EditSim: func(a, b string) float64 { return 100 }})
	without := NewPool(items("qqq"), Scorer{})

	_, s := withEdit.BestMatch("xyz", false)
	assert.InDelta(t, 90, s, 1e-9) // 100 dampened by the anchor penalty
	_, s = without.BestMatch("xyz", false)
	assert.Zero(t, s)
}

func TestMetrics(t *testing.T) {
	assert.InDelta(t, 100, ratioScore("gouda", "gouda"), 1e-9)
	assert.Zero(t, ratioScore("", "gouda"))

	a := toSet([]string{"comte", "wheel"})
	b := toSet([]string{"comte", "wheel", "aged"})
	assert.InDelta(t, 80, diceScore(a, b), 1e-9)
	assert.Zero(t, diceScore(nil, b))

	assert.Equal(t, map[string]struct{}{"ab": {}}, trigramSet("a b"))
	g := trigramSet("gouda")
	assert.Len(t, g, 3) // gou, oud, uda
	assert.InDelta(t, 100, jaccardScore(g, trigramSet("gouda")), 1e-9)
	assert.Zero(t, jaccardScore(g, trigramSet("")))

	assert.Equal(t, 1, damerauLevenshtein("comte", "comet")) // transposition
	assert.InDelta(t, 80, EditSimilarity("comte", "comet"), 1e-9)
	assert.InDelta(t, 100, EditSimilarity("", ""), 1e-9)
	assert.Zero(t, EditSimilarity("a", ""))
}
