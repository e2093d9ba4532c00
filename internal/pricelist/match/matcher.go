package match

import (
	"strings"

	"pricelist-service/internal/pricelist/model"
	"pricelist-service/internal/pricelist/textutil"
)

const (
	// DefaultThreshold accepts a first-pass match at or above this score.
	DefaultThreshold = 80
	// DefaultRelaxedDelta lowers the threshold for the second, relaxed pass.
	DefaultRelaxedDelta = 10

	anchorPenalty      = 0.9
	containmentScore   = 90
	containmentMinDice = 60
)

// Scorer blends the similarity metrics. EditSim is an optional capability:
// leave it nil and the metric contributes 0 instead of failing.
type Scorer struct {
	EditSim func(a, b string) float64
}

// NewScorer returns a Scorer with the Damerau-Levenshtein edit metric wired.
func NewScorer() Scorer { return Scorer{EditSim: EditSimilarity} }

// candidate caches the per-item derived forms so a batch of N queries against
// M candidates computes them once per candidate, not N times.
type candidate struct {
	item     *model.CatalogItem
	norm     string
	folded   map[string]struct{} // all folded tokens, for the anchor check
	content  map[string]struct{} // stopwords removed, for the Dice metric
	trigrams map[string]struct{}
}

// Pool is one customer's catalog prepared for repeated matching. Blocking
// happens before the Pool is built: the caller supplies only that customer's
// rows.
type Pool struct {
	scorer Scorer
	cands  []candidate
}

// NewPool derives the comparison forms of every candidate item. The item
// Name field is the match target.
func NewPool(items []model.CatalogItem, scorer Scorer) *Pool {
	p := &Pool{scorer: scorer, cands: make([]candidate, len(items))}
	for i := range items {
		tokens := foldTokens(items[i].Name)
		norm := textutil.Normalize(items[i].Name)
		p.cands[i] = candidate{
			item:     &items[i],
			norm:     norm,
			folded:   toSet(tokens),
			content:  contentSet(tokens),
			trigrams: trigramSet(norm),
		}
	}
	return p
}

type query struct {
	norm     string
	folded   map[string]struct{}
	content  map[string]struct{}
	trigrams map[string]struct{}
}

func (p *Pool) score(q query, c candidate, relaxed bool) float64 {
	s := ratioScore(q.norm, c.norm)
	if d := diceScore(q.content, c.content); d > s {
		s = d
	}
	if j := jaccardScore(q.trigrams, c.trigrams); j > s {
		s = j
	}
	if p.scorer.EditSim != nil {
		if e := p.scorer.EditSim(q.norm, c.norm); e > s {
			s = e
		}
	}

	if relaxed {
		// containment boost: one name embedded in the other with real token
		// overlap is almost always the same product
		if q.norm != "" && c.norm != "" &&
			(strings.Contains(c.norm, q.norm) || strings.Contains(q.norm, c.norm)) &&
			diceScore(q.content, c.content) >= containmentMinDice &&
			s < containmentScore {
			s = containmentScore
		}
		return s
	}

	// anchored pass: zero shared tokens means the string similarity is
	// probably coincidental, dampen it
	if intersectionSize(q.folded, c.folded) == 0 {
		s *= anchorPenalty
	}
	return s
}

// BestMatch scores every candidate against the query and returns the single
// best one with its score. Ties resolve to the first candidate in pool order.
// A nil item means the pool is empty.
func (p *Pool) BestMatch(alias string, relaxed bool) (*model.CatalogItem, float64) {
	tokens := foldTokens(alias)
	q := query{
		norm:     textutil.Normalize(alias),
		folded:   toSet(tokens),
		content:  contentSet(tokens),
		trigrams: trigramSet(textutil.Normalize(alias)),
	}
	var best *model.CatalogItem
	bestScore := -1.0
	for i := range p.cands {
		if s := p.score(q, p.cands[i], relaxed); s > bestScore {
			bestScore = s
			best = p.cands[i].item
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestScore
}

// Result is the outcome of resolving one alias against a pool.
type Result struct {
	Item  *model.CatalogItem
	Score float64
	Pass  int // 1 anchored, 2 relaxed; 0 when unmatched
}

// Matcher applies the two-pass acceptance policy: pass 1 with the anchor
// penalty against Threshold, then a relaxed pass with the containment boost
// against Threshold-RelaxedDelta. Below both, the alias stays unmatched and
// only the best score is reported.
type Matcher struct {
	Threshold    float64
	RelaxedDelta float64
	Scorer       Scorer
}

// NewMatcher builds a Matcher with the given primary threshold (0 means
// DefaultThreshold) and the default relaxed delta.
func NewMatcher(threshold, relaxedDelta float64) Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if relaxedDelta <= 0 {
		relaxedDelta = DefaultRelaxedDelta
	}
	return Matcher{Threshold: threshold, RelaxedDelta: relaxedDelta, Scorer: NewScorer()}
}

// Resolve matches one alias against the pool.
func (m Matcher) Resolve(alias string, pool *Pool) Result {
	item, score := pool.BestMatch(alias, false)
	if item != nil && score >= m.Threshold {
		return Result{Item: item, Score: score, Pass: 1}
	}
	item, score = pool.BestMatch(alias, true)
	if item != nil && score >= m.Threshold-m.RelaxedDelta {
		return Result{Item: item, Score: score, Pass: 2}
	}
	return Result{Score: score}
}
