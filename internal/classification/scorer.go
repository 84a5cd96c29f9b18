package classification

import (
	"math"
	"sort"

	"adlaan-backend/internal/models"
)

// OverrideThreshold is the score a computed category must exceed to replace a
// document's recorded category that is not OTHER.
const OverrideThreshold = 0.7

// TopN is the number of ranked categories reported with a result.
const TopN = 3

// CategoryScore is one category's score and the reasons that produced it.
type CategoryScore struct {
	Type    models.DocumentType `json:"type"`
	Score   float64             `json:"score"`
	Reasons []string            `json:"reasons"`
}

// Result is the outcome of one classification run. Category is the
// document's category after the override policy and Confidence its rounded
// score; Suggested is the top-ranked category whether or not it was applied.
type Result struct {
	Category   models.DocumentType `json:"category"`
	Confidence float64             `json:"confidence"`
	Suggested  models.DocumentType `json:"suggested"`
	Overridden bool                `json:"overridden"`
	Previous   models.DocumentType `json:"previous"`
	Top        []CategoryScore     `json:"top"`
	Tags       []string            `json:"tags"`

	ranking []CategoryScore
}

// Ranking returns every category at full precision, best first.
func (r Result) Ranking() []CategoryScore {
	return r.ranking
}

// Scorer ranks categories with a rule table.
type Scorer struct {
	rules []Rule
}

// NewScorer returns a Scorer over the default Rules.
func NewScorer() *Scorer {
	return &Scorer{rules: Rules}
}

// NewScorerWithRules returns a Scorer over a custom table. The slice order is
// the tie-break order.
func NewScorerWithRules(rules []Rule) *Scorer {
	return &Scorer{rules: rules}
}

// Score computes one rule against f. Reasons follow factor declaration order.
func Score(rule Rule, f Features) CategoryScore {
	cs := CategoryScore{Type: rule.Type, Score: rule.Baseline, Reasons: []string{}}
	for _, factor := range rule.Factors {
		if factor.Weight > 0 && factor.Applies(f) {
			cs.Score += factor.Weight
			cs.Reasons = append(cs.Reasons, factor.Reason)
		}
	}
	cs.Score = math.Min(1, math.Max(0, cs.Score))
	return cs
}

// Rank scores every category and sorts best first. The sort is stable, so
// equal scores keep rule declaration order.
func (s *Scorer) Rank(f Features) []CategoryScore {
	ranking := make([]CategoryScore, 0, len(s.rules))
	for _, rule := range s.rules {
		ranking = append(ranking, Score(rule, f))
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	return ranking
}

// Classify ranks f and applies the override policy against existing.
func (s *Scorer) Classify(f Features, existing models.DocumentType) Result {
	ranking := s.Rank(f)
	top := ranking[0]

	category, overridden := ApplyOverride(top, existing)
	confidence := top.Score
	if !overridden {
		confidence = scoreOf(ranking, category)
	}

	n := TopN
	if len(ranking) < n {
		n = len(ranking)
	}
	reported := make([]CategoryScore, n)
	for i := 0; i < n; i++ {
		reported[i] = CategoryScore{
			Type:    ranking[i].Type,
			Score:   Round(ranking[i].Score),
			Reasons: ranking[i].Reasons,
		}
	}

	return Result{
		Category:   category,
		Confidence: Round(confidence),
		Suggested:  top.Type,
		Overridden: overridden,
		Previous:   existing,
		Top:        reported,
		Tags:       DeriveTags(f, category),
		ranking:    ranking,
	}
}

// ClassifyText extracts features and classifies in one call.
func (s *Scorer) ClassifyText(title, body string, existing models.DocumentType) Result {
	return s.Classify(Extract(title, body), existing)
}

// ApplyOverride decides the category a document ends up with. The computed
// top category wins when its score exceeds OverrideThreshold or when the
// recorded category is OTHER (an empty or unknown category counts as OTHER).
func ApplyOverride(top CategoryScore, existing models.DocumentType) (models.DocumentType, bool) {
	if !existing.Valid() {
		existing = models.DocumentTypeOther
	}
	if top.Score > OverrideThreshold || existing == models.DocumentTypeOther {
		return top.Type, true
	}
	return existing, false
}

// Round rounds a score to 4 decimal places for reporting.
func Round(score float64) float64 {
	return math.Round(score*1e4) / 1e4
}

func scoreOf(ranking []CategoryScore, t models.DocumentType) float64 {
	for _, cs := range ranking {
		if cs.Type == t {
			return cs.Score
		}
	}
	return 0
}
