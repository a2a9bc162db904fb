// Package competitor ranks plausible competitors for a brand by merging a
// curated per-industry catalog with keyword similarity across all
// industries.
package competitor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/aeo-monitor/internal/model"
)

const (
	methodCatalog = "catalog"
	methodKeyword = "keyword"

	catalogCap = 8
	keywordCap = 5
	mergedCap  = 10

	defaultCacheTTL = 24 * time.Hour
)

// stopWords are excluded from the keyword set built from brand name and
// description.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "our": true, "that": true,
	"the": true, "their": true, "this": true, "to": true, "we": true,
	"with": true, "your": true,
}

// Identifier runs competitor identification. Randomness is injected so tests
// can pin jitter; results are memoized through the Cache.
type Identifier struct {
	catalog *Catalog
	cache   Cache
	rng     *rand.Rand
	ttl     time.Duration
}

// IdentifierOption configures an Identifier.
type IdentifierOption func(*Identifier)

// WithRand injects a seeded randomness source for jittered scoring.
func WithRand(rng *rand.Rand) IdentifierOption {
	return func(id *Identifier) {
		id.rng = rng
	}
}

// WithCacheTTL overrides the default 24h memoization window.
func WithCacheTTL(ttl time.Duration) IdentifierOption {
	return func(id *Identifier) {
		id.ttl = ttl
	}
}

// NewIdentifier creates an Identifier over a catalog and cache.
func NewIdentifier(catalog *Catalog, cache Cache, opts ...IdentifierOption) *Identifier {
	id := &Identifier{
		catalog: catalog,
		cache:   cache,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		ttl:     defaultCacheTTL,
	}
	for _, o := range opts {
		o(id)
	}
	return id
}

// Identify produces a ranked, deduplicated competitor list for a brand.
// Empty rosters degrade to empty output rather than an error.
func (id *Identifier) Identify(ctx context.Context, brand, domain, industry, description string) (*model.IdentificationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cacheKey(brand, domain, industry)
	if cached, ok := id.cache.Get(key); ok {
		zap.L().Debug("competitor: cache hit", zap.String("brand", brand), zap.String("industry", industry))
		return cached, nil
	}

	catalogHits := id.catalogStrategy(brand, industry)
	keywordHits := id.keywordStrategy(brand, description)

	merged := mergeCandidates(catalogHits, keywordHits)

	var methods []string
	if len(catalogHits) > 0 {
		methods = append(methods, methodCatalog)
	}
	if len(keywordHits) > 0 {
		methods = append(methods, methodKeyword)
	}

	result := &model.IdentificationResult{
		Competitors:       merged,
		TotalFound:        len(merged),
		ConfidenceAverage: confidenceAverage(merged),
		MethodsUsed:       methods,
		MarketAnalysis:    summarizeMarket(merged),
	}

	id.cache.Put(key, result, id.ttl)
	zap.L().Info("competitor: identification complete",
		zap.String("brand", brand),
		zap.String("industry", industry),
		zap.Int("found", result.TotalFound),
		zap.Strings("methods", methods),
	)
	return result, nil
}

func cacheKey(brand, domain, industry string) string {
	return fmt.Sprintf("competitors|%s|%s|%s",
		strings.ToLower(brand), strings.ToLower(domain), strings.ToLower(industry))
}

// catalogStrategy ranks the target industry's roster. Confidence starts at
// 0.7, gains 0.2 for a same-industry roster and a threat-tier bump, then a
// small symmetric jitter, clamped to [0.1, 1.0].
func (id *Identifier) catalogStrategy(brand, industry string) []model.CompetitorCandidate {
	roster := id.catalog.Roster(industry)
	if len(roster) == 0 {
		zap.L().Debug("competitor: no catalog roster for industry", zap.String("industry", industry))
		return nil
	}

	var candidates []model.CompetitorCandidate
	for _, entry := range roster {
		if namesOverlap(entry.Name, brand) {
			continue
		}

		confidence := 0.7 + 0.2
		switch entry.Threat {
		case model.ThreatHigh:
			confidence += 0.1
		case model.ThreatMedium:
			confidence += 0.05
		}
		confidence += (id.rng.Float64() - 0.5) * 0.1
		confidence = clamp(confidence, 0.1, 1.0)

		candidates = append(candidates, model.CompetitorCandidate{
			Name:        entry.Name,
			Domain:      entry.Domain,
			Industry:    industry,
			Description: entry.Strength,
			Confidence:  confidence,
			Method:      methodCatalog,
			Threat:      entry.Threat,
			Metrics:     id.synthesizeMetrics(entry.Score),
		})
	}

	sortByConfidence(candidates)
	if len(candidates) > catalogCap {
		candidates = candidates[:catalogCap]
	}
	return candidates
}

// keywordStrategy scans every industry's roster for entries whose name and
// strength text share keywords with the brand and its description.
func (id *Identifier) keywordStrategy(brand, description string) []model.CompetitorCandidate {
	keywords := extractKeywords(brand + " " + description)
	if len(keywords) == 0 {
		return nil
	}

	industries := id.catalog.Industries()
	sort.Strings(industries)

	var candidates []model.CompetitorCandidate
	for _, industry := range industries {
		for _, entry := range id.catalog.Roster(industry) {
			if namesOverlap(entry.Name, brand) {
				continue
			}

			haystack := strings.ToLower(entry.Name + " " + entry.Strength)
			found := 0
			for _, kw := range keywords {
				if strings.Contains(haystack, kw) {
					found++
				}
			}
			similarity := float64(found) / float64(len(keywords))
			if similarity <= 0.3 {
				continue
			}

			candidates = append(candidates, model.CompetitorCandidate{
				Name:        entry.Name,
				Domain:      entry.Domain,
				Industry:    industry,
				Description: entry.Strength,
				Confidence:  similarity * 0.8,
				Method:      methodKeyword,
				Threat:      threatForSimilarity(similarity),
				Metrics:     id.synthesizeMetrics(entry.Score),
			})
		}
	}

	sortByConfidence(candidates)
	if len(candidates) > keywordCap {
		candidates = candidates[:keywordCap]
	}
	return candidates
}

func threatForSimilarity(similarity float64) model.ThreatTier {
	switch {
	case similarity > 0.7:
		return model.ThreatHigh
	case similarity > 0.5:
		return model.ThreatMedium
	default:
		return model.ThreatLow
	}
}

// synthesizeMetrics jitters the catalog's base score into illustrative
// market metrics.
func (id *Identifier) synthesizeMetrics(baseScore float64) model.CompetitorMetrics {
	score := clamp(baseScore+(id.rng.Float64()-0.5)*6, 0, 100)

	trends := []model.TrendDirection{model.TrendRising, model.TrendStable, model.TrendDeclining}
	return model.CompetitorMetrics{
		Score:        score,
		AvgPosition:  1 + id.rng.Float64()*4,
		ShareOfVoice: clamp(score/5+(id.rng.Float64()-0.5)*4, 0, 100),
		MentionCount: 10 + id.rng.IntN(90),
		Trend:        trends[id.rng.IntN(len(trends))],
		MarketTier:   model.MarketTierForScore(score),
	}
}

// mergeCandidates concatenates catalog results ahead of keyword results,
// dedupes by exact name keeping the first occurrence, re-sorts by
// confidence, and truncates to the merged cap. Keeping the first occurrence
// means the catalog entry wins a name collision even when the keyword entry
// scored higher.
func mergeCandidates(catalogHits, keywordHits []model.CompetitorCandidate) []model.CompetitorCandidate {
	seen := make(map[string]bool, len(catalogHits)+len(keywordHits))
	var merged []model.CompetitorCandidate
	for _, c := range append(append([]model.CompetitorCandidate{}, catalogHits...), keywordHits...) {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		merged = append(merged, c)
	}

	sortByConfidence(merged)
	if len(merged) > mergedCap {
		merged = merged[:mergedCap]
	}
	return merged
}

func confidenceAverage(candidates []model.CompetitorCandidate) float64 {
	if len(candidates) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range candidates {
		total += c.Confidence
	}
	return total / float64(len(candidates))
}

// summarizeMarket derives the aggregate market picture from the merged list.
func summarizeMarket(candidates []model.CompetitorCandidate) model.MarketAnalysis {
	highThreat := 0
	for _, c := range candidates {
		if c.Threat == model.ThreatHigh {
			highThreat++
		}
	}

	marketSize := "emerging"
	switch {
	case len(candidates) >= 8:
		marketSize = "large"
	case len(candidates) >= 4:
		marketSize = "medium"
	case len(candidates) >= 1:
		marketSize = "small"
	}

	competitionLevel := "low"
	switch {
	case highThreat >= 3:
		competitionLevel = "intense"
	case highThreat >= 1:
		competitionLevel = "moderate"
	}

	return model.MarketAnalysis{
		MarketSize:       marketSize,
		CompetitionLevel: competitionLevel,
		Trends: []string{
			"AI answer engines are becoming a primary brand discovery channel",
			"Buyers increasingly compare vendors through conversational search",
			"Share of voice in generated answers is diverging from web rankings",
		},
	}
}

// namesOverlap reports whether either name contains the other,
// case-insensitively. It keeps the target brand out of its own competitor
// list.
func namesOverlap(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// extractKeywords tokenizes text into lower-cased, stop-word-filtered,
// deduplicated keywords, preserving first-seen order.
func extractKeywords(text string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(tok, ".,!?;:()'\"")
		if len(word) < 3 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	return keywords
}

func sortByConfidence(candidates []model.CompetitorCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
