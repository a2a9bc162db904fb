// Package analysis extracts brand signals from unstructured answer text.
// Everything here is a pure function of its inputs: deterministic lexical
// heuristics, no I/O and no model calls.
package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/aeo-monitor/internal/model"
)

const contextWindow = 5

// foldTransform strips combining marks after NFD decomposition, so "Côte"
// and "Cote" compare equal.
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lower-cases and removes diacritics for matching.
func fold(s string) string {
	out, _, err := transform.String(foldTransform, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Analyze derives a BrandAnalysis from one answer. A panic anywhere in the
// heuristics yields a zeroed analysis instead of failing the collection
// pair.
func Analyze(text, brand, query string) (result model.BrandAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("analysis: recovered from panic, returning empty analysis",
				zap.Any("panic", r),
				zap.String("brand", brand),
			)
			result = model.BrandAnalysis{}
		}
	}()

	mentions := extractMentions(text, brand)
	result = model.BrandAnalysis{
		Mentions:       mentions,
		MentionCount:   len(mentions),
		BrandPosition:  brandPosition(text, brand),
		SentimentScore: sentimentScore(text, brand),
		AccuracyScore:  accuracyScore(text, brand),
		Competitors:    competitorMentions(text, brand),
		Insights:       extractInsights(text, brand),
	}
	return result
}

// extractMentions finds every whitespace token containing the brand name and
// captures a five-token window on each side as context.
func extractMentions(text, brand string) []model.BrandMention {
	if text == "" || brand == "" {
		return nil
	}
	tokens := strings.Fields(text)
	foldedBrand := fold(brand)

	var mentions []model.BrandMention
	for i, tok := range tokens {
		if !strings.Contains(fold(tok), foldedBrand) {
			continue
		}
		lo := max(0, i-contextWindow)
		hi := min(len(tokens), i+contextWindow+1)
		context := strings.Join(tokens[lo:hi], " ")

		sentiment, hits := contextSentiment(context)
		mentions = append(mentions, model.BrandMention{
			Brand:      brand,
			Context:    context,
			Position:   i + 1,
			Sentiment:  sentiment,
			Confidence: mentionConfidence(hits),
		})
	}
	return mentions
}

// contextSentiment classifies a context window by lexicon hits and returns
// the net hit count alongside.
func contextSentiment(context string) (model.MentionSentiment, int) {
	score := lexiconScore(context)
	switch {
	case score > 0:
		return model.SentimentPositive, score
	case score < 0:
		return model.SentimentNegative, -score
	default:
		return model.SentimentNeutral, 0
	}
}

// mentionConfidence grows with the strength of the lexical signal but never
// claims certainty.
func mentionConfidence(hits int) float64 {
	conf := 0.6 + 0.1*float64(hits)
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}

// lexiconScore counts +1 per positive-lexicon token and -1 per
// negative-lexicon token in s.
func lexiconScore(s string) int {
	score := 0
	for _, tok := range strings.Fields(fold(s)) {
		word := strings.Trim(tok, ".,!?;:()'\"")
		for _, p := range positiveWords {
			if word == p {
				score++
			}
		}
		for _, n := range negativeWords {
			if word == n {
				score--
			}
		}
	}
	return score
}

// splitSentences breaks text into sentence-like units on '.', '!' and '?'.
func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var sentences []string
	for _, s := range raw {
		if t := strings.TrimSpace(s); t != "" {
			sentences = append(sentences, t)
		}
	}
	return sentences
}

// brandPosition returns the 1-based index of the first sentence containing
// the brand, or nil when the brand never appears. Early placement is the
// salience signal competitive reports rank on.
func brandPosition(text, brand string) *int {
	if text == "" || brand == "" {
		return nil
	}
	foldedBrand := fold(brand)
	for i, s := range splitSentences(text) {
		if strings.Contains(fold(s), foldedBrand) {
			pos := i + 1
			return &pos
		}
	}
	return nil
}

// sentimentScore averages lexicon scores across sentences that mention the
// brand, scaled by 1/3 and clamped to [-1, 1]. No qualifying sentences
// yields a neutral 0.
func sentimentScore(text, brand string) float64 {
	if text == "" || brand == "" {
		return 0
	}
	foldedBrand := fold(brand)

	total := 0
	qualifying := 0
	for _, s := range splitSentences(text) {
		if !strings.Contains(fold(s), foldedBrand) {
			continue
		}
		qualifying++
		total += lexiconScore(s)
	}
	if qualifying == 0 {
		return 0
	}

	score := float64(total) / float64(qualifying) / 3.0
	return clamp(score, -1, 1)
}

// accuracyScore is a confidence proxy: a base of 0.5, bumped when the brand
// actually appears, when the answer has a plausible length, and in
// proportion to how many informative keywords it touches. Clamped to [0, 1].
func accuracyScore(text, brand string) float64 {
	score := 0.5

	foldedText := fold(text)
	if brand != "" && strings.Contains(foldedText, fold(brand)) {
		score += 0.3
	}
	if len(text) > 50 && len(text) < 1000 {
		score += 0.1
	}

	found := 0
	for _, kw := range informativeKeywords {
		if strings.Contains(foldedText, kw) {
			found++
		}
	}
	score += 0.1 * float64(found) / float64(len(informativeKeywords))

	return clamp(score, 0, 1)
}

// competitorMentions returns the subset of the fixed well-known-brand roster
// that appears in the text, excluding the target brand itself.
func competitorMentions(text, brand string) []string {
	if text == "" {
		return nil
	}
	foldedText := fold(text)
	foldedBrand := fold(brand)

	var found []string
	for _, name := range knownBrands {
		foldedName := fold(name)
		if foldedName == foldedBrand {
			continue
		}
		if strings.Contains(foldedText, foldedName) {
			found = append(found, name)
		}
	}
	return found
}

// extractInsights tags brand sentences with their competitive flavor, first
// found first kept, capped at five.
func extractInsights(text, brand string) []string {
	if text == "" || brand == "" {
		return nil
	}
	foldedBrand := fold(brand)

	var insights []string
	for _, s := range splitSentences(text) {
		folded := fold(s)
		if !strings.Contains(folded, foldedBrand) {
			continue
		}
		for _, rule := range insightRules {
			if len(insights) >= maxInsights {
				return insights
			}
			for _, trigger := range rule.triggers {
				if containsWordOrPhrase(folded, trigger) {
					insights = append(insights, fmt.Sprintf("%s: %s", rule.label, s))
					break
				}
			}
		}
	}
	return insights
}

// containsWordOrPhrase matches multi-word triggers as substrings and single
// words on token boundaries, so "vs" does not fire inside "versions".
func containsWordOrPhrase(folded, trigger string) bool {
	if strings.Contains(trigger, " ") {
		return strings.Contains(folded, trigger)
	}
	for _, tok := range strings.Fields(folded) {
		if strings.Trim(tok, ".,!?;:()'\"") == trigger {
			return true
		}
	}
	return false
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
