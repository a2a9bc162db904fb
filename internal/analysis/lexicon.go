package analysis

// positiveWords and negativeWords are the fixed sentiment lexicons. Scoring
// counts token-level hits inside sentences that mention the brand.
var positiveWords = []string{
	"excellent", "great", "best", "good", "amazing", "outstanding",
	"reliable", "innovative", "leading", "trusted", "popular", "powerful",
	"recommend", "recommended", "praised", "strong", "helpful", "easy",
	"quality", "value", "responsive", "positive", "impressive",
}

var negativeWords = []string{
	"bad", "poor", "worst", "terrible", "unreliable", "expensive",
	"slow", "difficult", "limited", "weak", "complicated", "negative",
	"disappointing", "lacking", "outdated", "buggy", "costly", "steep",
}

// informativeKeywords signal that a response carries substantive product
// detail; the accuracy heuristic rewards their presence proportionally.
var informativeKeywords = []string{
	"features", "pricing", "support", "integration", "security",
	"performance", "documentation", "api", "customers", "reviews",
}

// knownBrands is the fixed roster used for competitor-mention extraction.
// This is deliberately separate from the per-industry identification
// catalog: it only answers "which household names appear in this text".
var knownBrands = []string{
	"Google", "Microsoft", "Amazon", "Apple", "Meta", "OpenAI",
	"Salesforce", "HubSpot", "Adobe", "Oracle", "SAP", "IBM",
	"Shopify", "Slack", "Zoom", "Notion", "Atlassian", "Dropbox",
	"Mailchimp", "Zendesk", "Intercom", "Stripe", "Square", "PayPal",
}

// insightRule tags a brand sentence when any trigger word appears.
type insightRule struct {
	label    string
	triggers []string
}

var insightRules = []insightRule{
	{label: "Comparison", triggers: []string{"compare", "compared", "vs", "versus", "alternative"}},
	{label: "Strength", triggers: []string{"advantage", "benefit", "strength", "stands out"}},
	{label: "Weakness", triggers: []string{"weakness", "limitation", "drawback", "downside"}},
	{label: "Recommendation", triggers: []string{"recommend", "suggest", "advise"}},
}

const maxInsights = 5
