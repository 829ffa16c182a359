// internal/news/enrich.go
package news

import (
	"context"
	"regexp"
	"strings"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/agents"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

const (
	sentimentSystemPrompt = "Classify the sentiment of this pharmaceutical news article as positive, negative, or neutral from a business perspective. Respond with only one word."
	sentimentTextLimit    = 500
	sentimentMaxTokens    = 10
)

var (
	brandsPattern    = regexp.MustCompile(`(?i)\b(Eliquis|Xarelto|Pradaxa|Paxlovid|Lagevrio|apixaban|rivaroxaban|dabigatran|nirmatrelvir)\b`)
	companiesPattern = regexp.MustCompile(`(?i)\b(Pfizer|Bristol Myers Squibb|Johnson & Johnson|Bayer|Merck|Boehringer Ingelheim|BMS|J&J)\b`)
	topicsPattern    = regexp.MustCompile(`(?i)\b(pricing|price|approval|FDA|clinical trial|study|generic|patent|market share|revenue|sales|tariff|Medicare)\b`)
	domainPattern    = regexp.MustCompile(`https?://(?:www\.)?([^/]+)`)
)

// Entities are the closed-vocabulary terms found in an article.
type Entities struct {
	MentionedBrands    []string `json:"mentionedBrands"`
	MentionedCompanies []string `json:"mentionedCompanies"`
	Topics             []string `json:"topics"`
}

// ExtractEntities matches brand, company and topic terms. Matches are deduplicated
// case-insensitively in order of first appearance; topics are lowercased.
func ExtractEntities(text string) Entities {
	topics := uniqueMatches(topicsPattern, text)
	for i, t := range topics {
		topics[i] = strings.ToLower(t)
	}
	return Entities{
		MentionedBrands:    uniqueMatches(brandsPattern, text),
		MentionedCompanies: uniqueMatches(companiesPattern, text),
		Topics:             topics,
	}
}

func uniqueMatches(re *regexp.Regexp, text string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, m := range re.FindAllString(text, -1) {
		key := strings.ToLower(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// ExtractSource names the publication behind a URL, falling back to its host.
func ExtractSource(url string) string {
	switch {
	case strings.Contains(url, "fiercepharma"):
		return "FiercePharma"
	case strings.Contains(url, "biopharma-reporter"):
		return "BioPharma Reporter"
	case strings.Contains(url, "biopharma"):
		return "BioPharma Dive"
	case strings.Contains(url, "endpts"), strings.Contains(url, "endpoints"):
		return "Endpoints News"
	case strings.Contains(url, "reuters"):
		return "Reuters"
	case strings.Contains(url, "politico"):
		return "Politico"
	}
	if m := domainPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return "Unknown"
}

// Priority maps a relevance tier onto the priority shown to users.
func Priority(t models.ArticleType) string {
	switch t {
	case models.ArticleBrandSpecific, models.ArticleCompetitor:
		return models.PriorityHigh
	case models.ArticleMarketWide:
		return models.PriorityLow
	default:
		return models.PriorityMedium
	}
}

// TherapeuticAreas returns [area] when the article text mentions it.
func TherapeuticAreas(content, area string) []string {
	if area != "" && strings.Contains(strings.ToLower(content), strings.ToLower(area)) {
		return []string{area}
	}
	return []string{}
}

// ClassifySentiment asks the provider for a one-word label. Anything other than a clean
// positive/negative/neutral answer, including provider failures, is neutral.
func ClassifySentiment(ctx context.Context, provider agents.Provider, text string) string {
	if provider == nil || !provider.Available() {
		return models.SentimentNeutral
	}

	out, err := provider.Complete(ctx, agents.CompletionRequest{
		Agent:        "sentiment",
		SystemPrompt: sentimentSystemPrompt,
		UserPrompt:   "Title and content: " + agents.Truncate(text, sentimentTextLimit),
		Temperature:  0,
		MaxTokens:    sentimentMaxTokens,
	})
	if err != nil {
		return models.SentimentNeutral
	}

	switch s := strings.ToLower(strings.TrimSpace(out)); s {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
		return s
	}
	return models.SentimentNeutral
}

// ToNewsItems converts enriched articles into analyzer prompt input.
func ToNewsItems(articles []models.NewsArticle) []agents.NewsItem {
	items := make([]agents.NewsItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, agents.NewsItem{
			Title:           a.Title,
			Content:         a.Content,
			URL:             a.URL,
			Source:          a.Source,
			PublishedAt:     a.PublishedAt,
			Sentiment:       a.Sentiment,
			Priority:        Priority(a.ArticleType),
			RelevanceReason: string(a.ArticleType),
		})
	}
	return items
}
