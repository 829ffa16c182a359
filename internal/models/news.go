// internal/models/news.go
package models

import "time"

// ArticleType is the relevance tier a search result was found under.
type ArticleType string

const (
	ArticleBrandSpecific   ArticleType = "brand_specific"
	ArticleCompetitor      ArticleType = "competitor"
	ArticleTherapeuticArea ArticleType = "therapeutic_area"
	ArticleMarketWide      ArticleType = "market_wide"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// NewsArticle is a deduplicated (by URL) search result with enrichment.
type NewsArticle struct {
	ID                 string      `json:"id,omitempty"`
	Title              string      `json:"title"`
	Content            string      `json:"content"`
	URL                string      `json:"url"`
	Source             string      `json:"source"`
	PublishedAt        string      `json:"publishedAt"`
	ArticleType        ArticleType `json:"articleType"`
	BaseRelevance      float64     `json:"baseRelevance"`
	SearchScore        float64     `json:"searchScore"`
	Sentiment          string      `json:"sentiment,omitempty"`
	MentionedBrands    []string    `json:"mentionedBrands"`
	MentionedCompanies []string    `json:"mentionedCompanies"`
	TherapeuticAreas   []string    `json:"therapeuticAreas"`
	Topics             []string    `json:"topics"`
	CreatedAt          time.Time   `json:"createdAt,omitempty"`
}

// BrandNewsLink ties an article to a brand with the reason it is relevant.
type BrandNewsLink struct {
	BrandID         string  `json:"brandId"`
	NewsArticleID   string  `json:"newsArticleId"`
	RelevanceScore  float64 `json:"relevanceScore"`
	RelevanceReason string  `json:"relevanceReason"`
	Priority        string  `json:"priority"`
}

// BrandNewsItem is a stored article as seen from one brand.
type BrandNewsItem struct {
	NewsArticle
	RelevanceScore  float64 `json:"relevanceScore"`
	RelevanceReason string  `json:"relevanceReason"`
	Priority        string  `json:"priority"`
}
