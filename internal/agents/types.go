// internal/agents/types.go
package agents

// ==========================
// Inputs
// ==========================

type BrandData struct {
	BrandID           string   `json:"brandId,omitempty"`
	Name              string   `json:"name"`
	Company           string   `json:"company"`
	TherapeuticArea   string   `json:"therapeuticArea"`
	MarketShare       *float64 `json:"marketShare,omitempty"`
	AdditionalContext string   `json:"additionalContext,omitempty"`
}

type CompetitorData struct {
	Name        string   `json:"name"`
	Company     string   `json:"company"`
	MarketShare *float64 `json:"marketShare,omitempty"`
	Strengths   []string `json:"strengths,omitempty"`
	Weaknesses  []string `json:"weaknesses,omitempty"`
}

// NewsItem is the slice of an enriched article the analyzer prompt needs.
type NewsItem struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	URL             string `json:"url"`
	Source          string `json:"source"`
	PublishedAt     string `json:"publishedAt"`
	Sentiment       string `json:"sentiment"`
	Priority        string `json:"priority"`
	RelevanceReason string `json:"relevanceReason"`
}

type AnalyzerInput struct {
	Brand         BrandData        `json:"brand"`
	Competitors   []CompetitorData `json:"competitors"`
	MarketContext string           `json:"marketContext,omitempty"`
	News          []NewsItem       `json:"news,omitempty"`
}

type StrategyInput struct {
	Brand          BrandData `json:"brand"`
	AnalyzerOutput string    `json:"analyzerOutput,omitempty"`
}

type BrandPlanInput struct {
	Brand          BrandData `json:"brand"`
	StrategyOutput string    `json:"strategyOutput,omitempty"`
	Budget         *float64  `json:"budget,omitempty"`
	Timeframe      string    `json:"timeframe,omitempty"`
	StrategicGoals string    `json:"strategicGoals,omitempty"`
}

type ScenarioInput struct {
	Brand            BrandData `json:"brand"`
	ScenarioQuestion string    `json:"scenarioQuestion"`
	CurrentContext   string    `json:"currentContext,omitempty"`
}

type ValidatorInput struct {
	ContentType        string   `json:"contentType"`
	Content            string   `json:"content"`
	ValidationCriteria []string `json:"validationCriteria,omitempty"`
}

type InsightDiscoveryInput struct {
	Brand       BrandData `json:"brand"`
	DataSources []string  `json:"dataSources,omitempty"`
	FocusAreas  []string  `json:"focusAreas,omitempty"`
}

// ==========================
// Outputs
// ==========================

type MarketInsight struct {
	Category    string `json:"category" jsonschema:"description=Category of insight (opportunity, threat, trend, etc.)"`
	Description string `json:"description" jsonschema:"description=Detailed description of the insight"`
	Impact      string `json:"impact" jsonschema:"description=Potential impact (high, medium, low)"`
}

type AnalyzerOutput struct {
	KeyInsights   []MarketInsight `json:"keyInsights" jsonschema:"description=List of key market insights"`
	MarketGaps    []string        `json:"marketGaps" jsonschema:"description=Identified gaps in the market"`
	Opportunities []string        `json:"opportunities" jsonschema:"description=Strategic opportunities"`
	Summary       string          `json:"summary" jsonschema:"description=Executive summary of analysis"`
}

type SWOTAnalysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

type StrategyOutput struct {
	SWOT                     SWOTAnalysis `json:"swot"`
	CompetitivePositioning   string       `json:"competitivePositioning" jsonschema:"description=Recommended competitive positioning"`
	KeyDifferentiators       []string     `json:"keyDifferentiators"`
	StrategicRecommendations []string     `json:"strategicRecommendations"`
}

type KPI struct {
	Metric    string `json:"metric"`
	Target    string `json:"target"`
	Timeframe string `json:"timeframe"`
}

type BrandPlanOutput struct {
	ExecutiveSummary string             `json:"executiveSummary"`
	MarketAnalysis   string             `json:"marketAnalysis"`
	Strategy         string             `json:"strategy"`
	Tactics          []string           `json:"tactics"`
	KPIs             []KPI              `json:"kpis"`
	BudgetAllocation map[string]float64 `json:"budgetAllocation" jsonschema:"description=Budget allocation by channel"`
	Timeline         string             `json:"timeline"`
}

type DefensiveTactic struct {
	Tactic                   string `json:"tactic"`
	Description              string `json:"description"`
	ImplementationDifficulty string `json:"implementationDifficulty" jsonschema:"enum=easy,enum=medium,enum=hard"`
	ExpectedImpact           string `json:"expectedImpact" jsonschema:"enum=high,enum=medium,enum=low"`
}

type ScenarioOutput struct {
	Scenario          string            `json:"scenario"`
	ImpactAnalysis    string            `json:"impactAnalysis"`
	RiskLevel         string            `json:"riskLevel" jsonschema:"enum=critical,enum=high,enum=medium,enum=low"`
	DefensiveTactics  []DefensiveTactic `json:"defensiveTactics" jsonschema:"description=Three defensive tactics,minItems=3,maxItems=3"`
	RecommendedAction string            `json:"recommendedAction"`
	ConfidenceScore   float64           `json:"confidenceScore" jsonschema:"minimum=0,maximum=1,default=0.85"`
}

type SuggestedEdit struct {
	Section   string `json:"section"`
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
	Reason    string `json:"reason"`
}

type ValidatorOutput struct {
	ConfidenceScore  float64         `json:"confidenceScore" jsonschema:"minimum=0,maximum=1"`
	Explanation      string          `json:"explanation"`
	Strengths        []string        `json:"strengths"`
	Weaknesses       []string        `json:"weaknesses"`
	SuggestedEdits   []SuggestedEdit `json:"suggestedEdits"`
	ValidationStatus string          `json:"validationStatus" jsonschema:"enum=approved,enum=needs_revision,enum=rejected"`
}

type DiscoveredInsight struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Source        string  `json:"source"`
	NoveltyScore  float64 `json:"noveltyScore" jsonschema:"minimum=0,maximum=1"`
	Actionability string  `json:"actionability" jsonschema:"enum=high,enum=medium,enum=low"`
}

type InsightDiscoveryOutput struct {
	DiscoveredInsights   []DiscoveredInsight `json:"discoveredInsights"`
	DataSourcesAnalyzed  []string            `json:"dataSourcesAnalyzed"`
	Summary              string              `json:"summary"`
	RecommendedNextSteps []string            `json:"recommendedNextSteps"`
}
