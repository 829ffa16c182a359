// internal/agents/prompts.go
package agents

import (
	"fmt"
	"strconv"
	"strings"
)

const analyzerSystemPrompt = `You are an expert pharmaceutical market analyst with deep expertise in competitive intelligence and market research.

Your role is to analyze brand and competitor data to identify:
1. Key market insights (opportunities, threats, trends)
2. Market gaps that can be exploited
3. Strategic opportunities for brand growth

Be specific, data-driven, and actionable in your analysis. Focus on pharmaceutical market dynamics.`

const analyzerUserPrompt = `Analyze the following brand and competitive landscape:

BRAND INFORMATION:
{brand_info}

COMPETITOR INFORMATION:
{competitor_info}

MARKET CONTEXT:
{market_context}

RECENT NEWS INTELLIGENCE:
{news_context}

Provide a comprehensive market analysis including:
1. Key insights about the current market situation
2. Identified gaps where the brand could gain advantage
3. Strategic opportunities for growth and differentiation

Be specific and actionable in your recommendations.`

const strategySystemPrompt = `You are a strategic brand consultant specializing in pharmaceutical brands.

Your expertise includes:
- SWOT analysis
- Competitive positioning
- Brand differentiation strategies
- Strategic planning for pharmaceutical products

Provide clear, actionable strategic recommendations grounded in market realities.`

const strategyUserPrompt = `Based on the market analysis, develop a comprehensive brand strategy:

BRAND INFORMATION:
{brand_info}

MARKET ANALYSIS:
{market_analysis}

Develop a strategic framework including:
1. Complete SWOT analysis
2. Recommended competitive positioning
3. Key brand differentiators
4. Strategic recommendations for the next 12 months

Focus on creating sustainable competitive advantage.`

const brandPlanSystemPrompt = `You are an expert brand planning consultant for pharmaceutical products.

You create comprehensive, actionable brand plans that include:
- Executive summaries
- Market analysis
- Strategic frameworks
- Tactical initiatives
- KPIs and metrics
- Budget allocation
- Implementation timelines

Your plans are practical, data-driven, and aligned with pharmaceutical industry best practices.`

const brandPlanUserPrompt = `Create a comprehensive brand plan based on the following:

BRAND INFORMATION:
{brand_info}

STRATEGIC GOALS:
{strategic_goals}

STRATEGIC FRAMEWORK:
{strategy}

BUDGET: {budget}
TIMEFRAME: {timeframe}

Develop a complete brand plan with:
1. Executive Summary - concise overview
2. Market Analysis - current state and trends
3. Strategy - positioning and approach aligned with the strategic goals
4. Tactics - specific initiatives to execute that support the goals
5. KPIs - measurable success metrics aligned with the strategic goals
6. Budget Allocation - recommended spend by channel
7. Timeline - phased implementation plan

IMPORTANT: Tailor the entire plan to directly address the strategic goals provided above. Every tactic, KPI, and recommendation should support achieving these goals.

Make the plan actionable and specific to the pharmaceutical industry.`

const scenarioSystemPrompt = `You are a strategic risk analyst and scenario planner for pharmaceutical brands.

Your expertise includes:
- "What-if" scenario analysis
- Risk assessment and quantification
- Defensive strategy development
- Crisis planning and mitigation

You provide realistic, actionable defensive tactics that brands can implement quickly.`

const scenarioUserPrompt = `Analyze the following "what-if" scenario:

BRAND INFORMATION:
{brand_info}

SCENARIO QUESTION:
{scenario_question}

CURRENT CONTEXT:
{current_context}

Provide a comprehensive scenario analysis including:
1. Detailed impact analysis of this scenario
2. Overall risk level assessment
3. THREE specific defensive tactics the brand can employ
4. Immediate recommended action
5. Confidence score (0-1) for your analysis

For each defensive tactic, include:
- Clear description
- Implementation difficulty
- Expected impact

Be realistic and practical in your recommendations.`

const validatorSystemPrompt = `You are a quality assurance expert specializing in pharmaceutical brand content validation.

Your role is to:
- Critically evaluate AI-generated content
- Assess accuracy, completeness, and quality
- Identify weaknesses and suggest improvements
- Provide confidence scores with detailed explanations

You are thorough, objective, and constructively critical.`

const validatorUserPrompt = `Validate the following {content_type} content:

CONTENT:
{content}

VALIDATION CRITERIA:
{validation_criteria}

Provide a comprehensive validation including:
1. Confidence score (0-1) with detailed explanation
2. Strengths of the content
3. Weaknesses or concerns
4. Specific suggested edits with reasoning
5. Overall validation status (approved, needs_revision, rejected)

Be thorough and constructive in your feedback.`

const insightDiscoverySystemPrompt = `You are an insight mining expert specializing in uncovering non-obvious patterns and opportunities in pharmaceutical markets.

Your strength is finding "things you might not know" - insights that are:
- Surprising and non-obvious
- Actionable and valuable
- Data-driven and credible
- Novel and thought-provoking

You look beyond surface-level analysis to discover hidden patterns and emerging trends.`

const insightDiscoveryUserPrompt = `Discover novel insights about the following brand:

BRAND INFORMATION:
{brand_info}

DATA SOURCES TO ANALYZE:
{data_sources}

FOCUS AREAS:
{focus_areas}

Uncover insights that are:
1. Non-obvious and surprising
2. Based on data patterns or market signals
3. Actionable for brand strategy
4. Not commonly known or discussed

For each insight, provide:
- Clear title
- Detailed description
- Source/reasoning
- Novelty score (how surprising)
- Actionability level

Think creatively and look for emerging patterns, weak signals, and unconventional opportunities.`

const (
	noNewsContext          = "No recent news intelligence available."
	noAdditionalContext    = "No additional context provided"
	noMarketAnalysis       = "No market analysis provided"
	noStrategy             = "No strategy provided"
	noStrategicGoals       = "No specific strategic goals provided"
	defaultTimeframe       = "12 months"
	budgetNotSpecified     = "Not specified"
	maxNewsContextArticles = 10
)

var defaultValidationCriteria = []string{
	"Accuracy and factual correctness",
	"Completeness and thoroughness",
	"Actionability and specificity",
	"Strategic alignment",
	"Risk consideration",
}

var defaultDataSources = []string{
	"Market research reports",
	"Prescription claims data",
	"Physician surveys",
	"Patient journey analytics",
	"Competitive intelligence",
}

var defaultFocusAreas = []string{
	"Patient access barriers",
	"Physician behavior patterns",
	"Emerging market trends",
	"Unmet needs",
	"Competitive gaps",
}

// render substitutes {name} placeholders in a single pass, so values containing braces are
// left alone.
func render(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func formatMarketShare(share *float64) string {
	if share == nil {
		return "Unknown"
	}
	return strconv.FormatFloat(*share, 'f', -1, 64) + "%"
}

func formatBrandInfo(b BrandData, withContext bool) string {
	var sb strings.Builder
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Brand: %s\n", b.Name)
	fmt.Fprintf(&sb, "Company: %s\n", b.Company)
	fmt.Fprintf(&sb, "Therapeutic Area: %s\n", b.TherapeuticArea)
	fmt.Fprintf(&sb, "Market Share: %s\n", formatMarketShare(b.MarketShare))
	if withContext && b.AdditionalContext != "" {
		sb.WriteString(b.AdditionalContext)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatCompetitors(competitors []CompetitorData) string {
	blocks := make([]string, 0, len(competitors))
	for _, c := range competitors {
		blocks = append(blocks, fmt.Sprintf(
			"Competitor: %s (%s)\nMarket Share: %s\nStrengths: %s\nWeaknesses: %s",
			c.Name, c.Company, formatMarketShare(c.MarketShare),
			strings.Join(c.Strengths, ", "), strings.Join(c.Weaknesses, ", "),
		))
	}
	return strings.Join(blocks, "\n\n")
}

// FormatNewsContext renders up to ten articles for the analyzer prompt.
func FormatNewsContext(items []NewsItem) string {
	if len(items) == 0 {
		return noNewsContext
	}
	if len(items) > maxNewsContextArticles {
		items = items[:maxNewsContextArticles]
	}

	blocks := make([]string, 0, len(items))
	for i, a := range items {
		priority := valueOr(a.Priority, "medium")
		blocks = append(blocks, fmt.Sprintf(
			"%d. [%s] %s\n   Source: %s | Published: %s\n   Sentiment: %s\n   Relevance: %s\n   Summary: %s...\n   URL: %s",
			i+1,
			strings.ToUpper(priority),
			valueOr(a.Title, "Untitled"),
			valueOr(a.Source, "Unknown"),
			valueOr(a.PublishedAt, "Unknown date"),
			valueOr(a.Sentiment, "neutral"),
			valueOr(a.RelevanceReason, "General market news"),
			Truncate(a.Content, 300),
			valueOr(a.URL, "N/A"),
		))
	}
	return strings.Join(blocks, "\n\n")
}

// FormatBudget renders whole dollars with thousands separators.
func FormatBudget(budget *float64) string {
	if budget == nil || *budget == 0 {
		return budgetNotSpecified
	}
	whole := strconv.FormatFloat(*budget, 'f', 0, 64)
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-$" + sb.String()
	}
	return "$" + sb.String()
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func listOr(items, fallback []string) string {
	if len(items) == 0 {
		items = fallback
	}
	return strings.Join(items, "\n")
}

func analyzerPrompt(in AnalyzerInput) string {
	return render(analyzerUserPrompt, map[string]string{
		"brand_info":      formatBrandInfo(in.Brand, true),
		"competitor_info": formatCompetitors(in.Competitors),
		"market_context":  valueOr(in.MarketContext, noAdditionalContext),
		"news_context":    FormatNewsContext(in.News),
	})
}

func strategyPrompt(in StrategyInput) string {
	return render(strategyUserPrompt, map[string]string{
		"brand_info":      formatBrandInfo(in.Brand, false),
		"market_analysis": valueOr(in.AnalyzerOutput, noMarketAnalysis),
	})
}

func brandPlanPrompt(in BrandPlanInput) string {
	return render(brandPlanUserPrompt, map[string]string{
		"brand_info":      formatBrandInfo(in.Brand, false),
		"strategic_goals": valueOr(in.StrategicGoals, noStrategicGoals),
		"strategy":        valueOr(in.StrategyOutput, noStrategy),
		"budget":          FormatBudget(in.Budget),
		"timeframe":       valueOr(in.Timeframe, defaultTimeframe),
	})
}

func scenarioPrompt(in ScenarioInput) string {
	return render(scenarioUserPrompt, map[string]string{
		"brand_info":        formatBrandInfo(in.Brand, false),
		"scenario_question": in.ScenarioQuestion,
		"current_context":   valueOr(in.CurrentContext, noAdditionalContext),
	})
}

func validatorPrompt(in ValidatorInput) string {
	return render(validatorUserPrompt, map[string]string{
		"content_type":        in.ContentType,
		"content":             in.Content,
		"validation_criteria": listOr(in.ValidationCriteria, defaultValidationCriteria),
	})
}

func insightDiscoveryPrompt(in InsightDiscoveryInput) string {
	return render(insightDiscoveryUserPrompt, map[string]string{
		"brand_info":   formatBrandInfo(in.Brand, false),
		"data_sources": listOr(in.DataSources, defaultDataSources),
		"focus_areas":  listOr(in.FocusAreas, defaultFocusAreas),
	})
}
