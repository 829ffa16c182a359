// internal/agents/agents.go
package agents

import (
	"context"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/validation"
)

// Agent names, used for metrics labels, spans and error metadata.
const (
	AgentAnalyzer         = "analyzer"
	AgentStrategy         = "strategy"
	AgentBrandPlan        = "brand_plan"
	AgentScenario         = "scenario"
	AgentValidator        = "validator"
	AgentInsightDiscovery = "insight_discovery"
)

var (
	analyzerAgent = agentSpec[AnalyzerOutput]{
		name:         AgentAnalyzer,
		systemPrompt: analyzerSystemPrompt,
		schema:       validation.MustReflect(AgentAnalyzer, &AnalyzerOutput{}),
		mocks:        analyzerMocks,
	}
	strategyAgent = agentSpec[StrategyOutput]{
		name:         AgentStrategy,
		systemPrompt: strategySystemPrompt,
		schema:       validation.MustReflect(AgentStrategy, &StrategyOutput{}),
		mocks:        strategyMocks,
	}
	brandPlanAgent = agentSpec[BrandPlanOutput]{
		name:         AgentBrandPlan,
		systemPrompt: brandPlanSystemPrompt,
		schema:       validation.MustReflect(AgentBrandPlan, &BrandPlanOutput{}),
		mocks:        brandPlanMocks,
	}
	scenarioAgent = agentSpec[ScenarioOutput]{
		name:         AgentScenario,
		systemPrompt: scenarioSystemPrompt,
		schema:       validation.MustReflect(AgentScenario, &ScenarioOutput{}),
		mocks:        scenarioMocks,
	}
	validatorAgent = agentSpec[ValidatorOutput]{
		name:         AgentValidator,
		systemPrompt: validatorSystemPrompt,
		schema:       validation.MustReflect(AgentValidator, &ValidatorOutput{}),
		mocks:        validatorMocks,
	}
	insightDiscoveryAgent = agentSpec[InsightDiscoveryOutput]{
		name:         AgentInsightDiscovery,
		systemPrompt: insightDiscoverySystemPrompt,
		schema:       validation.MustReflect(AgentInsightDiscovery, &InsightDiscoveryOutput{}),
		mocks:        insightDiscoveryMocks,
	}
)

// Analyze runs market and competitive analysis.
func (inv *Invoker) Analyze(ctx context.Context, in AnalyzerInput) (*AnalyzerOutput, error) {
	return invoke(ctx, inv, analyzerAgent, NormalizeCategory(in.Brand.TherapeuticArea), analyzerPrompt(in))
}

// Strategize turns an analysis into a SWOT and positioning.
func (inv *Invoker) Strategize(ctx context.Context, in StrategyInput) (*StrategyOutput, error) {
	return invoke(ctx, inv, strategyAgent, NormalizeCategory(in.Brand.TherapeuticArea), strategyPrompt(in))
}

// CreatePlan produces a full brand plan.
func (inv *Invoker) CreatePlan(ctx context.Context, in BrandPlanInput) (*BrandPlanOutput, error) {
	return invoke(ctx, inv, brandPlanAgent, NormalizeCategory(in.Brand.TherapeuticArea), brandPlanPrompt(in))
}

// AnalyzeScenario answers a what-if question with three defensive tactics.
func (inv *Invoker) AnalyzeScenario(ctx context.Context, in ScenarioInput) (*ScenarioOutput, error) {
	return invoke(ctx, inv, scenarioAgent, NormalizeCategory(in.Brand.TherapeuticArea), scenarioPrompt(in))
}

// Validate scores a piece of generated content.
func (inv *Invoker) Validate(ctx context.Context, in ValidatorInput) (*ValidatorOutput, error) {
	return invoke(ctx, inv, validatorAgent, MockKeyDefault, validatorPrompt(in))
}

// Discover mines non-obvious insights for a brand.
func (inv *Invoker) Discover(ctx context.Context, in InsightDiscoveryInput) (*InsightDiscoveryOutput, error) {
	return invoke(ctx, inv, insightDiscoveryAgent, NormalizeCategory(in.Brand.TherapeuticArea), insightDiscoveryPrompt(in))
}

// Schema returns the output schema registered for an agent name.
func Schema(agent string) (*validation.Schema, bool) {
	switch agent {
	case AgentAnalyzer:
		return analyzerAgent.schema, true
	case AgentStrategy:
		return strategyAgent.schema, true
	case AgentBrandPlan:
		return brandPlanAgent.schema, true
	case AgentScenario:
		return scenarioAgent.schema, true
	case AgentValidator:
		return validatorAgent.schema, true
	case AgentInsightDiscovery:
		return insightDiscoveryAgent.schema, true
	}
	return nil, false
}
