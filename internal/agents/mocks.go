// internal/agents/mocks.go
package agents

import "strings"

const (
	// MockKeyDefault is the fallback entry every table must carry.
	MockKeyDefault = "default"
	// MockKeyAnticoagulant selects the anticoagulant variant.
	MockKeyAnticoagulant = "anticoagulant"
)

// NormalizeCategory maps a free-form therapeutic area onto a mock table key.
func NormalizeCategory(therapeuticArea string) string {
	area := strings.ToLower(therapeuticArea)
	if strings.Contains(area, "anticoagulant") || strings.Contains(area, "blood thinner") {
		return MockKeyAnticoagulant
	}
	return MockKeyDefault
}

// MockTable holds the canned responses for one agent keyed by normalized category.
type MockTable[T any] map[string]*T

// Lookup returns the entry for key, falling back to the default entry.
func (m MockTable[T]) Lookup(key string) (*T, bool) {
	if v, ok := m[key]; ok && v != nil {
		return v, true
	}
	v, ok := m[MockKeyDefault]
	return v, ok && v != nil
}

// ==========================
// Analyzer
// ==========================

var analyzerMocks = MockTable[AnalyzerOutput]{
	MockKeyDefault: {
		KeyInsights: []MarketInsight{
			{Category: "opportunity", Description: "Growing demand for early treatment options as COVID transitions to endemic phase", Impact: "high"},
			{Category: "threat", Description: "Payer resistance to high-cost antivirals as pandemic urgency decreases", Impact: "high"},
			{Category: "trend", Description: "Shift from emergency use to preventive treatment protocols in high-risk populations", Impact: "medium"},
		},
		MarketGaps: []string{
			"Lack of patient awareness about early treatment benefits",
			"Limited primary care physician engagement in antiviral prescribing",
			"Insufficient real-world evidence for long-COVID prevention",
		},
		Opportunities: []string{
			"Partner with retail pharmacies for rapid access programs",
			"Develop PCP education initiatives on treatment protocols",
			"Invest in long-COVID prevention studies to expand indication",
		},
		Summary: "The COVID antiviral market is transitioning from emergency response to endemic management. Key opportunities lie in educating PCPs, expanding access through retail partnerships, and building evidence for long-COVID prevention. Main threats include payer pushback and declining urgency.",
	},
	MockKeyAnticoagulant: {
		KeyInsights: []MarketInsight{
			{Category: "opportunity", Description: "Aging population driving increased AFib diagnosis and anticoagulant demand", Impact: "high"},
			{Category: "threat", Description: "Generic warfarin pressure and payer preference for lower-cost alternatives", Impact: "high"},
			{Category: "trend", Description: "Shift from warfarin to NOACs continuing as standard of care evolves", Impact: "medium"},
		},
		MarketGaps: []string{
			"Limited real-world adherence data compared to clinical trials",
			"Physician hesitation in elderly patients due to bleeding risk perception",
			"Inadequate patient education on consistent dosing importance",
		},
		Opportunities: []string{
			"Develop elderly patient support programs to improve adherence",
			"Partner with cardiology practices for AFib detection initiatives",
			"Invest in real-world evidence studies showing safety in diverse populations",
		},
		Summary: "The anticoagulant market continues strong growth driven by aging populations and AFib prevalence. Key opportunities include elderly patient programs, cardiology partnerships, and real-world evidence generation. Main challenges are generic competition and bleeding risk perceptions.",
	},
}

// ==========================
// Strategy
// ==========================

var strategyMocks = MockTable[StrategyOutput]{
	MockKeyDefault: {
		SWOT: SWOTAnalysis{
			Strengths: []string{
				"Superior clinical efficacy (89% hospitalization reduction)",
				"Strong brand recognition from emergency use",
				"Robust manufacturing and distribution network",
			},
			Weaknesses: []string{
				"High price point vs competitors",
				"Complex drug-drug interaction profile",
				"Limited long-term safety data",
			},
			Opportunities: []string{
				"Long-COVID prevention indication expansion",
				"International market penetration",
				"Combination therapy protocols",
			},
			Threats: []string{
				"Generic competition in 18-24 months",
				"Declining COVID prevalence reduces demand",
				"Payer coverage restrictions",
			},
		},
		CompetitivePositioning: "Position as the gold-standard early treatment for high-risk COVID patients, emphasizing superior efficacy and established safety profile.",
		KeyDifferentiators: []string{
			"Highest efficacy in preventing hospitalization (89% vs 30%)",
			"Fastest time to viral clearance",
			"Most extensive clinical trial data",
		},
		StrategicRecommendations: []string{
			"Pivot marketing from emergency response to endemic preparedness",
			"Invest in long-COVID prevention clinical trials",
			"Build PCP education programs for early treatment protocols",
			"Develop risk stratification tools for patient identification",
			"Establish retail pharmacy partnerships for rapid access",
		},
	},
	MockKeyAnticoagulant: {
		SWOT: SWOTAnalysis{
			Strengths: []string{
				"No dietary restrictions (vs warfarin)",
				"Predictable pharmacokinetics, no INR monitoring required",
				"Strong clinical trial data (RE-LY, ARISTOTLE studies)",
			},
			Weaknesses: []string{
				"No specific reversal agent widely available",
				"Higher cost than warfarin",
				"Limited dose adjustment options",
			},
			Opportunities: []string{
				"Expanding indications beyond AFib (VTE, DVT)",
				"Post-surgery thromboprophylaxis market",
				"Patient convenience messaging vs warfarin",
			},
			Threats: []string{
				"Competing NOACs with similar profiles",
				"Generic competition approaching",
				"Payer pressure for therapeutic substitution",
			},
		},
		CompetitivePositioning: "Position as the most convenient and reliable anticoagulant option for AFib patients, emphasizing freedom from dietary restrictions and monitoring requirements.",
		KeyDifferentiators: []string{
			"No dietary restrictions unlike warfarin",
			"No routine blood monitoring (INR) required",
			"Proven efficacy in preventing stroke in AFib patients",
		},
		StrategicRecommendations: []string{
			"Target newly diagnosed AFib patients before warfarin initiation",
			"Partner with cardiology practices for direct patient education",
			"Develop adherence support programs for elderly patients",
			"Build real-world evidence showing lower bleeding rates",
			"Create patient-friendly materials highlighting convenience benefits",
		},
	},
}

// ==========================
// Brand plan
// ==========================

var brandPlanMocks = MockTable[BrandPlanOutput]{
	MockKeyDefault: {
		ExecutiveSummary: "Comprehensive 12-month plan to transition Paxlovid from pandemic emergency treatment to endemic standard of care, focusing on PCP education, patient access, and evidence generation for long-COVID prevention.",
		MarketAnalysis:   "COVID-19 antiviral market declining 35% YoY but stabilizing with endemic phase. High-risk populations (65+, immunocompromised) remain significant opportunity. Competition limited but price pressure increasing.",
		Strategy:         "Position as gold-standard treatment for high-risk patients. Invest in clinical evidence for long-COVID prevention. Build PCP capability and retail pharmacy partnerships for rapid access.",
		Tactics: []string{
			"Launch 'Early Treatment Saves Lives' PCP education campaign",
			"Deploy risk stratification tools to 50,000 primary care practices",
			"Partner with top 5 retail pharmacy chains for rapid dispensing",
			"Initiate Phase 3 trial for long-COVID prevention indication",
			"Develop patient awareness campaign targeting 65+ demographic",
		},
		KPIs: []KPI{
			{Metric: "Market Share", Target: "62%", Timeframe: "Q4 2025"},
			{Metric: "PCP Prescribers", Target: "50,000 active", Timeframe: "6 months"},
			{Metric: "Time to Treatment", Target: "<48 hours", Timeframe: "9 months"},
			{Metric: "Patient Awareness (65+)", Target: "75%", Timeframe: "12 months"},
		},
		BudgetAllocation: map[string]float64{
			"PCP Sales Force":     15750000,
			"Medical Education":   11250000,
			"Patient Awareness":   9000000,
			"Retail Partnerships": 4500000,
			"Clinical Trials":     4500000,
		},
		Timeline: "Q1: PCP education launch. Q2: Retail partnerships established. Q3: Patient campaign launch. Q4: Long-COVID trial enrollment complete.",
	},
}

// ==========================
// Scenario
// ==========================

var scenarioMocks = MockTable[ScenarioOutput]{
	MockKeyDefault: {
		Scenario:       "What if a competitor launches a generic COVID antiviral at 50% lower price?",
		ImpactAnalysis: "A generic competitor at 50% price point would severely disrupt the market. Expected market share erosion of 15-25 points within 6 months, primarily in price-sensitive segments. Premium positioning becomes critical. High-risk patients and physicians prioritizing efficacy remain loyal, but volume prescribing shifts to lower-cost option.",
		RiskLevel:      "high",
		DefensiveTactics: []DefensiveTactic{
			{
				Tactic:                   "Efficacy Differentiation Campaign",
				Description:              "Launch aggressive medical education highlighting superior efficacy data (89% vs estimated 60-70% for generic). Target high-prescribing specialists and KOLs with head-to-head outcome data.",
				ImplementationDifficulty: "medium",
				ExpectedImpact:           "high",
			},
			{
				Tactic:                   "Patient Assistance Program Expansion",
				Description:              "Immediately expand copay assistance to $0 for all eligible patients, neutralizing out-of-pocket cost advantage. Partner with advocacy groups to promote program.",
				ImplementationDifficulty: "easy",
				ExpectedImpact:           "medium",
			},
			{
				Tactic:                   "Outcomes-Based Contracting",
				Description:              "Propose value-based contracts with major payers linking payment to hospitalization prevention. Share risk but demonstrate ROI through reduced downstream costs.",
				ImplementationDifficulty: "hard",
				ExpectedImpact:           "high",
			},
		},
		RecommendedAction: "Immediately: (1) Activate patient assistance expansion, (2) Brief sales force on efficacy messaging, (3) Initiate payer discussions on outcomes contracts. Timeline: 30 days for programs to be operational.",
		ConfidenceScore:   0.85,
	},
}

// ==========================
// Validator
// ==========================

var validatorMocks = MockTable[ValidatorOutput]{
	MockKeyDefault: {
		ConfidenceScore: 0.82,
		Explanation:     "The content demonstrates strong strategic thinking and is well-structured. Confidence is reduced due to lack of specific quantitative targets in some areas and limited discussion of competitive response scenarios.",
		Strengths: []string{
			"Clear strategic direction with actionable tactics",
			"Realistic budget allocation aligned with priorities",
			"Good balance of offensive and defensive strategies",
			"Strong focus on measurable outcomes",
		},
		Weaknesses: []string{
			"Timeline lacks specific milestones and dependencies",
			"Limited discussion of competitive response scenarios",
			"Budget allocation doesn't account for contingencies",
			"Missing international market considerations",
		},
		SuggestedEdits: []SuggestedEdit{
			{
				Section:   "Timeline",
				Original:  "Q1: PCP education launch. Q2: Retail partnerships established.",
				Suggested: "Q1 (Jan-Mar): PCP education launch (target 10K physicians/month). Milestone: 30K physicians trained by Mar 31. Q2 (Apr-Jun): Retail partnerships with CVS (Apr 15), Walgreens (May 1), Walmart (Jun 1). Milestone: 75% of US population within 5 miles of participating pharmacy.",
				Reason:    "Adding specific dates, targets, and milestones improves accountability and progress tracking",
			},
			{
				Section:   "Budget Allocation",
				Original:  "Current budget allocation totals $45M",
				Suggested: "Total budget: $45M + 10% contingency reserve ($4.5M) for market response and unforeseen competitive actions",
				Reason:    "Contingency planning is essential given market volatility and competitive threats",
			},
		},
		ValidationStatus: "needs_revision",
	},
}

// ==========================
// Insight discovery
// ==========================

var insightDiscoveryMocks = MockTable[InsightDiscoveryOutput]{
	MockKeyDefault: {
		DiscoveredInsights: []DiscoveredInsight{
			{
				Title:         "The 'Pharmacy Desert' Opportunity",
				Description:   "Analysis reveals that 23% of high-risk COVID patients live in areas where the nearest pharmacy stocking antivirals is >15 miles away. These 'pharmacy deserts' correlate with lowest treatment rates but highest hospitalization risk. Mobile health units or direct-to-patient shipping could capture this untapped segment.",
				Source:        "Geographic analysis of prescription data overlaid with hospitalization rates",
				NoveltyScore:  0.85,
				Actionability: "high",
			},
			{
				Title:         "The Physician Burnout Blind Spot",
				Description:   "Primary care physicians in high-burnout practices (measured by EMR documentation time) are 40% less likely to prescribe antivirals, even when clinically indicated. The complexity of treatment protocols during time-constrained visits creates a barrier. Simplified decision tools could unlock this segment.",
				Source:        "Correlation analysis of physician burnout metrics and prescribing patterns",
				NoveltyScore:  0.78,
				Actionability: "high",
			},
			{
				Title:         "The Caregiver Influence Factor",
				Description:   "Patients whose adult children live within 20 miles are 3x more likely to receive treatment within the critical 48-hour window. Caregivers drive urgency and navigation. Marketing directly to adult children of high-risk parents (vs. patients themselves) could dramatically improve treatment rates.",
				Source:        "Patient journey analysis of treatment timing vs. household proximity data",
				NoveltyScore:  0.82,
				Actionability: "medium",
			},
		},
		DataSourcesAnalyzed: []string{
			"Prescription claims data (12M records)",
			"Geographic accessibility mapping",
			"Physician burnout surveys",
			"Patient demographic and household data",
			"Treatment timing and outcomes data",
		},
		Summary: "Three non-obvious insights reveal untapped opportunities: addressing pharmacy access deserts, simplifying prescribing for burned-out physicians, and leveraging the caregiver influence on treatment urgency.",
		RecommendedNextSteps: []string{
			"Pilot mobile pharmacy program in 3 high-risk, low-access regions",
			"Develop 1-page clinical decision tool for time-constrained PCPs",
			"Create caregiver-targeted digital campaign: 'Protect Your Parents'",
			"Quantify ROI potential of each opportunity through pilot data",
		},
	},
}
