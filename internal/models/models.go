package models

import (
	"strings"
	"time"
)

// SkillCategory is one of the fixed skill taxonomy buckets
type SkillCategory string

const (
	CategoryFrontend SkillCategory = "frontend"
	CategoryBackend  SkillCategory = "backend"
	CategoryDevOps   SkillCategory = "devops"
	CategoryData     SkillCategory = "data"
	CategoryMobile   SkillCategory = "mobile"
	CategoryGeneral  SkillCategory = "general"
)

// SkillLevel is the inferred proficiency of a skill
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelExpert       SkillLevel = "expert"
)

// Seniority is the ordinal label derived from a job title
type Seniority string

const (
	SeniorityIntern    Seniority = "intern"
	SeniorityJunior    Seniority = "junior"
	SeniorityMid       Seniority = "mid"
	SenioritySenior    Seniority = "senior"
	SeniorityPrincipal Seniority = "principal"
	SeniorityDirector  Seniority = "director"
)

// Ordinal maps the label to 0 (intern) .. 5 (director). Unknown labels count as mid.
func (s Seniority) Ordinal() int {
	switch s {
	case SeniorityIntern:
		return 0
	case SeniorityJunior:
		return 1
	case SenioritySenior:
		return 3
	case SeniorityPrincipal:
		return 4
	case SeniorityDirector:
		return 5
	default:
		return 2
	}
}

// CompanySize buckets an employer by scale
type CompanySize string

const (
	SizeStartup    CompanySize = "startup"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
	SizeUnknown    CompanySize = "unknown"
)

// Industry buckets an employer by sector
type Industry string

const (
	IndustryTech       Industry = "tech"
	IndustryFinance    Industry = "finance"
	IndustryHealthcare Industry = "healthcare"
	IndustryConsulting Industry = "consulting"
	IndustryOther      Industry = "other"
	IndustryUnknown    Industry = "unknown"
)

// SkillRecord is one skill found in a document
type SkillRecord struct {
	Name       string        `json:"name"`
	Category   SkillCategory `json:"category"`
	Level      SkillLevel    `json:"level"`
	Confidence float64       `json:"confidence"` // 0-1
}

// Key returns the case-normalized name used for comparisons
func (s SkillRecord) Key() string {
	return strings.ToLower(strings.TrimSpace(s.Name))
}

// WorkExperience is one job entry parsed from the experience section
type WorkExperience struct {
	JobTitle         string      `json:"job_title"`
	CompanyName      string      `json:"company_name,omitempty"`
	StartDate        string      `json:"start_date,omitempty"`
	EndDate          string      `json:"end_date,omitempty"`
	IsCurrent        bool        `json:"is_current"`
	DurationMonths   *int        `json:"duration_months"` // nil when no start year could be parsed
	Description      string      `json:"description,omitempty"`
	TechnologiesUsed string      `json:"technologies_used,omitempty"`
	SeniorityLevel   Seniority   `json:"seniority_level"`
	CompanySize      CompanySize `json:"company_size"`
	CompanyIndustry  Industry    `json:"company_industry"`
}

// Months returns the duration in months, treating unknown as zero
func (w WorkExperience) Months() int {
	if w.DurationMonths == nil {
		return 0
	}
	return *w.DurationMonths
}

// CompanyContext is the output of the context classifier
type CompanyContext struct {
	Size     CompanySize `json:"size"`
	Industry Industry    `json:"industry"`
	IsTech   bool        `json:"is_tech"`
}

// PathwayDefinition is static reference data describing a target role
type PathwayDefinition struct {
	Name             string             `json:"name" validate:"required"`
	Description      string             `json:"description"`
	RequiredSkills   []string           `json:"required_skills"`
	OptionalSkills   []string           `json:"optional_skills"`
	WeightCategories map[string]float64 `json:"weight_categories" validate:"dive,keys,required,endkeys,gte=0"`
	RoadmapURL       string             `json:"roadmap_url" validate:"omitempty,url"`
}

// PathwayCatalog is the on-disk shape of the pathway reference data
type PathwayCatalog struct {
	Pathways []PathwayDefinition `json:"pathways" validate:"required,min=1,dive"`
}

// TrajectoryType labels the shape of a career history
type TrajectoryType string

const (
	TrajectoryStrongUpward     TrajectoryType = "strong_upward"
	TrajectoryUpward           TrajectoryType = "upward"
	TrajectoryStable           TrajectoryType = "stable"
	TrajectoryPivot            TrajectoryType = "pivot"
	TrajectoryMixed            TrajectoryType = "mixed"
	TrajectoryInsufficientData TrajectoryType = "insufficient_data"
)

// TrajectoryLevel is one step of the chronological seniority sequence
type TrajectoryLevel struct {
	Title   string `json:"title"`
	Ordinal int    `json:"ordinal"`
}

// Trajectory is the classified career progression
type Trajectory struct {
	Type             TrajectoryType    `json:"type"`
	ProgressionScore float64           `json:"progression_score"`
	Description      string            `json:"description,omitempty"`
	Levels           []TrajectoryLevel `json:"levels,omitempty"`
}

// Recommendation is one ranked career pathway
type Recommendation struct {
	Pathway                string         `json:"pathway"`
	Description            string         `json:"description,omitempty"`
	MatchScore             float64        `json:"match_score"` // 0-1
	Reasoning              string         `json:"reasoning"`
	RecommendedSkills      []string       `json:"recommended_skills"`
	RoadmapURL             string         `json:"roadmap_url,omitempty"`
	ExperienceRelevance    float64        `json:"experience_relevance"`
	CareerProgressionScore float64        `json:"career_progression_score"`
	CompanyContextMatch    float64        `json:"company_context_match"`
	RecencyBoost           float64        `json:"recency_boost"`
	AIInsight              map[string]any `json:"ai_insight,omitempty"`
	IsAIEnhanced           bool           `json:"is_ai_enhanced"`
}

// Profile holds contact and summary details pulled from a CV
type Profile struct {
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	YearsExperience *float64 `json:"years_experience,omitempty"`
	EducationLevel  string   `json:"education_level,omitempty"`
}

// SkillSummary aggregates extracted skills
type SkillSummary struct {
	Total         int                   `json:"total"`
	ByCategory    map[SkillCategory]int `json:"by_category"`
	TopCategories []SkillCategory       `json:"top_categories"`
	ByLevel       map[SkillLevel]int    `json:"by_level"`
}

// Document is converted CV text ready for analysis
type Document struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
	Text string `json:"-"`
}

// Report is the full analysis of one document
type Report struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Source          string            `json:"source,omitempty"`
	Profile         Profile           `json:"profile"`
	Sections        map[string]string `json:"sections,omitempty"`
	Skills          []SkillRecord     `json:"skills"`
	SkillSummary    SkillSummary      `json:"skill_summary"`
	Certifications  []string          `json:"certifications,omitempty"`
	WorkHistory     []WorkExperience  `json:"work_history"`
	Trajectory      Trajectory        `json:"trajectory"`
	Recommendations []Recommendation  `json:"recommendations"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// TopScore returns the best match score in the report, or 0 without recommendations
func (r Report) TopScore() float64 {
	if len(r.Recommendations) == 0 {
		return 0
	}
	return r.Recommendations[0].MatchScore
}

// YearsOfExperience returns the stated years, or the parsed work history in years
func (r Report) YearsOfExperience() float64 {
	if r.Profile.YearsExperience != nil {
		return *r.Profile.YearsExperience
	}
	total := 0
	for _, w := range r.WorkHistory {
		total += w.Months()
	}
	return float64(total) / 12
}

// BatchReport is the response with all analysed documents of a batch
type BatchReport struct {
	Reports   []Report `json:"reports"`
	Timestamp string   `json:"timestamp"`
}

// IngestRequest represents the request payload for batch ingestion
type IngestRequest struct {
	Method       string `json:"method"`        // "upload" or "gmail"
	GmailSubject string `json:"gmail_subject"` // Subject filter for Gmail
}

// RoadmapPhase is one block of a learning plan
type RoadmapPhase struct {
	Name          string   `json:"name"`
	Skills        []string `json:"skills"`
	DurationWeeks int      `json:"duration_weeks"`
	Milestone     string   `json:"milestone"`
}

// Roadmap is a learning plan towards one pathway
type Roadmap struct {
	Pathway              string         `json:"pathway"`
	RoadmapURL           string         `json:"roadmap_url,omitempty"`
	CompletionPercentage float64        `json:"completion_percentage"`
	Phases               []RoadmapPhase `json:"phases"`
	TotalWeeks           int            `json:"total_weeks"`
	EstimatedMonths      float64        `json:"estimated_months"`
}

// PathwayScore is one pathway and its match score at a point in time
type PathwayScore struct {
	Pathway    string  `json:"pathway"`
	MatchScore float64 `json:"match_score"`
}

// SnapshotMetrics is the state of a candidate's profile when a snapshot was taken
type SnapshotMetrics struct {
	TotalSkills          int            `json:"total_skills"`
	SkillCategories      map[string]int `json:"skill_categories"`
	TopMatchScore        float64        `json:"top_match_score"`
	RecommendationsCount int            `json:"recommendations_count"`
	YearsExperience      float64        `json:"years_experience"`
	EducationLevel       string         `json:"education_level,omitempty"`
	Skills               []string       `json:"skills_list"`
	TopPathways          []PathwayScore `json:"top_pathways"`
}

// ProgressSnapshot records a candidate's analysis at one point in time
type ProgressSnapshot struct {
	ID            int             `json:"snapshot_id"`
	ReportID      string          `json:"report_id"`
	Date          time.Time       `json:"date"`
	SkillsCount   int             `json:"skills_count"`
	TopMatchScore float64         `json:"top_match_score"`
	NewSkills     []string        `json:"new_skills"`
	Metrics       SnapshotMetrics `json:"metrics"`
}

// LearnedSkill is a skill the candidate reports picking up after an analysis
type LearnedSkill struct {
	ID               int       `json:"id"`
	SkillName        string    `json:"skill_name" validate:"required"`
	DateLearned      time.Time `json:"date_learned"`
	ProficiencyLevel string    `json:"proficiency_level" validate:"oneof=beginner intermediate advanced expert"`
	Status           string    `json:"status" validate:"oneof=learning completed mastered"`
}

// VelocityPoint is the skill gain per month between two snapshots
type VelocityPoint struct {
	Period   string  `json:"period"`
	Velocity float64 `json:"velocity"`
}

// ScorePoint is the top match score, as a percentage, on a date
type ScorePoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// CategoryCount is the number of skills in one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// PathwayEvolution holds the top pathway scores, as percentages, of one snapshot
type PathwayEvolution struct {
	Date   string             `json:"date"`
	Scores map[string]float64 `json:"scores"`
}

// ProficiencyEstimate projects the time to reach each seniority milestone
type ProficiencyEstimate struct {
	JuniorLevel  string  `json:"junior_level"`
	MidLevel     string  `json:"mid_level"`
	SeniorLevel  string  `json:"senior_level"`
	LearningRate float64 `json:"learning_rate,omitempty"`
}

// Insight is a short message about a candidate's progress
type Insight struct {
	Type    string `json:"type"` // positive, neutral, suggestion or info
	Message string `json:"message"`
}

// ProgressAnalytics summarises the growth between a candidate's snapshots
type ProgressAnalytics struct {
	SkillVelocity            float64             `json:"skill_velocity"`
	MatchImprovementRate     float64             `json:"match_improvement_rate"`
	TotalSkillsGained        int                 `json:"total_skills_gained"`
	TotalSnapshots           int                 `json:"total_snapshots"`
	AverageMatchScore        float64             `json:"average_match_score"`
	BestMatchPathway         string              `json:"best_match_pathway"`
	GrowthTrend              string              `json:"growth_trend"`
	SkillVelocityTrend       []VelocityPoint     `json:"skill_velocity_trend"`
	MatchScoreTrend          []ScorePoint        `json:"match_score_trend"`
	CategoryGrowth           []CategoryCount     `json:"category_growth"`
	LearningVelocity         map[string]float64  `json:"learning_velocity"`
	RecommendationsEvolution []PathwayEvolution  `json:"recommendations_evolution"`
	LearnedSkills            int                 `json:"learned_skills"`
	ProficiencyEstimates     ProficiencyEstimate `json:"proficiency_estimates"`
	Insights                 []Insight           `json:"insights"`
}
