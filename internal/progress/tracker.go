// Package progress records snapshots of a candidate's analyses over time and derives
// growth analytics from them. State is kept in memory for the life of the process.
package progress

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Kele901/career-projector/internal/models"
)

const (
	maxSnapshots = 100
	topPathways  = 5

	trendInsufficient  = "insufficient_data"
	trendAccelerating  = "accelerating"
	trendDeclining     = "declining"
	trendSteady        = "steady"
	bestPathwayUnknown = "N/A"
)

var (
	// ErrNoCandidate is returned for an empty candidate key
	ErrNoCandidate = errors.New("candidate is required")
	// ErrInvalidSkill is returned when a learned skill fails validation
	ErrInvalidSkill = errors.New("invalid learned skill")
)

var validate = validator.New()

var defaultEstimate = models.ProficiencyEstimate{
	JuniorLevel: "12-18 months",
	MidLevel:    "24-36 months",
	SeniorLevel: "48-60 months",
}

type history struct {
	snapshots []models.ProgressSnapshot
	learned   []models.LearnedSkill
}

// Tracker keeps per-candidate progress snapshots and learned skills
type Tracker struct {
	mu         sync.RWMutex
	candidates map[string]*history
	// reports maps report IDs to the candidate they were captured for
	reports map[string]string
	nextID  int
	now     func() time.Time
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock sets the clock used to date snapshots and learned skills
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates an empty tracker
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		candidates: make(map[string]*history),
		reports:    make(map[string]string),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CandidateKey folds a candidate name into the key snapshots are grouped by
func CandidateKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// KeyFor returns the candidate key of a report. Reports without a name are tracked on
// their own ID.
func KeyFor(r models.Report) string {
	if key := CandidateKey(r.Name); key != "" {
		return key
	}
	return r.ID
}

// Candidate returns the key a report was captured under
func (t *Tracker) Candidate(reportID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	key, ok := t.reports[reportID]
	return key, ok
}

// Capture records the current state of a report. New skills are those absent from the
// candidate's previous snapshot.
func (t *Tracker) Capture(report models.Report) models.ProgressSnapshot {
	metrics := snapshotMetrics(report)
	key := KeyFor(report)

	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.history(key)
	newSkills := make([]string, 0)
	if n := len(h.snapshots); n > 0 {
		prev := make(map[string]bool, len(h.snapshots[n-1].Metrics.Skills))
		for _, s := range h.snapshots[n-1].Metrics.Skills {
			prev[strings.ToLower(s)] = true
		}
		for _, s := range metrics.Skills {
			if !prev[strings.ToLower(s)] {
				newSkills = append(newSkills, s)
			}
		}
	}

	t.nextID++
	snap := models.ProgressSnapshot{
		ID:            t.nextID,
		ReportID:      report.ID,
		Date:          t.now().UTC(),
		SkillsCount:   metrics.TotalSkills,
		TopMatchScore: metrics.TopMatchScore,
		NewSkills:     newSkills,
		Metrics:       metrics,
	}

	h.snapshots = append(h.snapshots, snap)
	if len(h.snapshots) > maxSnapshots {
		h.snapshots = slices.Clone(h.snapshots[len(h.snapshots)-maxSnapshots:])
	}
	t.reports[report.ID] = key
	return snap
}

// Timeline returns a candidate's snapshots, oldest first
func (t *Tracker) Timeline(candidate string) []models.ProgressSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, ok := t.candidates[candidate]
	if !ok {
		return []models.ProgressSnapshot{}
	}
	return slices.Clone(h.snapshots)
}

// TrackLearnedSkill records a skill the candidate is learning. Level defaults to beginner
// and status to learning.
func (t *Tracker) TrackLearnedSkill(candidate string, skill models.LearnedSkill) (models.LearnedSkill, error) {
	if candidate == "" {
		return models.LearnedSkill{}, ErrNoCandidate
	}

	skill.SkillName = strings.TrimSpace(skill.SkillName)
	if skill.ProficiencyLevel == "" {
		skill.ProficiencyLevel = "beginner"
	}
	if skill.Status == "" {
		skill.Status = "learning"
	}
	skill.ProficiencyLevel = strings.ToLower(skill.ProficiencyLevel)
	skill.Status = strings.ToLower(skill.Status)

	if err := validate.Struct(skill); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return models.LearnedSkill{}, fmt.Errorf("%w: %s failed %s", ErrInvalidSkill, fe.Field(), fe.Tag())
		}
		return models.LearnedSkill{}, fmt.Errorf("%w: %v", ErrInvalidSkill, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	skill.ID = t.nextID
	skill.DateLearned = t.now().UTC()

	h := t.history(candidate)
	h.learned = append(h.learned, skill)
	return skill, nil
}

// LearnedSkills returns a candidate's learned skills, most recent first
func (t *Tracker) LearnedSkills(candidate string) []models.LearnedSkill {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, ok := t.candidates[candidate]
	if !ok {
		return []models.LearnedSkill{}
	}
	out := slices.Clone(h.learned)
	slices.Reverse(out)
	return out
}

// Analytics derives growth metrics from a candidate's snapshots
func (t *Tracker) Analytics(candidate string) models.ProgressAnalytics {
	t.mu.RLock()
	var snaps []models.ProgressSnapshot
	learned := 0
	if h, ok := t.candidates[candidate]; ok {
		snaps = slices.Clone(h.snapshots)
		learned = len(h.learned)
	}
	t.mu.RUnlock()

	return analyze(snaps, learned)
}

func (t *Tracker) history(key string) *history {
	h, ok := t.candidates[key]
	if !ok {
		h = &history{}
		t.candidates[key] = h
	}
	return h
}

func snapshotMetrics(r models.Report) models.SnapshotMetrics {
	m := models.SnapshotMetrics{
		TotalSkills:          len(r.Skills),
		SkillCategories:      make(map[string]int),
		TopMatchScore:        r.TopScore(),
		RecommendationsCount: len(r.Recommendations),
		YearsExperience:      r.YearsOfExperience(),
		EducationLevel:       r.Profile.EducationLevel,
		Skills:               make([]string, 0, len(r.Skills)),
		TopPathways:          make([]models.PathwayScore, 0, topPathways),
	}
	for _, s := range r.Skills {
		category := string(s.Category)
		if category == "" {
			category = string(models.CategoryGeneral)
		}
		m.SkillCategories[category]++
		m.Skills = append(m.Skills, s.Name)
	}
	for i, rec := range r.Recommendations {
		if i == topPathways {
			break
		}
		m.TopPathways = append(m.TopPathways, models.PathwayScore{Pathway: rec.Pathway, MatchScore: rec.MatchScore})
	}
	return m
}

func analyze(snaps []models.ProgressSnapshot, learned int) models.ProgressAnalytics {
	a := models.ProgressAnalytics{
		TotalSnapshots:           len(snaps),
		BestMatchPathway:         bestPathwayUnknown,
		GrowthTrend:              trendInsufficient,
		SkillVelocityTrend:       []models.VelocityPoint{},
		MatchScoreTrend:          []models.ScorePoint{},
		CategoryGrowth:           []models.CategoryCount{},
		LearningVelocity:         map[string]float64{},
		RecommendationsEvolution: []models.PathwayEvolution{},
		LearnedSkills:            learned,
		ProficiencyEstimates:     defaultEstimate,
	}
	if len(snaps) == 0 {
		a.Insights = []models.Insight{{
			Type:    "info",
			Message: "Start tracking your progress by analysing your CV and capturing a snapshot.",
		}}
		return a
	}

	first, last := snaps[0], snaps[len(snaps)-1]
	if len(last.Metrics.TopPathways) > 0 {
		a.BestMatchPathway = last.Metrics.TopPathways[0].Pathway
	}

	total := 0.0
	for _, s := range snaps {
		total += s.TopMatchScore
		a.MatchScoreTrend = append(a.MatchScoreTrend, models.ScorePoint{
			Date:  s.Date.Format("2006-01-02"),
			Score: round(s.TopMatchScore*100, 1),
		})
		scores := make(map[string]float64, len(s.Metrics.TopPathways))
		for _, p := range s.Metrics.TopPathways {
			scores[p.Pathway] = round(p.MatchScore*100, 1)
		}
		a.RecommendationsEvolution = append(a.RecommendationsEvolution, models.PathwayEvolution{
			Date:   s.Date.Format("Jan 02"),
			Scores: scores,
		})
	}
	a.AverageMatchScore = round(total/float64(len(snaps)), 4)

	categories := make([]string, 0, len(last.Metrics.SkillCategories))
	for c := range last.Metrics.SkillCategories {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		a.CategoryGrowth = append(a.CategoryGrowth, models.CategoryCount{Category: c, Count: last.Metrics.SkillCategories[c]})
	}

	if len(snaps) < 2 {
		a.Insights = insights(0, 0, len(snaps), learned)
		return a
	}

	span := monthsBetween(first.Date, last.Date)
	a.TotalSkillsGained = last.SkillsCount - first.SkillsCount
	a.SkillVelocity = round(float64(a.TotalSkillsGained)/span, 2)
	a.MatchImprovementRate = round((last.TopMatchScore-first.TopMatchScore)/float64(len(snaps)-1), 4)

	for i := 1; i < len(snaps); i++ {
		a.SkillVelocityTrend = append(a.SkillVelocityTrend, models.VelocityPoint{
			Period:   snaps[i-1].Date.Format("Jan 2006") + " - " + snaps[i].Date.Format("Jan 2006"),
			Velocity: round(velocity(snaps[i-1], snaps[i]), 2),
		})
	}

	a.GrowthTrend = trendSteady
	if n := len(snaps); n >= 3 {
		recent := velocity(snaps[n-2], snaps[n-1])
		early := velocity(snaps[0], snaps[1])
		switch {
		case recent > early*1.2:
			a.GrowthTrend = trendAccelerating
		case recent < early*0.8:
			a.GrowthTrend = trendDeclining
		}
	}

	for _, c := range categories {
		a.LearningVelocity[c] = round(float64(last.Metrics.SkillCategories[c])/span, 2)
	}

	a.ProficiencyEstimates = estimate(first, last)
	improvement := round((last.TopMatchScore-first.TopMatchScore)*100, 1)
	a.Insights = insights(a.TotalSkillsGained, improvement, len(snaps), learned)
	return a
}

// monthsBetween counts whole days in 30-day months, at least one
func monthsBetween(from, to time.Time) float64 {
	days := math.Floor(to.Sub(from).Hours() / 24)
	return math.Max(days/30, 1)
}

func velocity(from, to models.ProgressSnapshot) float64 {
	return float64(to.SkillsCount-from.SkillsCount) / monthsBetween(from.Date, to.Date)
}

// estimate projects the months needed to reach 20, 40 and 60 skills at the observed rate
func estimate(first, last models.ProgressSnapshot) models.ProficiencyEstimate {
	gained := last.SkillsCount - first.SkillsCount
	elapsed := math.Floor(last.Date.Sub(first.Date).Hours()/24) / 30
	if elapsed <= 0 || gained <= 0 {
		return defaultEstimate
	}

	rate := float64(gained) / elapsed
	span := func(target int) string {
		months := float64(max(target-last.SkillsCount, 0)) / rate
		return fmt.Sprintf("%d-%d months", int(months), int(months*1.2))
	}
	return models.ProficiencyEstimate{
		JuniorLevel:  span(20),
		MidLevel:     span(40),
		SeniorLevel:  span(60),
		LearningRate: round(rate, 2),
	}
}

func insights(gained int, improvementPct float64, snapshots, learned int) []models.Insight {
	var out []models.Insight

	switch {
	case gained > 10:
		out = append(out, models.Insight{Type: "positive", Message: fmt.Sprintf("Great progress! You've gained %d new skills.", gained)})
	case gained > 5:
		out = append(out, models.Insight{Type: "neutral", Message: fmt.Sprintf("Good progress! You've added %d skills to your profile.", gained)})
	default:
		out = append(out, models.Insight{Type: "suggestion", Message: "Consider adding more skills to increase your career opportunities."})
	}

	if improvementPct > 10 {
		out = append(out, models.Insight{Type: "positive", Message: fmt.Sprintf("Your match scores have improved by %.1f%%!", improvementPct)})
	}
	if snapshots >= 3 {
		out = append(out, models.Insight{Type: "positive", Message: "You're consistently tracking your progress. Keep it up!"})
	}
	if learned > 0 {
		out = append(out, models.Insight{Type: "neutral", Message: fmt.Sprintf("You are working on %d new skills.", learned)})
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
