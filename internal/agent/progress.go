package agent

import (
	"fmt"

	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/progress"
)

// CaptureProgress snapshots a stored report into its candidate's progress history
func (a *CareerAgent) CaptureProgress(reportID string) (models.ProgressSnapshot, error) {
	report, err := a.GetReport(reportID)
	if err != nil {
		return models.ProgressSnapshot{}, err
	}

	snap := a.progress.Capture(report)
	a.logger.Info("captured progress snapshot",
		"report_id", reportID,
		"candidate", progress.KeyFor(report),
		"new_skills", len(snap.NewSkills))
	return snap, nil
}

// ProgressTimeline returns the snapshots of the candidate behind a report, oldest first
func (a *CareerAgent) ProgressTimeline(reportID string) ([]models.ProgressSnapshot, error) {
	candidate, err := a.candidate(reportID)
	if err != nil {
		return nil, err
	}
	return a.progress.Timeline(candidate), nil
}

// ProgressAnalytics returns growth analytics for the candidate behind a report
func (a *CareerAgent) ProgressAnalytics(reportID string) (models.ProgressAnalytics, error) {
	candidate, err := a.candidate(reportID)
	if err != nil {
		return models.ProgressAnalytics{}, err
	}
	return a.progress.Analytics(candidate), nil
}

// TrackLearnedSkill records a skill the candidate behind a report is learning
func (a *CareerAgent) TrackLearnedSkill(reportID string, skill models.LearnedSkill) (models.LearnedSkill, error) {
	candidate, err := a.candidate(reportID)
	if err != nil {
		return models.LearnedSkill{}, err
	}
	return a.progress.TrackLearnedSkill(candidate, skill)
}

// LearnedSkills returns the learned skills of the candidate behind a report
func (a *CareerAgent) LearnedSkills(reportID string) ([]models.LearnedSkill, error) {
	candidate, err := a.candidate(reportID)
	if err != nil {
		return nil, err
	}
	return a.progress.LearnedSkills(candidate), nil
}

// candidate resolves a report ID to its candidate key. Reports that have been evicted
// still resolve when a snapshot was captured for them.
func (a *CareerAgent) candidate(reportID string) (string, error) {
	if report, err := a.GetReport(reportID); err == nil {
		return progress.KeyFor(report), nil
	}
	if key, ok := a.progress.Candidate(reportID); ok {
		return key, nil
	}
	return "", fmt.Errorf("%w: %s", ErrReportNotFound, reportID)
}
