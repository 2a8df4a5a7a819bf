package gui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kele901/career-projector/internal/models"
)

var resultHeaders = []string{"Rank", "Name", "Top Pathway", "Score", "Trajectory", "Skills", "Roles"}

// resultRow is one line of the results table
type resultRow [7]string

func resultRows(reports []models.Report) []resultRow {
	rows := make([]resultRow, 0, len(reports))
	for i, r := range reports {
		pathway, score := "-", "-"
		if len(r.Recommendations) > 0 {
			pathway = r.Recommendations[0].Pathway
			score = fmt.Sprintf("%.2f", r.Recommendations[0].MatchScore)
		}
		trajectory := string(r.Trajectory.Type)
		if trajectory == "" {
			trajectory = "-"
		}
		rows = append(rows, resultRow{
			strconv.Itoa(i + 1),
			r.Name,
			pathway,
			score,
			trajectory,
			strconv.Itoa(len(r.Skills)),
			strconv.Itoa(len(r.WorkHistory)),
		})
	}
	return rows
}

// reportDetails renders the recommendations of one report for the details panel
func reportDetails(r models.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", r.Name)
	if r.Trajectory.Description != "" {
		fmt.Fprintf(&sb, "Career trajectory: %s\n", r.Trajectory.Description)
	}
	if len(r.Recommendations) == 0 {
		sb.WriteString("\nNo pathway reached the minimum match score.\n")
		return sb.String()
	}

	for i, rec := range r.Recommendations {
		fmt.Fprintf(&sb, "\n%d. %s (%.2f)\n", i+1, rec.Pathway, rec.MatchScore)
		if rec.Reasoning != "" {
			fmt.Fprintf(&sb, "   %s\n", rec.Reasoning)
		}
		if len(rec.RecommendedSkills) > 0 {
			fmt.Fprintf(&sb, "   Skills to learn: %s\n", strings.Join(rec.RecommendedSkills, ", "))
		}
		if rec.IsAIEnhanced {
			if raw, ok := rec.AIInsight["raw_insight"].(string); ok {
				fmt.Fprintf(&sb, "   AI insight: %s\n", raw)
			} else if best, ok := rec.AIInsight["best_pathway"].(string); ok {
				fmt.Fprintf(&sb, "   AI insight: %s\n", best)
			}
		}
	}
	return sb.String()
}

// scoringSettings parses the top N and minimum score fields of the settings form
func scoringSettings(topN, minScore string) (int, float64, error) {
	n, err := strconv.Atoi(strings.TrimSpace(topN))
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("top pathways must be a positive whole number")
	}
	s, err := strconv.ParseFloat(strings.TrimSpace(minScore), 64)
	if err != nil || s < 0 || s > 1 {
		return 0, 0, fmt.Errorf("minimum score must be between 0 and 1")
	}
	return n, s, nil
}
