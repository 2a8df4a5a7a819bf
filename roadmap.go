package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/skills"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Build a learning roadmap towards a pathway",
	Long: "Build a phased learning roadmap towards a pathway, either from a CV (--cv) " +
		"or from a list of skills the candidate already has (--skills).",
	RunE: runRoadmap,
}

var (
	roadmapPathway string
	roadmapCV      string
	roadmapSkills  []string
	roadmapYears   float64
)

func init() {
	roadmapCmd.Flags().StringVarP(&roadmapPathway, "pathway", "p", "", "Target pathway name (defaults to the top recommendation with --cv)")
	roadmapCmd.Flags().StringVar(&roadmapCV, "cv", "", "CV file to read owned skills and experience from")
	roadmapCmd.Flags().StringSliceVar(&roadmapSkills, "skills", nil, "Skills already owned, comma separated")
	roadmapCmd.Flags().Float64Var(&roadmapYears, "years", 0, "Years of experience")

	rootCmd.AddCommand(roadmapCmd)
}

func runRoadmap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, _, a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var rm models.Roadmap
	if roadmapCV != "" {
		report, err := a.AnalyzeFile(ctx, roadmapCV)
		if err != nil {
			return err
		}
		rm, err = a.RoadmapForReport(report.ID, roadmapPathway)
		if err != nil {
			return err
		}
	} else {
		if roadmapPathway == "" {
			return fmt.Errorf("--pathway is required without --cv")
		}
		owned := make([]models.SkillRecord, 0, len(roadmapSkills))
		for _, s := range roadmapSkills {
			owned = append(owned, models.SkillRecord{Name: skills.DisplayName(s)})
		}
		rm, err = a.Roadmap(roadmapPathway, owned, roadmapYears)
		if err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rm)
}
