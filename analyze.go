package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Kele901/career-projector/internal/agent"
	"github.com/Kele901/career-projector/internal/export"
	"github.com/Kele901/career-projector/internal/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file...]",
	Short: "Analyse one or more CVs and print pathway recommendations",
	Long: "Analyse CV files (.txt, .pdf, .docx) and print ranked career pathways. " +
		"Use - to read plain text from stdin. Several files are ranked by their best match score.",
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeName   string
	analyzeFormat string
	analyzeOut    string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "Candidate name when reading from stdin")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "table", "Output format: table, json or xlsx")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Output file (required for xlsx, defaults to stdout otherwise)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, l, a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	reports := make([]models.Report, 0, len(args))
	for _, arg := range args {
		var (
			report models.Report
			err    error
		)
		if arg == "-" {
			data, rerr := io.ReadAll(cmd.InOrStdin())
			if rerr != nil {
				return fmt.Errorf("failed to read stdin: %w", rerr)
			}
			name := analyzeName
			if name == "" {
				name = "Candidate"
			}
			report, err = a.AnalyzeText(ctx, name, string(data))
		} else {
			report, err = a.AnalyzeFile(ctx, arg)
		}
		if err != nil {
			if len(args) == 1 {
				return err
			}
			l.Warn("skipping document", "file", arg, "error", err)
			continue
		}
		reports = append(reports, report)
	}
	if len(reports) == 0 {
		return agent.ErrNoResults
	}
	agent.RankReports(reports)

	return writeReports(cmd.OutOrStdout(), reports, analyzeFormat, analyzeOut)
}

// writeReports renders reports as a table, JSON or an Excel workbook
func writeReports(stdout io.Writer, reports []models.Report, format, out string) error {
	switch strings.ToLower(format) {
	case "xlsx", "excel":
		if out == "" {
			return fmt.Errorf("--out is required for xlsx output")
		}
		path, err := export.ExportToExcel(reports, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Report written to %s\n", path)
		return nil
	case "json", "table":
	default:
		return fmt.Errorf("unknown format %q (want table, json or xlsx)", format)
	}

	w := stdout
	if out != "" {
		f, err := os.Create(filepath.Clean(out))
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if strings.ToLower(format) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	}
	return printTable(w, reports)
}

func printTable(w io.Writer, reports []models.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t(%d skills, %d roles, trajectory: %s)\n", r.Name, len(r.Skills), len(r.WorkHistory), r.Trajectory.Type)
		if len(r.Recommendations) == 0 {
			fmt.Fprintln(tw, "  no pathway reached the minimum score")
		}
		for i, rec := range r.Recommendations {
			fmt.Fprintf(tw, "  %d.\t%s\t%.2f\t%s\n", i+1, rec.Pathway, rec.MatchScore, strings.Join(rec.RecommendedSkills, ", "))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
