package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Kele901/career-projector/internal/catalog"
	"github.com/Kele901/career-projector/internal/config"
)

var pathwaysCmd = &cobra.Command{
	Use:   "pathways",
	Short: "List the career pathways in the catalog",
	RunE:  runPathways,
}

var pathwaysJSON bool

func init() {
	pathwaysCmd.Flags().BoolVar(&pathwaysJSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(pathwaysCmd)
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		return catalog.Load(cfg.CatalogPath)
	}
	return catalog.Default()
}

func runPathways(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if pathwaysJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"pathways": c.Pathways()})
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATHWAY\tREQUIRED SKILLS")
	for _, p := range c.Pathways() {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, strings.Join(p.RequiredSkills, ", "))
	}
	return tw.Flush()
}
