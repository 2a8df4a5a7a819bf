package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Kele901/career-projector/internal/agent"
	"github.com/Kele901/career-projector/internal/config"
	"github.com/Kele901/career-projector/internal/gui"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop application",
	RunE:  runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := newLogger(cfg)

	app, err := gui.NewApp(cfg, func(c *config.Config) (*agent.CareerAgent, error) {
		return newAgent(context.Background(), c, l)
	}, l)
	if err != nil {
		return err
	}
	app.Run()
	return nil
}
