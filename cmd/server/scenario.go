package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-campaign/internal/scenario"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Run Lua battle scenarios",
}

var scenarioRunCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Run scenario scripts against an in-process battle stack",
	Long: `Run each scenario script in order and stop at the first failure. Use --seed
to replay random effects exactly.

  scenario run scenarios/slow_and_regen.lua
  scenario run --seed 42 --parallel scenarios/*.lua`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScenarios,
}

func init() {
	scenarioRunCmd.Flags().String("repo", "memory", "battle store: memory or redis")
	addRuntimeFlags(scenarioRunCmd)
	scenarioCmd.AddCommand(scenarioRunCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	app, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer app.close()

	runner, err := scenario.NewRunner(&scenario.RunnerConfig{Service: app.service})
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, path := range args {
		sc, err := scenario.LoadFile(path)
		if err != nil {
			return err
		}

		result, err := runner.Run(ctx, sc)
		if err != nil {
			fmt.Printf("✗ %s (seed %d)\n", sc.Name, app.seed)
			return err
		}
		fmt.Printf("✓ %s: %d rounds, %d expectations\n", sc.Name, len(result.Reports), result.Expectations)
	}

	fmt.Printf("\n%d scenarios passed (seed %d)\n", len(args), app.seed)
	return nil
}
