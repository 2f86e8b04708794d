package seed

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	subscriptionUsecases "github.com/buildhomemart/homemart/internal/application/subscription/usecases"
	planseed "github.com/buildhomemart/homemart/internal/infrastructure/seed"
	"github.com/buildhomemart/homemart/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/buildhomemart/homemart/internal/interfaces/http"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

var (
	env      string
	planFile string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.AddCommand(newPlansCommand())

	return cmd
}

func newPlansCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Create or update subscription plans from a YAML catalogue",
		RunE:  runPlans,
	}

	cmd.Flags().StringVarP(&planFile, "file", "f", "configs/plans.yaml", "Path to the plan catalogue")

	return cmd
}

func runPlans(cmd *cobra.Command, args []string) error {
	plans, err := planseed.LoadPlanFile(planFile)
	if err != nil {
		return err
	}

	app, err := bootstrap.Open(cmd.Context(), bootstrap.ResolveEnv(env), false)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer app.Close()

	container := httpRouter.NewContainer(app.DB, nil, app.Config, app.Log)
	result := container.SeedPlans().Execute(cmd.Context(), subscriptionUsecases.SeedPlansCommand{Plans: plans})

	fmt.Fprintf(cmd.OutOrStdout(), "created: %s\nupdated: %s\n",
		strings.Join(result.Created, ", "), strings.Join(result.Updated, ", "))
	if !result.Success {
		return fmt.Errorf("%d plan(s) failed, catalogue not written: %s", len(result.Errors), strings.Join(result.Errors, "; "))
	}
	return nil
}
