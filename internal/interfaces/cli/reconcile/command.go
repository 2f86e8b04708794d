// Package reconcile runs a single expired-payment sweep from the command line,
// for cron hosts that do not run the server.
package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildhomemart/homemart/internal/infrastructure/scheduler"
	"github.com/buildhomemart/homemart/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/buildhomemart/homemart/internal/interfaces/http"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Expire stale pending payments once",
		Long:  `Cancel pending payments older than the expiry window together with their subscriptions, then exit.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.Open(cmd.Context(), bootstrap.ResolveEnv(env), true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer app.Close()

	container := httpRouter.NewContainer(app.DB, app.Redis, app.Config, app.Log)

	result, err := container.PaymentSweep().RunOnce(cmd.Context())
	if errors.Is(err, scheduler.ErrSweepInProgress) {
		app.Log.Warnw("another sweep holds the lock, nothing to do")
		return nil
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !result.Success {
		return fmt.Errorf("sweep failed: %s", result.Error)
	}
	return nil
}
