package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiaot623/callbuddy/internal/domain"
	"github.com/xiaot623/callbuddy/internal/service"
	transporthttp "github.com/xiaot623/callbuddy/internal/transport/http"
)

func newMorningCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "morning",
		Short: "Place the morning goal-setting call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFlow(cmd, (*service.Service).RunMorning)
		},
	}
}

func newEveningCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "evening",
		Short: "Carry the morning goals into the evening assistant and place the review call",
		Long: `Runs the evening flow:

  VALIDATING -> RESOLVING -> UPDATING -> CALLING -> DONE

The latest ended morning call to the target number is looked up on the
platform. Its structured result replaces the evening assistant's instructions,
then the evening call is placed. If no morning result exists the run aborts
without updating the assistant or dialing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFlow(cmd, (*service.Service).RunEvening)
		},
	}
}

func (a *app) runFlow(cmd *cobra.Command, flow func(*service.Service, context.Context) *domain.FlowOutcome) error {
	ctx := cmd.Context()
	svc, cleanup, err := a.newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	outcome := flow(svc, ctx)
	fmt.Fprintln(cmd.OutOrStdout(), RenderOutcome(outcome))
	if outcome.Aborted() {
		return &reportedError{err: outcome.Err}
	}
	return nil
}

func newInspectCmd(a *app) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the latest morning result without changing anything",
		Long: `Looks up the latest ended morning call to the target number and prints its
structured result and parsed goals. Nothing is written and no call is placed.

With --wait, polls until a morning call from today (within the configured
tolerance) has a result, using VAPI_POLL_INTERVAL_SECONDS and
VAPI_POLL_TIMEOUT_SECONDS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.newService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var inspection *service.Inspection
			if wait {
				inspection, err = svc.InspectWait(ctx, svc.WaitOptionsFromConfig())
			} else {
				inspection, err = svc.Inspect(ctx)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), RenderInspection(inspection))
			if !inspection.Resolution.Found() {
				return &reportedError{err: domain.ErrNoPriorResult}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Poll until today's morning call has a result")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only inspector API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.newService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if !cmd.Flags().Changed("port") {
				port = a.cfg.HTTPPort
			}
			e := transporthttp.NewServer(svc, a.logger)
			return transporthttp.Serve(ctx, e, port, a.logger)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Listen port (defaults to HTTP_PORT)")
	return cmd
}
