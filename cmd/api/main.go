package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"commerce-service/cmd/api/app"
	"commerce-service/cmd/api/server"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API, gRPC service, event consumers and scheduler",
		RunE:  runServe,
	}

	root := &cobra.Command{
		Use:           "commerce-service",
		Short:         "Customer, product, inventory and order back office",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(serve, &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Migrate(cmd.Context())
		},
	})
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := server.WithSignal(cmd.Context())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
