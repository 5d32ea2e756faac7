package export

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/subtrack/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/subtrack/internal/interfaces/http"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the renewal report as an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if output == "" {
				output = fmt.Sprintf("renewals-%s.xlsx", biztime.FormatDate(biztime.Today()))
			}
			return run(ctx, cmd, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default: renewals-<date>.xlsx)")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *bootstrap.Options, path string) error {
	rt, err := bootstrap.Boot(ctx, opts, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	container, err := httpRouter.NewContainer(rt.Config, rt.DB, rt.Redis, rt.Log)
	if err != nil {
		return err
	}
	defer container.Shutdown()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := container.RenewalExport().Execute(ctx, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d mappings to %s\n", n, path)
	return nil
}
