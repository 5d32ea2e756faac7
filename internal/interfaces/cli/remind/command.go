package remind

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orris-inc/subtrack/internal/application/reminder/dto"
	"github.com/orris-inc/subtrack/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/subtrack/internal/interfaces/http"
)

const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	var (
		dryRun bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run one reminder sweep",
		Long: `Find every mapping whose reminder is due today and email its customer.
With --dry-run nothing is sent; the due list is printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormat(output) {
				return fmt.Errorf("unsupported output format %q (text, yaml, json)", output)
			}
			return run(cmd.Context(), cmd.OutOrStdout(), opts, dryRun, output)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List due reminders without sending them")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Report format: text, yaml or json")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts *bootstrap.Options, dryRun bool, format string) error {
	if ctx == nil {
		ctx = context.Background()
	}

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

	report, err := container.ReminderSweep().Execute(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("reminder sweep failed: %w", err)
	}
	return WriteReport(out, report, format)
}

func validFormat(format string) bool {
	switch format {
	case formatText, formatYAML, formatJSON:
		return true
	}
	return false
}

// WriteReport renders a sweep report in the requested format.
func WriteReport(w io.Writer, report *dto.SweepReport, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return writeText(w, report)
	}
}

func writeText(w io.Writer, report *dto.SweepReport) error {
	mode := "sent"
	if report.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(w, "Reminder sweep (%s) at %s\n", mode, report.RanAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "checked=%d due=%d sent=%d failed=%d skipped=%d\n",
		report.Checked, report.Due, report.Sent, report.Failed, report.Skipped)

	if len(report.Items) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nMAPPING\tCUSTOMER\tPRODUCT\tEXPIRY\tRESULT")
	for _, it := range report.Items {
		result := it.Result
		if it.Error != "" {
			result += ": " + it.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.Mapping, it.Customer, it.Product, it.Expiry, result)
	}
	return tw.Flush()
}
