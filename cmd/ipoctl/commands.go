package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	dashboarddto "ipo_backend/internal/feature/dashboard/transport/http/dto"
	datadto "ipo_backend/internal/feature/dataops/transport/http/dto"
	"ipo_backend/internal/feature/dataops/usecase"
	platformdb "ipo_backend/internal/platform/db"
)

// errResetNotConfirmed guards the destructive reset.
var errResetNotConfirmed = errors.New("reset deletes every company, application and setting; pass --yes to confirm")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ipoctl",
		Short: "Operate the IPO allotment store",
		Long: `ipoctl runs IPO operations directly against the database configured
by the same environment variables as the server (DB_DRIVER, DB_PATH, ...).

Available commands:
  migrate - create or update every table
  seed    - create a sample IPO with generated applicants
  allot   - run the allotment for a company
  refund  - calculate refunds for a company
  summary - print the dashboard summary
  export  - write a JSON or YAML export
  reset   - delete all data`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newAllotCmd(),
		newRefundCmd(),
		newSummaryCmd(),
		newExportCmd(),
		newResetCmd(),
	)
	return root
}

// withApp opens the store for the duration of run.
func withApp(migrate bool, run func(cmd *cobra.Command, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(migrate)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		Args:  cobra.NoArgs,
		RunE: withApp(true, func(cmd *cobra.Command, a *app) error {
			if err := platformdb.Migrate(a.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		}),
	}
}

func newSeedCmd() *cobra.Command {
	var applicants int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a sample IPO with generated applicants",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app) error {
			in := usecase.DefaultSeed(time.Now())
			in.Applicants = applicants
			res, err := a.uc.Data.Seed(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded company %d (%s) with %d applications for %d shares\n",
				res.Company.ID, res.Company.Name, res.Applications, res.SharesReq)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&applicants, "applicants", "n", 50, "number of applicants to generate")
	return cmd
}

func newAllotCmd() *cobra.Command {
	var companyID uint
	cmd := &cobra.Command{
		Use:   "allot",
		Short: "Run the allotment for a company (default: the active one)",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app) error {
			rep, err := a.uc.Allotment.Allot(cmd.Context(), companyID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rep)
		}),
	}
	cmd.Flags().UintVar(&companyID, "company", 0, "company id")
	return cmd
}

func newRefundCmd() *cobra.Command {
	var companyID uint
	cmd := &cobra.Command{
		Use:   "refund",
		Short: "Calculate refunds for a company (default: the active one)",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app) error {
			rep, err := a.uc.Allotment.Refund(cmd.Context(), companyID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rep)
		}),
	}
	cmd.Flags().UintVar(&companyID, "company", 0, "company id")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var companyID uint
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app) error {
			s, err := a.uc.Dashboard.Summary(cmd.Context(), companyID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dashboarddto.NewSummaryResponse(s))
		}),
	}
	cmd.Flags().UintVar(&companyID, "company", 0, "company id")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		reportType string
		format     string
		out        string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON or YAML export",
		Long: `Write the full export, or one report when --type is given
(allotments, applications, refunds, overview).`,
		Args: cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, a *app) error {
			format = strings.ToLower(format)
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q: use json or yaml", format)
			}

			s, err := a.uc.Data.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			var v any = datadto.NewFullExport(s)
			if reportType != "" {
				v = datadto.NewReport(reportType, s)
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if format == "yaml" {
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(v); err != nil {
					return err
				}
				return enc.Close()
			}
			return writeJSON(w, v)
		}),
	}
	cmd.Flags().StringVarP(&reportType, "type", "t", "", "report type")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			if !yes {
				return errResetNotConfirmed
			}
			return nil
		},
		RunE: withApp(false, func(cmd *cobra.Command, a *app) error {
			res, err := a.uc.Data.Reset(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
