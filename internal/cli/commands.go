package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trading-Journal-Backend/internal/database"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

func newMigrateCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cfg, err := openApp(rc, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			current, pending, err := database.Version(cmd.Context(), a.db)
			if err != nil {
				return err
			}
			if pending {
				return fmt.Errorf("migrations still pending at version %d", current)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: schema at version %d\n", cfg.Database.Path, current)
			return nil
		},
	}
}

func newImportCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import entries, and full exits, from a CSV file",
		Long: `Import reads a CSV file with the columns
  Stock, Market, Position, Entry Date, Entry Price, Qty
and optionally
  Stop Loss Price, Target Price, Exit Price, Exit Date.

Each row opens one entry. A row with both an exit price and an exit date is
also exited in full. Dates are YYYY-MM-DD or day-first (DD/MM/YYYY).
Failing rows are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer f.Close()

			a, _, err := openApp(rc, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.importS.Import(cmd.Context(), f)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderImportReport(report))
			return nil
		},
	}
}

func newEntriesCmd(rc *RootConfig) *cobra.Command {
	var market, symbol, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List entries with their derived metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := request.ParseEntryListParams(market, symbol, status, "", "", 0, 0)
			if err != nil {
				return err
			}

			a, _, err := openApp(rc, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			views, err := a.ledger.ListEntryViews(cmd.Context(), params.Filter, model.Page{Limit: limit})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderEntries(views))
			return nil
		},
	}

	cmd.Flags().StringVar(&market, "market", "", "only entries in this market")
	cmd.Flags().StringVar(&symbol, "symbol", "", "only entries for this symbol")
	cmd.Flags().StringVar(&status, "status", "", "open or closed")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries (0 for all)")

	return cmd
}

func newSummaryCmd(rc *RootConfig) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the monthly win/loss summary of closed entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := openApp(rc, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			rows, err := a.summary.GetMonthlySummary(cmd.Context(), year)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "only months of this year")

	return cmd
}

func newAuditCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check every entry against its exits",
		Long:  "Audit reports entries whose remaining quantity or open flag disagree with their exits. It exits non-zero when it finds any.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := openApp(rc, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.audit.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderAudit(report))
			if n := len(report.Findings); n > 0 {
				return fmt.Errorf("ledger audit found %d problem(s)", n)
			}
			return nil
		},
	}
}
