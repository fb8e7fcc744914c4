package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"creatorsite/internal/config"
	"creatorsite/internal/domain"
	"creatorsite/internal/leads"
	"creatorsite/internal/logging"
	"creatorsite/internal/prompts"
	"creatorsite/internal/store"
	"creatorsite/internal/util"
)

// cli holds the flags shared by every subcommand.
type cli struct {
	databaseURL string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "leadctl",
		Short:         "Manage brand-partnership leads from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.databaseURL, "database-url", "", "override DATABASE_URL")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.importCmd(),
		c.statsCmd(),
		c.promptCmd(),
		hashPasswordCmd(),
	)
	return root
}

// open loads configuration and opens the record store.
func (c *cli) open() (store.Store, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if c.databaseURL != "" {
		cfg.Database.URL = c.databaseURL
	}

	logger, err := logging.New(c.logLevel, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}

	s, err := store.Open(cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, logger, nil
}

func (c *cli) importCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
		source string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON array of leads pasted from an assistant",
		Long: `Import leads from a file holding the assistant's answer.

Code fences and surrounding prose are ignored. The whole batch is stored,
or nothing is if any lead lacks a company_name. Use --file - to read stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			s, logger, err := c.open()
			if err != nil {
				return err
			}
			defer s.Close()

			m := leads.NewManager(s, logger)
			out := cmd.OutOrStdout()

			if dryRun {
				candidates, err := m.Preview(text, domain.LeadSource(source))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d leads would be imported:\n", len(candidates))
				for i, cand := range candidates {
					fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, cand.CompanyName, cand.Category)
				}
				return nil
			}

			res, err := m.Import(contextOf(cmd), domain.LeadSource(source), text)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d leads\n", res.Count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file to import (- for stdin)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and list leads without storing them")
	cmd.Flags().StringVar(&source, "source", string(domain.SourceAISearch), "lead source recorded on every lead")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count leads per pipeline status",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, logger, err := c.open()
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := leads.NewManager(s, logger).Stats(contextOf(cmd))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STATUS\tCOUNT")
			for _, st := range domain.Statuses {
				fmt.Fprintf(tw, "%s\t%d\n", st, stats.ByStatus[st])
			}
			fmt.Fprintf(tw, "total\t%d\n", stats.Total)
			return tw.Flush()
		},
	}
}

func (c *cli) promptCmd() *cobra.Command {
	var profilePath string

	engine := func() (*prompts.Engine, error) {
		path := profilePath
		if path == "" {
			path = os.Getenv("CREATOR_PROFILE_PATH")
		}
		profile, err := prompts.LoadProfile(path)
		if err != nil {
			return nil, err
		}
		return prompts.NewEngine(profile)
	}

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render a prompt to paste into an assistant",
	}
	cmd.PersistentFlags().StringVar(&profilePath, "profile", "", "creator profile YAML (defaults to the built-in profile)")

	var (
		category string
		count    int
	)
	discovery := &cobra.Command{
		Use:   "discovery",
		Short: "Ask for new brands in a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine()
			if err != nil {
				return err
			}
			text, err := e.LeadDiscovery(category, count)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	discovery.Flags().StringVar(&category, "category", "", "lead category")
	discovery.Flags().IntVar(&count, "count", prompts.DefaultLeadCount, "number of brands to ask for")
	_ = discovery.MarkFlagRequired("category")

	var brand string
	competitor := &cobra.Command{
		Use:   "competitor",
		Short: "Ask for brands similar to a known partner",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine()
			if err != nil {
				return err
			}
			text, err := e.CompetitorLookup(brand)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	competitor.Flags().StringVar(&brand, "brand", "", "brand to find competitors of")
	_ = competitor.MarkFlagRequired("brand")

	cmd.AddCommand(discovery, competitor)
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash for DASHBOARD_PASSWORD_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && err != io.EOF {
				return fmt.Errorf("failed to read password: %w", err)
			}
			hash, err := util.HashPassword(strings.TrimRight(line, "\r\n"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readInput(stdin io.Reader, file string) (string, error) {
	if file == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(b), nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
