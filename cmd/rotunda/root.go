package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rotunda/internal/app"
	dmodels "rotunda/internal/district/models"
	lmodels "rotunda/internal/legislation/models"
	"rotunda/internal/platform/config"
	"rotunda/internal/platform/logger"
	"rotunda/internal/upstream/cache"
	dErrors "rotunda/pkg/domain-errors"
)

// Set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type legislationService interface {
	Activity(ctx context.Context, q lmodels.FeedQuery) (lmodels.Page[lmodels.FeedItem], error)
	Laws(ctx context.Context, q lmodels.FeedQuery) (lmodels.Page[lmodels.FeedItem], error)
	BillDetail(ctx context.Context, congress int, billType, number string) (*lmodels.BillDetail, error)
}

type districtService interface {
	Lookup(ctx context.Context, address string) (*dmodels.LookupResult, error)
}

type services struct {
	legislation legislationService
	district    districtService
}

// serviceFactory builds services from the loaded configuration. Tests swap
// it for fakes.
type serviceFactory func(cfg config.Config, needCivic bool) (services, error)

type cli struct {
	configPath string
	theme      string
	logLevel   string

	factory serviceFactory
	out     io.Writer
}

func newRootCmd(factory serviceFactory) *cobra.Command {
	c := &cli{factory: factory}

	cmd := &cobra.Command{
		Use:   "rotunda",
		Short: "Find your representative and follow legislation in Congress",
		Long: `rotunda resolves a street address to its congressional district and
shows the sitting representative with their sponsored and cosponsored bills.
It also browses recent bill activity, enacted laws and bill summaries.

Requires CONGRESS_API_KEY, plus CIVIC_API_KEY for district lookups.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c.out = cmd.OutOrStdout()
			_, err := parseTheme(c.theme)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("ROTUNDA_CONFIG"), "YAML config file")
	cmd.PersistentFlags().StringVar(&c.theme, "theme", string(ThemeDark), "Colour theme (dark, light)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		c.districtCmd(),
		c.billsCmd(),
		c.lawsCmd(),
		c.billCmd(),
		versionCmd(),
	)
	return cmd
}

// setup loads configuration and builds the services and renderer.
func (c *cli) setup(needCivic bool) (services, *renderer, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return services{}, nil, err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	svcs, err := c.factory(cfg, needCivic)
	if err != nil {
		return services{}, nil, err
	}
	theme, err := parseTheme(c.theme)
	if err != nil {
		return services{}, nil, err
	}
	r, err := newRenderer(c.out, theme)
	if err != nil {
		return services{}, nil, err
	}
	return svcs, r, nil
}

func (c *cli) districtCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "district <address>",
		Short:   "Show the representative for an address",
		Example: `  rotunda district 1600 Pennsylvania Ave NW, Washington, DC`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, r, err := c.setup(true)
			if err != nil {
				return err
			}
			res, err := svcs.district.Lookup(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			r.District(res)
			return nil
		},
	}
}

func (c *cli) billsCmd() *cobra.Command {
	var chamber string
	var page int
	cmd := &cobra.Command{
		Use:   "bills",
		Short: "Browse recent bill activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := lmodels.ParseChamber(chamber)
			if err != nil {
				return err
			}
			svcs, r, err := c.setup(false)
			if err != nil {
				return err
			}
			res, err := svcs.legislation.Activity(cmd.Context(), lmodels.FeedQuery{Chamber: ch, Page: page})
			if err != nil {
				return err
			}
			r.Feed(feedHeading("Bill activity", ch, 0), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&chamber, "chamber", "", "Filter by chamber (house, senate)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func (c *cli) lawsCmd() *cobra.Command {
	var chamber string
	var page, congress int
	cmd := &cobra.Command{
		Use:   "laws",
		Short: "Browse bills that became law",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := lmodels.ParseChamber(chamber)
			if err != nil {
				return err
			}
			svcs, r, err := c.setup(false)
			if err != nil {
				return err
			}
			res, err := svcs.legislation.Laws(cmd.Context(), lmodels.FeedQuery{Congress: congress, Chamber: ch, Page: page})
			if err != nil {
				return err
			}
			r.Feed(feedHeading("Enacted laws", ch, congress), res)
			return nil
		},
	}
	cmd.Flags().IntVar(&congress, "congress", 0, "Congress number (default from config)")
	cmd.Flags().StringVar(&chamber, "chamber", "", "Filter by chamber (house, senate)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func (c *cli) billCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "bill <congress> <type> <number>",
		Short:   "Show a bill and its summary",
		Example: `  rotunda bill 118 hr 815`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			congress, err := strconv.Atoi(args[0])
			if err != nil {
				return dErrors.New(dErrors.CodeValidation, "congress must be a number")
			}
			svcs, r, err := c.setup(false)
			if err != nil {
				return err
			}
			detail, err := svcs.legislation.BillDetail(cmd.Context(), congress, args[1], args[2])
			if err != nil {
				return err
			}
			return r.Bill(detail)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rotunda %s\n", Version)
		},
	}
}

func feedHeading(name string, ch lmodels.Chamber, congress int) string {
	h := name
	if congress > 0 {
		h += fmt.Sprintf(" of the %s Congress", ordinal(congress))
	}
	if ch != lmodels.ChamberAll {
		h += " · " + string(ch)
	}
	return h
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// describe turns coded errors into their message for the terminal.
func describe(err error) string {
	if de, ok := dErrors.As(err); ok {
		return de.Message
	}
	return err.Error()
}

// defaultServices talks to the live APIs with an in-process response cache.
func defaultServices(cfg config.Config, needCivic bool) (services, error) {
	var missing []error
	if cfg.Congress.APIKey == "" {
		missing = append(missing, errors.New("CONGRESS_API_KEY is not set"))
	}
	if needCivic && cfg.Civic.APIKey == "" {
		missing = append(missing, errors.New("CIVIC_API_KEY is not set"))
	}
	if err := errors.Join(missing...); err != nil {
		return services{}, err
	}

	log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, "text")
	clients, err := app.NewClients(cfg, app.Options{Cache: cache.NewInMemoryCache(), Logger: log})
	if err != nil {
		return services{}, err
	}
	svcs := app.NewServices(cfg, clients, nil, log, nil)
	return services{legislation: svcs.Legislation, district: svcs.District}, nil
}
