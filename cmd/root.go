package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/x2rest/config"
	"github.com/s0up4200/x2rest/fieldfile"
	"github.com/s0up4200/x2rest/filter"
	"github.com/s0up4200/x2rest/x2"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  x2.API
	mapper  x2.Mapper
	filters *filter.Manager

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	entity     string
	filterExpr string

	// stdout is swapped out in tests
	stdout io.Writer = os.Stdout
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "x2rest",
	Short: "A command line client for the X2 CRM REST API",
	Long: `x2rest reads entity schemas from an X2 CRM instance, verifies submitted
fields against them and writes contacts, actions and tags. It can also look
up duplicate contacts by email or name and reset their dupe-check flag.

Results are printed as JSON on stdout, logs go to stderr.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information for the version flag and self update
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, built)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging, os.Stderr)

	c, err := x2.NewClient(cfg.X2.URL, cfg.X2.User, cfg.X2.APIKey, logger,
		x2.WithTimeout(cfg.X2.Timeout),
		x2.WithPurify(cfg.X2.Purify),
		x2.WithUserAgent("x2rest/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create X2 client: %w", err)
	}
	client = c

	if cfg.Contacts.MapperFile != "" {
		mapper, err = fieldfile.LoadMapper(cfg.Contacts.MapperFile)
		if err != nil {
			return fmt.Errorf("failed to load mapper: %w", err)
		}
		logger.Debug().Int("keys", len(mapper)).Str("file", cfg.Contacts.MapperFile).Msg("Loaded field mapper")
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter); err != nil {
		return fmt.Errorf("invalid filter in config: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out *os.File) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	color := cfg.Color && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()))
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to X2",
	Long:  `Test the connection and credentials against your X2 instance.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	logger.Info().Str("url", cfg.X2.URL).Msg("Testing connection to X2")

	if err := client.TestConnection(cmd.Context()); err != nil {
		var te *x2.TransportError
		if errors.As(err, &te) && te.IsUnauthorized() {
			return fmt.Errorf("credentials rejected for user %s: %w", cfg.X2.User, err)
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	fmt.Fprintln(stdout, "✓ Connection successful!")
	return nil
}

// printJSON writes v to stdout as indented JSON
func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// parseID parses a positive record id argument
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// readFields merges a field file with key=value pairs, pairs winning
func readFields(file string, pairs []string) (*x2.Fields, error) {
	fields := x2.NewFields()
	if file != "" {
		loaded, err := fieldfile.LoadFields(file)
		if err != nil {
			return nil, err
		}
		fields = loaded
	}

	set, err := fieldfile.ParsePairs(pairs)
	if err != nil {
		return nil, err
	}
	set.Each(fields.Set)

	if fields.Len() == 0 {
		return nil, fmt.Errorf("no fields given, use --file or --set")
	}
	return fields, nil
}

// resolveFilter returns the filter named or written in --filter, or nil
func resolveFilter() (*filter.ExprFilter, error) {
	if filterExpr == "" {
		return nil, nil
	}
	f, err := filters.Resolve(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	logger.Debug().Str("filter", f.String()).Msg("Applying filter")
	return f, nil
}
