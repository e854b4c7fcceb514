package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/heiberg/ofxify/internal/buildinfo"
	"github.com/heiberg/ofxify/internal/config"
	"github.com/heiberg/ofxify/internal/importer"
)

// globals carries the persistent flags and what PersistentPreRunE derives
// from them.
type globals struct {
	configFile string
	verbose    bool
	logger     *log.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "ofxify",
		Short:   "Convert bank exports into OFX statements",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			g.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				Prefix:          "ofxify",
				ReportTimestamp: true,
			})
			if g.verbose {
				g.logger.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "log skipped rows and other details")

	rootCmd.AddCommand(newConvertCommand(g))
	rootCmd.AddCommand(newServeCommand(g))
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}

// addConfigFlags registers the flags that override configuration keys.
// Defaults are shown for help only; an unset flag never overrides the
// config file or environment.
func addConfigFlags(fs *pflag.FlagSet) {
	d := config.Default()
	fs.String("processor", d.Processor, "input processor: "+strings.Join(importer.Names(), ", "))
	fs.String("input-encoding", d.Input.Encoding, "character encoding of the input")
	fs.String("output-encoding", d.Output.Encoding, "character encoding of the OFX document")
	fs.String("field-separator", d.Input.FieldSeparator, `field separator (table), backslash escapes like \t allowed`)
	fs.String("record-separator", d.Input.RecordSeparator, "record separator (table)")
	fs.String("columns", d.Input.Columns, "column roles: date, description, amount, id, skip")
	fs.String("date-format", d.Input.DateFormat, "date layout in Go reference form")
	fs.Int("skip-rows", d.Input.SkipRows, "leading header rows to ignore (table, xlsx, xls)")
	fs.String("bank-id", d.Account.BankID, "bank id written to BANKID")
	fs.String("account-id", d.Account.AccountID, "account id written to ACCTID")
}

// loadConfig layers the configuration and validates it.
func loadConfig(g *globals, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Build(g.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
