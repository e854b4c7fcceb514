package commands

import (
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/heiberg/ofxify/internal/convert"
	"github.com/heiberg/ofxify/internal/importer"
	"github.com/heiberg/ofxify/internal/ofx"
)

func newConvertCommand(g *globals) *cobra.Command {
	var input, output string
	var dump bool

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a bank export into an OFX statement",
		Example: `  ofxify convert -i export.csv -o statement.ofx --bank-id NDEAFIHH --account-id FI4912345600000785
  ofxify convert --processor sampo --input-encoding ISO-8859-1 < export.csv > statement.ofx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, cmd)
			if err != nil {
				return err
			}
			opts, err := cfg.ImporterOptions(g.logger)
			if err != nil {
				return err
			}
			parser, err := importer.DefaultRegistry(opts).Lookup(cfg.Processor)
			if err != nil {
				return err
			}

			conv := &convert.Converter{
				Parser:  parser,
				Account: cfg.AccountInfo(),
				Emitter: ofx.Emitter{Encoding: cfg.Output.Encoding},
				Logger:  g.logger,
			}
			stmt, err := conv.ConvertFile(input, output, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if dump {
				printer := pp.New()
				printer.SetColoringEnabled(false)
				if _, err := printer.Fprintln(cmd.ErrOrStderr(), stmt.Transactions); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "input file, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout; never overwritten")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the parsed transactions to stderr")
	addConfigFlags(cmd.Flags())

	return cmd
}
