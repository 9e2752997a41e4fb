package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/yhspec/packages/extract"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractFlags carrierFlags

var extractCmd = &cobra.Command{
	Use:   "extract <expression>",
	Short: "Evaluate an extraction expression against a saved response",
	Long: `Evaluate an extraction expression against a saved response and print
the result as JSON ({"kind", "strategy", "value"}).

The expression may reference ${name} variables from the config file, the
env file or --var flags.

Examples:
  yhspec extract status_code --status 201
  yhspec extract '$.data.token' --body response.json
  yhspec extract 'headers.Content-Type' -H Content-Type=application/json
  yhspec extract '"id":(.+?),' --body response.json
  yhspec extract 'body.items[0]' --ws --body frame.json
  cat doc.json | yhspec extract '$.items[*].id' --json --body -`,
	Args: cobra.ExactArgs(1),
	RunE: extractCommand,
}

func init() {
	extractFlags.register(extractCmd)
}

func extractCommand(cmd *cobra.Command, args []string) error {
	carrier, err := extractFlags.carrier(cmd)
	if err != nil {
		return err
	}
	resolver, err := extractFlags.resolver()
	if err != nil {
		return err
	}

	expression := resolver.Resolve(args[0])
	res, err := extract.Extract(carrier, expression)
	if err != nil {
		var ee *extract.ExtractionError
		if errors.As(err, &ee) {
			logger.Debug("extraction failed",
				zap.String("expression", ee.Expression),
				zap.Stringer("strategy", ee.Strategy),
				zap.Error(ee.Err),
			)
		}
		return withExitCode(ExitParseError, err)
	}

	logger.Debug("extraction",
		zap.String("expression", expression),
		zap.Stringer("kind", res.Kind),
		zap.Stringer("strategy", res.Strategy),
	)
	return writeJSON(cmd.OutOrStdout(), res)
}
