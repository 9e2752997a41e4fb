package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/yhspec/packages/assertions"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	assertFlags    carrierFlags
	assertType     string
	assertPath     string
	assertExpected string
	assertFile     string
	assertJSON     bool
)

var assertCmd = &cobra.Command{
	Use:   "assert",
	Short: "Evaluate assertions against a saved response",
	Long: `Evaluate one assertion given by flags, or a YAML list of assertions read
from --from, against a saved response.

--expected is decoded as a YAML scalar, so 200 is a number and "200" a string.

Exit codes: 0 when every assertion passes, 1 when one fails, 2 when an
assertion cannot be evaluated.

Examples:
  yhspec assert --type status_code --expected 200 --status 404
  yhspec assert --type json_path --path '$.data.token' --expected xyz --body response.json
  yhspec assert --from checks.yaml --body response.json --duration 120`,
	Args: cobra.NoArgs,
	RunE: assertCommand,
}

func init() {
	assertFlags.register(assertCmd)
	assertCmd.Flags().StringVarP(&assertType, "type", "t", "", "Assertion type (status_code, json_path, jmes_path, regex, response_time, contains, equals, length_equals, json_schema)")
	assertCmd.Flags().StringVarP(&assertPath, "path", "p", "", "Extraction expression the assertion applies to")
	assertCmd.Flags().StringVarP(&assertExpected, "expected", "e", "", "Expected value, decoded as YAML")
	assertCmd.Flags().StringVarP(&assertFile, "from", "f", "", "YAML file holding a list of assertions")
	assertCmd.Flags().BoolVar(&assertJSON, "output-json", false, "Print outcomes as JSON")
}

func assertCommand(cmd *cobra.Command, args []string) error {
	specs, err := loadSpecs()
	if err != nil {
		return err
	}
	carrier, err := assertFlags.carrier(cmd)
	if err != nil {
		return err
	}
	resolver, err := assertFlags.resolver()
	if err != nil {
		return err
	}

	outcomes, err := assertions.EvaluateAll(carrier, specs,
		assertions.WithResolver(resolver),
		assertions.WithSchemaDir(cfg.SchemaDir),
	)
	if err != nil {
		return withExitCode(ExitParseError, err)
	}

	if assertJSON {
		if err := writeJSON(cmd.OutOrStdout(), outcomes); err != nil {
			return err
		}
	} else {
		printOutcomes(cmd, outcomes)
	}

	for _, o := range outcomes {
		if !o.Passed {
			return withExitCode(ExitTestFailure, fmt.Errorf("assertion failed: %s %s", o.Type, o.Expression))
		}
	}
	return nil
}

func loadSpecs() ([]*assertions.Spec, error) {
	if assertFile != "" {
		if assertType != "" {
			return nil, withExitCode(ExitUsageError, fmt.Errorf("--from and --type are mutually exclusive"))
		}
		data, err := os.ReadFile(assertFile)
		if err != nil {
			return nil, withExitCode(ExitParseError, fmt.Errorf("failed to read assertions: %w", err))
		}
		var specs []*assertions.Spec
		if err := yaml.Unmarshal(data, &specs); err != nil {
			return nil, withExitCode(ExitParseError, fmt.Errorf("failed to parse assertions %s: %w", assertFile, err))
		}
		return specs, nil
	}

	if assertType == "" {
		return nil, withExitCode(ExitUsageError, fmt.Errorf("one of --type or --from is required"))
	}
	spec := &assertions.Spec{Type: assertions.Type(assertType), Path: assertPath}
	if assertExpected != "" {
		if err := yaml.Unmarshal([]byte(assertExpected), &spec.Expected); err != nil {
			spec.Expected = assertExpected
		}
	}
	return []*assertions.Spec{spec}, nil
}

func printOutcomes(cmd *cobra.Command, outcomes []*assertions.Outcome) {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	if cfg.GetNoColor() {
		green = fmt.Sprint
		red = fmt.Sprint
	}

	for _, o := range outcomes {
		if o.Passed {
			fmt.Fprintf(out, "%s %s %s\n", green("✓"), o.Type, o.Expression)
			continue
		}
		fmt.Fprintf(out, "%s %s %s\n", red("✗"), o.Type, o.Expression)
		fmt.Fprintf(out, "    Expected: %v\n", o.Expected)
		fmt.Fprintf(out, "    Actual:   %v\n", o.Actual)
		if o.Message != "" {
			fmt.Fprintf(out, "    %s\n", o.Message)
		}
	}
}
