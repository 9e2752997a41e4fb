package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/yhspec/packages/tracker"
	"github.com/fatih/color"
)

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	case map[string]string:
		return fmt.Sprintf("{map with %d entries}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatSummary(sum *tracker.Summary) {
	for i := range sum.Suites {
		f.formatSuite(&sum.Suites[i])
	}
	f.formatTotals(sum)
}

func (f *ConsoleFormatter) formatSuite(s *tracker.SuiteRecord) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Suite: "+s.Name))
	fmt.Fprintf(f.writer, "\n")

	for _, t := range s.Tests {
		switch t.Status {
		case tracker.StatusSkipped:
			fmt.Fprintf(f.writer, "  %s %s", yellow("-"), t.Name)
			if t.ErrorMessage != "" && t.ErrorMessage != "filtered out" {
				fmt.Fprintf(f.writer, " (%s)", t.ErrorMessage)
			}
			fmt.Fprintf(f.writer, "\n")
			continue
		case tracker.StatusError:
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("x"), t.Name, red(fmt.Sprintf("(%s)", t.ErrorMessage)))
			if f.verbose && t.ErrorDetail != "" {
				fmt.Fprintf(f.writer, "    %s\n", t.ErrorDetail)
			}
			continue
		case tracker.StatusRunning:
			fmt.Fprintf(f.writer, "  %s %s (running)\n", yellow("?"), t.Name)
			continue
		}

		symbol := green("✓")
		if t.Status == tracker.StatusFailed {
			symbol = red("✗")
		}
		fmt.Fprintf(f.writer, "  %s %s %s\n", symbol, t.Name, cyan(fmt.Sprintf("(%dms)", int64(t.Duration*1000))))

		if t.Status == tracker.StatusFailed {
			for _, a := range t.Assertions {
				if a.Passed {
					continue
				}
				fmt.Fprintf(f.writer, "    %s %s %s\n", red("→"), a.Type, a.Expression)
				fmt.Fprintf(f.writer, "      Expected: %s\n", formatValue(a.Expected, 100))
				fmt.Fprintf(f.writer, "      Actual:   %s\n", formatValue(a.Actual, 100))
				if a.Message != "" {
					fmt.Fprintf(f.writer, "      %s\n", a.Message)
				}
			}
			if len(t.Assertions) == 0 && t.ErrorMessage != "" {
				fmt.Fprintf(f.writer, "    %s %s\n", red("→"), t.ErrorMessage)
			}
		}

		if f.verbose && len(t.Extractions) > 0 {
			fmt.Fprintf(f.writer, "    Extractions:\n")
			for _, e := range t.Extractions {
				fmt.Fprintf(f.writer, "      %s = %s\n", e.Name, formatValue(e.Value, 100))
			}
		}
	}
}

func (f *ConsoleFormatter) formatTotals(sum *tracker.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Tests: ")
	if sum.TotalPassed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", sum.TotalPassed)))
	}
	if sum.TotalFailed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", sum.TotalFailed)))
	}
	if sum.TotalErrors > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d errors", sum.TotalErrors)))
	}
	if sum.TotalSkipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", sum.TotalSkipped)))
	}
	fmt.Fprintf(f.writer, "%d total\n", sum.TotalTests)
	fmt.Fprintf(f.writer, "Suites: %d\n", sum.TotalSuites)
	fmt.Fprintf(f.writer, "Rate:  %.1f%%\n", sum.SuccessRate)
	fmt.Fprintf(f.writer, "Time:  %dms\n", int64(sum.TotalDuration*1000))
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("yhspec"), version)
}
