package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/yhspec/packages/core/env"
	"github.com/abdul-hamid-achik/yhspec/packages/extract"
	"github.com/abdul-hamid-achik/yhspec/packages/http"
	"github.com/abdul-hamid-achik/yhspec/packages/ws"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// carrierFlags describe a saved response on the command line.
type carrierFlags struct {
	body       string
	status     int
	url        string
	encoding   string
	headers    []string
	cookies    []string
	durationMs int64
	socket     bool
	rawJSON    bool
	vars       []string
}

func (f *carrierFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.body, "body", "b", "", "Response body file, - for stdin")
	cmd.Flags().IntVarP(&f.status, "status", "s", 200, "Response status code")
	cmd.Flags().StringVar(&f.url, "url", "", "Final response URL")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "Response text encoding")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "Response header (Name=Value), repeatable")
	cmd.Flags().StringArrayVar(&f.cookies, "cookie", nil, "Response cookie (name=value), repeatable")
	cmd.Flags().Int64Var(&f.durationMs, "duration", 0, "Response time in milliseconds")
	cmd.Flags().BoolVar(&f.socket, "ws", false, "Treat the body as a received socket message")
	cmd.Flags().BoolVar(&f.rawJSON, "json", false, "Treat the body as a bare JSON document")
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "Variable (name=value) available to ${name}, repeatable")
}

func (f *carrierFlags) readBody(cmd *cobra.Command) ([]byte, error) {
	switch f.body {
	case "":
		return nil, nil
	case "-":
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(f.body)
}

// carrier builds the carrier selected by the flags.
func (f *carrierFlags) carrier(cmd *cobra.Command) (any, error) {
	if f.socket && f.rawJSON {
		return nil, withExitCode(ExitUsageError, fmt.Errorf("--ws and --json are mutually exclusive"))
	}
	body, err := f.readBody(cmd)
	if err != nil {
		return nil, withExitCode(ExitParseError, fmt.Errorf("failed to read body: %w", err))
	}

	switch {
	case f.socket:
		return ws.Message{Status: f.status, Recv: string(body)}, nil
	case f.rawJSON:
		v, err := http.DecodeJSON(body)
		if err != nil {
			return nil, withExitCode(ExitParseError, fmt.Errorf("%w: %v", extract.ErrInvalidJSON, err))
		}
		return extract.RawJSON{Value: v}, nil
	}

	headers, err := pairs(f.headers)
	if err != nil {
		return nil, withExitCode(ExitUsageError, fmt.Errorf("invalid --header: %w", err))
	}
	cookies, err := pairs(f.cookies)
	if err != nil {
		return nil, withExitCode(ExitUsageError, fmt.Errorf("invalid --cookie: %w", err))
	}
	return &http.Response{
		StatusCode: f.status,
		URL:        f.url,
		Encoding:   f.encoding,
		Headers:    headers,
		Cookies:    cookies,
		Body:       body,
		Duration:   time.Duration(f.durationMs) * time.Millisecond,
	}, nil
}

// resolver seeds a resolver from the config variables, the env file and the
// --var flags, in that order.
func (f *carrierFlags) resolver() (*env.Resolver, error) {
	r := env.NewResolver()
	r.SetWarnFunc(logger.Sugar().Warnf)
	if len(cfg.Variables) > 0 {
		r.SetVariables(cfg.Variables)
	}
	if cfg.EnvFile != "" {
		n, err := env.LoadDotEnvInto(r, cfg.EnvFile)
		if err != nil {
			return nil, withExitCode(ExitConfigError, err)
		}
		logger.Debug("env file loaded", zap.String("path", cfg.EnvFile), zap.Int("variables", n))
	}
	vars, err := pairs(f.vars)
	if err != nil {
		return nil, withExitCode(ExitUsageError, fmt.Errorf("invalid --var: %w", err))
	}
	for k, v := range vars {
		r.SetVariable(k, v)
	}
	return r, nil
}

func pairs(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(values))
	for _, kv := range values {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("expected name=value, got %q", kv)
		}
		m[strings.TrimSpace(k)] = v
	}
	return m, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
