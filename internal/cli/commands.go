package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/webutils/internal/ajax"
	"github.com/pfrederiksen/webutils/internal/dateformat"
	"github.com/pfrederiksen/webutils/internal/query"
	"github.com/pfrederiksen/webutils/internal/storage"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query [URL]",
		Short: "Parse the query parameters of a URL",
		Long: `Parse the query parameters of URL, or of the configured location when
no URL is given. Values are trimmed and never percent-decoded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := opts.outputFormat()

			var href string
			if len(args) == 1 {
				href = args[0]
			} else {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				href = cfg.Location
			}

			params := query.FromLocation(query.StaticLocation(href))
			result := &QueryResult{
				URL:    href,
				Count:  params.Len(),
				Params: params,
			}
			return WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose)
		},
	}
}

func newDateCmd(opts *rootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "date [PATTERN]",
		Short: "Format a date with a y/M/d/H/m/s/q/S pattern",
		Long: `Format the current time, or --at, with PATTERN. Tokens: y year,
M month, d day, H hour, m minute, s second, q quarter, S millisecond.
The default pattern is "` + dateformat.DefaultPattern + `".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := opts.outputFormat()

			t := time.Now()
			if at != "" {
				dt, err := strfmt.ParseDateTime(at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				t = time.Time(dt)
			}

			pattern := dateformat.DefaultPattern
			if len(args) == 1 && args[0] != "" {
				pattern = args[0]
			}

			result := &DateResult{
				At:        t,
				Pattern:   pattern,
				Formatted: dateformat.Date(t).Format(pattern),
			}
			return WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Time to format (RFC 3339), default now")
	return cmd
}

func newStorageCmd(opts *rootOptions) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Read and write session, cookie or local storage",
	}
	cmd.PersistentFlags().StringVar(&strategy, "strategy", "", "Storage strategy: session, cookie or local (default from config)")

	run := func(cmd *cobra.Command, fn func(context.Context, *storage.Storage) (*StorageResult, error)) error {
		format, _ := opts.outputFormat()

		cfg, err := opts.loadConfig()
		if err != nil {
			return err
		}
		if strategy != "" {
			s, err := storage.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			cfg.Storage.Strategy = string(s)
		}

		a, err := opts.newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := fn(cmd.Context(), a.Storage)
		if err != nil {
			return err
		}
		result.Strategy = string(a.Storage.Strategy())
		return WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get NAME",
			Short: "Print the value stored under NAME",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, s *storage.Storage) (*StorageResult, error) {
					value, ok, err := s.Get(ctx, args[0])
					if err != nil {
						return nil, err
					}
					result := &StorageResult{Action: "get", Name: args[0], Found: ok}
					if ok {
						result.Value = &value
					}
					return result, nil
				})
			},
		},
		&cobra.Command{
			Use:   "set NAME VALUE",
			Short: "Store VALUE under NAME",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, s *storage.Storage) (*StorageResult, error) {
					if err := s.Set(ctx, args[0], args[1]); err != nil {
						return nil, err
					}
					value := args[1]
					return &StorageResult{Action: "set", Name: args[0], Value: &value, Found: true}, nil
				})
			},
		},
	)
	return cmd
}

func newHTTPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Send JSON requests",
		Long: `Send a JSON request and print the reply. PAYLOAD is sent as given:
the request body for post, put and delete, the query string for get.
Relative URLs resolve against the configured base URL or location.`,
	}

	for _, method := range []ajax.Method{ajax.MethodGet, ajax.MethodPost, ajax.MethodPut, ajax.MethodDelete} {
		cmd.AddCommand(&cobra.Command{
			Use:   strings.ToLower(string(method)) + " URL [PAYLOAD]",
			Short: fmt.Sprintf("Send a %s request", method),
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHTTP(cmd, opts, method, args)
			},
		})
	}
	return cmd
}

func runHTTP(cmd *cobra.Command, opts *rootOptions, method ajax.Method, args []string) error {
	format, _ := opts.outputFormat()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	a, err := opts.newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var payload any
	if len(args) == 2 {
		payload = args[1]
	}

	result := &HTTPResult{Method: string(method), URL: args[0]}
	failed := false
	err = a.HTTP.Go(cmd.Context(), method, args[0], payload, ajax.Handlers{
		Success: func(resp *ajax.Response) {
			result.Status = resp.StatusCode
			result.Data = resp.Data
		},
		Error: func(e *ajax.Error) {
			failed = true
			result.Status = e.StatusCode
			result.Error = e.Message
			if format == FormatText {
				ajax.AlertTo(cmd.ErrOrStderr())(e)
			}
		},
	}).Wait()
	if err != nil {
		return err
	}

	if failed {
		if format == FormatJSON {
			if err := WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose); err != nil {
				return err
			}
		}
		if err := opts.writeMetrics(cmd.ErrOrStderr()); err != nil {
			return err
		}
		return errRequestFailed
	}
	return WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose)
}
