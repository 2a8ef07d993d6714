package main

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/guregu/null/v5"
	"github.com/spf13/cobra"

	"github.com/hamed0406/statusforge/internal/domain"
)

func newCheckCmd(o *options) *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "check ID",
		Short: "Run an on-demand check from one region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := monitorPath(args[0]) + "/check"
			if region != "" {
				path += "?region=" + url.QueryEscape(region)
			}
			var r domain.MonitorResult
			if err := newClient(o).do(cmd.Context(), http.MethodPost, path, nil, &r); err != nil {
				return err
			}
			if o.json {
				return printJSON(cmd.OutOrStdout(), r)
			}
			return printResults(cmd.OutOrStdout(), []*domain.MonitorResult{&r}, time.Now())
		},
	}
	cmd.Flags().StringVarP(&region, "region", "r", "", "EU, US or ASIA (default EU)")
	return cmd
}

func newResultsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Record and list check results",
	}
	cmd.AddCommand(newResultsListCmd(o), newResultsAddCmd(o))
	return cmd
}

func newResultsListCmd(o *options) *cobra.Command {
	var (
		region, status string
		limit, offset  int
	)
	cmd := &cobra.Command{
		Use:   "list ID",
		Short: "List a monitor's results, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if region != "" {
				q.Set("region", region)
			}
			if status != "" {
				q.Set("status", status)
			}
			if cmd.Flags().Changed("limit") {
				q.Set("limit", strconv.Itoa(limit))
			}
			if cmd.Flags().Changed("offset") {
				q.Set("offset", strconv.Itoa(offset))
			}
			path := monitorPath(args[0]) + "/results"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var rs []*domain.MonitorResult
			if err := newClient(o).do(cmd.Context(), http.MethodGet, path, nil, &rs); err != nil {
				return err
			}
			if o.json {
				return printJSON(cmd.OutOrStdout(), rs)
			}
			return printResults(cmd.OutOrStdout(), rs, time.Now())
		},
	}
	f := cmd.Flags()
	f.StringVar(&region, "region", "", "only this region")
	f.StringVar(&status, "status", "", "only this status")
	f.IntVar(&limit, "limit", 50, "page size, at most 100")
	f.IntVar(&offset, "offset", 0, "results to skip")
	return cmd
}

func newResultsAddCmd(o *options) *cobra.Command {
	var (
		in         domain.ResultInput
		respTime   time.Duration
		httpStatus int
		sslValid   bool
		sslExpires string
		errMsg     string
	)
	cmd := &cobra.Command{
		Use:   "add ID",
		Short: "Record an externally produced result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("response-time") {
				in.ResponseTimeMS = null.IntFrom(respTime.Milliseconds())
			}
			if f.Changed("http-status") {
				in.HTTPStatus = null.IntFrom(int64(httpStatus))
			}
			if f.Changed("ssl-valid") {
				in.SSLValid = null.BoolFrom(sslValid)
			}
			if sslExpires != "" {
				t, err := time.Parse(time.RFC3339, sslExpires)
				if err != nil {
					return err
				}
				in.SSLExpiresAt = null.TimeFrom(t)
			}
			if f.Changed("error") {
				in.ErrorMessage = null.StringFrom(errMsg)
			}

			var r domain.MonitorResult
			if err := newClient(o).do(cmd.Context(), http.MethodPost, monitorPath(args[0])+"/results", in, &r); err != nil {
				return err
			}
			if o.json {
				return printJSON(cmd.OutOrStdout(), r)
			}
			return printResults(cmd.OutOrStdout(), []*domain.MonitorResult{&r}, time.Now())
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Region, "region", string(domain.DefaultRegion), "EU, US or ASIA")
	f.StringVar(&in.Status, "status", "", "up, down or degraded")
	f.DurationVar(&respTime, "response-time", 0, "observed response time, e.g. 120ms")
	f.IntVar(&httpStatus, "http-status", 0, "observed HTTP status code")
	f.BoolVar(&sslValid, "ssl-valid", false, "whether the certificate was valid")
	f.StringVar(&sslExpires, "ssl-expires", "", "certificate expiry, RFC 3339")
	f.StringVar(&errMsg, "error", "", "diagnostic message")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}
