package main

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/statusforge/internal/domain"
)

func newMonitorsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "monitors",
		Aliases: []string{"monitor", "m"},
		Short:   "Create, inspect, update and delete monitors",
	}
	cmd.AddCommand(
		newMonitorsListCmd(o),
		newMonitorsGetCmd(o),
		newMonitorsCreateCmd(o),
		newMonitorsUpdateCmd(o),
		newMonitorsDeleteCmd(o),
	)
	return cmd
}

func newMonitorsListCmd(o *options) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's monitors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ms []*domain.Monitor
			path := "/api/projects/" + url.PathEscape(project) + "/monitors"
			if err := newClient(o).do(cmd.Context(), http.MethodGet, path, nil, &ms); err != nil {
				return err
			}
			if o.json {
				return printJSON(cmd.OutOrStdout(), ms)
			}
			return printMonitors(cmd.OutOrStdout(), ms, time.Now())
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newMonitorsGetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one monitor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m domain.Monitor
			if err := newClient(o).do(cmd.Context(), http.MethodGet, monitorPath(args[0]), nil, &m); err != nil {
				return err
			}
			if o.json {
				return printJSON(cmd.OutOrStdout(), m)
			}
			return printMonitors(cmd.OutOrStdout(), []*domain.Monitor{&m}, time.Now())
		},
	}
}

func newMonitorsCreateCmd(o *options) *cobra.Command {
	var (
		project  string
		in       domain.MonitorInput
		keyword  string
		interval time.Duration
		disabled bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a monitor in a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("keyword") {
				in.Keyword = &keyword
			}
			if cmd.Flags().Changed("interval") {
				secs := int(interval / time.Second)
				in.IntervalSeconds = &secs
			}
			if disabled {
				enabled := false
				in.Enabled = &enabled
			}

			var m domain.Monitor
			path := "/api/projects/" + url.PathEscape(project) + "/monitors"
			if err := newClient(o).do(cmd.Context(), http.MethodPost, path, in, &m); err != nil {
				return err
			}
			if o.json {
				return printJSON(cmd.OutOrStdout(), m)
			}
			return printMonitors(cmd.OutOrStdout(), []*domain.Monitor{&m}, time.Now())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&project, "project", "p", "", "project id")
	f.StringVar(&in.Name, "name", "", "display name")
	f.StringVar(&in.Kind, "kind", string(domain.KindHTTP), "http, https, ssl or keyword")
	f.StringVar(&in.URL, "url", "", "target URL")
	f.StringVar(&keyword, "keyword", "", "text the page must contain (keyword monitors)")
	f.DurationVar(&interval, "interval", 0, "check interval, at least 1m (default 5m)")
	f.BoolVar(&disabled, "disabled", false, "create the monitor disabled")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newMonitorsUpdateCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change selected fields of a monitor",
		Long:  "Only the flags given are sent. Use --clear-keyword to remove a keyword.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := patchFromFlags(cmd)
			if err != nil {
				return err
			}
			var m domain.Monitor
			if err := newClient(o).do(cmd.Context(), http.MethodPatch, monitorPath(args[0]), body, &m); err != nil {
				return err
			}
			if o.json {
				return printJSON(cmd.OutOrStdout(), m)
			}
			return printMonitors(cmd.OutOrStdout(), []*domain.Monitor{&m}, time.Now())
		},
	}
	f := cmd.Flags()
	f.String("name", "", "display name")
	f.String("kind", "", "http, https, ssl or keyword")
	f.String("url", "", "target URL")
	f.String("keyword", "", "text the page must contain")
	f.Bool("clear-keyword", false, "remove the keyword")
	f.Duration("interval", 0, "check interval, at least 1m")
	f.Bool("enabled", true, "enable or disable checks (--enabled=false)")
	cmd.MarkFlagsMutuallyExclusive("keyword", "clear-keyword")
	return cmd
}

// patchFromFlags builds a sparse update body from the flags the user set.
func patchFromFlags(cmd *cobra.Command) (map[string]any, error) {
	f := cmd.Flags()
	body := map[string]any{}
	for _, name := range []string{"name", "kind", "url", "keyword"} {
		if f.Changed(name) {
			v, _ := f.GetString(name)
			body[name] = v
		}
	}
	if clr, _ := f.GetBool("clear-keyword"); clr {
		body["keyword"] = nil
	}
	if f.Changed("interval") {
		d, _ := f.GetDuration("interval")
		body["interval_seconds"] = int(d / time.Second)
	}
	if f.Changed("enabled") {
		v, _ := f.GetBool("enabled")
		body["enabled"] = v
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("nothing to update: pass at least one field flag")
	}
	return body, nil
}

func newMonitorsDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a monitor and its results",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Message string `json:"message"`
			}
			if err := newClient(o).do(cmd.Context(), http.MethodDelete, monitorPath(args[0]), nil, &out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
}

func monitorPath(id string) string {
	return "/api/monitors/" + url.PathEscape(id)
}
