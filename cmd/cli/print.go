package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/docker/go-units"

	"github.com/hamed0406/statusforge/internal/domain"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func age(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return units.HumanDuration(now.Sub(t)) + " ago"
}

func every(seconds int) string {
	return "every " + units.HumanDuration(time.Duration(seconds)*time.Second)
}

func printMonitors(w io.Writer, ms []*domain.Monitor, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tURL\tINTERVAL\tENABLED\tCREATED")
	for _, m := range ms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			m.ID, m.Name, m.Kind, m.URL, every(m.IntervalSeconds), m.Enabled, age(m.CreatedAt, now))
	}
	return tw.Flush()
}

func printResults(w io.Writer, rs []*domain.MonitorResult, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREGION\tSTATUS\tRESPONSE\tHTTP\tERROR\tAGE")
	for _, r := range rs {
		resp, httpStatus, msg := "-", "-", "-"
		if r.ResponseTimeMS.Valid {
			resp = units.HumanDuration(time.Duration(r.ResponseTimeMS.Int64) * time.Millisecond)
			if r.ResponseTimeMS.Int64 < 1000 {
				resp = strconv.FormatInt(r.ResponseTimeMS.Int64, 10) + "ms"
			}
		}
		if r.HTTPStatus.Valid {
			httpStatus = strconv.FormatInt(r.HTTPStatus.Int64, 10)
		}
		if r.ErrorMessage.Valid {
			msg = r.ErrorMessage.String
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Region, r.Status, resp, httpStatus, msg, age(r.CreatedAt, now))
	}
	return tw.Flush()
}
