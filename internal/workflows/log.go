package workflows

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PolarWolf314/caselock/internal/audit"
	kerrors "github.com/PolarWolf314/caselock/internal/errors"
)

const dateLayout = "2006-01-02"

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit keeps only the N most recent matching entries. 0 means no limit.
	Limit int

	// Reverse lists the most recent entry first.
	Reverse bool

	// Peer matches a peer device id or label.
	Peer string

	// Operations is a comma-separated list such as "case wrap,case unwrap".
	Operations string

	// Since and Until bound the entry date, inclusive, as YYYY-MM-DD.
	Since string
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int

	// Path is the audit log location.
	Path string
}

// entryFilter reports whether an entry should be kept.
type entryFilter func(e audit.Entry) bool

// Log reads and filters the audit log. A missing log yields no entries.
//
// Returns ErrInvalidDateFormat if Since or Until is not YYYY-MM-DD.
func Log(ctx context.Context, env *Env, opts LogOptions) (*LogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filters, err := buildFilters(opts)
	if err != nil {
		return nil, err
	}

	entries, err := env.Audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	matched := make([]audit.Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e, filters) {
			matched = append(matched, e)
		}
	}

	// Entries are stored oldest first; the limit keeps the newest.
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[len(matched)-opts.Limit:]
	}
	if opts.Reverse {
		slices.Reverse(matched)
	}

	return &LogResult{
		Entries:                  matched,
		TotalEntriesBeforeFilter: len(entries),
		Path:                     env.Audit.Path(),
	}, nil
}

func buildFilters(opts LogOptions) ([]entryFilter, error) {
	var filters []entryFilter

	if opts.Peer != "" {
		peer := opts.Peer
		filters = append(filters, func(e audit.Entry) bool {
			return strings.EqualFold(e.Peer, peer) || (e.PeerLabel != "" && e.PeerLabel == peer)
		})
	}

	if opts.Operations != "" {
		ops := make(map[string]bool)
		for _, op := range strings.Split(opts.Operations, ",") {
			ops[strings.ToLower(strings.TrimSpace(op))] = true
		}
		filters = append(filters, func(e audit.Entry) bool {
			return ops[strings.ToLower(e.Operation)]
		})
	}

	if opts.Since != "" {
		since, err := time.Parse(dateLayout, opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since %q, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat, opts.Since)
		}
		filters = append(filters, func(e audit.Entry) bool {
			t, ok := entryTime(e)
			return ok && !t.Before(since)
		})
	}

	if opts.Until != "" {
		until, err := time.Parse(dateLayout, opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until %q, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat, opts.Until)
		}
		// Inclusive of the whole day.
		end := until.AddDate(0, 0, 1)
		filters = append(filters, func(e audit.Entry) bool {
			t, ok := entryTime(e)
			return ok && t.Before(end)
		})
	}

	return filters, nil
}

func keep(e audit.Entry, filters []entryFilter) bool {
	for _, f := range filters {
		if !f(e) {
			return false
		}
	}
	return true
}

// entryTime parses an entry timestamp, accepting plain RFC 3339 as well.
func entryTime(e audit.Entry) (time.Time, bool) {
	t, err := time.Parse(audit.TimestampLayout, e.Timestamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, e.Timestamp)
	}
	return t, err == nil
}

// FormatDate renders an entry timestamp as YYYY-MM-DD.
func FormatDate(ts string) string {
	return formatTimestamp(ts, dateLayout)
}

// FormatDateTime renders an entry timestamp as YYYY-MM-DD HH:MM:SS.
func FormatDateTime(ts string) string {
	return formatTimestamp(ts, "2006-01-02 15:04:05")
}

func formatTimestamp(ts, layout string) string {
	t, ok := entryTime(audit.Entry{Timestamp: ts})
	if !ok {
		if len(ts) >= len(layout) {
			return ts[:len(layout)]
		}
		return ts
	}
	return t.Format(layout)
}

// FormatDetails returns a short description of an entry for display.
func FormatDetails(e audit.Entry) string {
	peer := e.PeerLabel
	if peer == "" {
		peer = e.Peer
	}

	switch e.Operation {
	case "identity init":
		return "backend " + e.Backend
	case "peer add", "peer remove", "case unwrap":
		return peer
	case "case wrap":
		switch {
		case peer == "":
			return "raw public key"
		case e.CaseID != "":
			return fmt.Sprintf("%s to %s", e.CaseID, peer)
		default:
			return peer
		}
	case "case new":
		return e.CaseID
	default:
		return ""
	}
}
