package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/PolarWolf314/caselock/internal/audit"
	kerrors "github.com/PolarWolf314/caselock/internal/errors"
)

func seedAudit(t *testing.T, env *Env) {
	t.Helper()

	entries := []audit.Entry{
		{Timestamp: "2026-01-10T09:00:00.000000Z", Operation: "identity init", Backend: "keyring"},
		{Timestamp: "2026-01-11T09:00:00.000000Z", Operation: "peer add", Peer: "aaaa", PeerLabel: "clinic"},
		{Timestamp: "2026-01-12T09:00:00.000000Z", Operation: "case new", CaseID: "c-1"},
		{Timestamp: "2026-01-13T09:00:00.000000Z", Operation: "case wrap", Peer: "aaaa", PeerLabel: "clinic", CaseID: "c-1"},
	}
	for _, e := range entries {
		env.Audit.Record(e)
	}
}

func TestLog_All(t *testing.T) {
	env := newTestEnv(t)
	seedAudit(t, env)

	result, err := Log(context.Background(), env, LogOptions{})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if result.TotalEntriesBeforeFilter != 4 || len(result.Entries) != 4 {
		t.Errorf("Expected 4 entries, got %d/%d", len(result.Entries), result.TotalEntriesBeforeFilter)
	}
}

func TestLog_Empty(t *testing.T) {
	result, err := Log(context.Background(), newTestEnv(t), LogOptions{})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(result.Entries))
	}
}

func TestLog_Filters(t *testing.T) {
	env := newTestEnv(t)
	seedAudit(t, env)
	ctx := context.Background()

	tests := []struct {
		name string
		opts LogOptions
		want []string
	}{
		{"ByPeerID", LogOptions{Peer: "aaaa"}, []string{"peer add", "case wrap"}},
		{"ByPeerLabel", LogOptions{Peer: "clinic"}, []string{"peer add", "case wrap"}},
		{"ByOperations", LogOptions{Operations: "case new, identity init"}, []string{"identity init", "case new"}},
		{"Since", LogOptions{Since: "2026-01-12"}, []string{"case new", "case wrap"}},
		{"Until", LogOptions{Until: "2026-01-11"}, []string{"identity init", "peer add"}},
		{"Limit", LogOptions{Limit: 1}, []string{"case wrap"}},
		{"ReverseLimit", LogOptions{Limit: 2, Reverse: true}, []string{"case wrap", "case new"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Log(ctx, env, tc.opts)
			if err != nil {
				t.Fatalf("Log failed: %v", err)
			}
			if len(result.Entries) != len(tc.want) {
				t.Fatalf("Expected %d entries, got %d", len(tc.want), len(result.Entries))
			}
			for i, op := range tc.want {
				if result.Entries[i].Operation != op {
					t.Errorf("Entry %d: expected %q, got %q", i, op, result.Entries[i].Operation)
				}
			}
		})
	}
}

func TestLog_InvalidDate(t *testing.T) {
	env := newTestEnv(t)
	seedAudit(t, env)

	if _, err := Log(context.Background(), env, LogOptions{Since: "yesterday"}); !errors.Is(err, kerrors.ErrInvalidDateFormat) {
		t.Errorf("Expected ErrInvalidDateFormat, got: %v", err)
	}
}

func TestFormatDetails(t *testing.T) {
	tests := []struct {
		entry audit.Entry
		want  string
	}{
		{audit.Entry{Operation: "identity init", Backend: "file"}, "backend file"},
		{audit.Entry{Operation: "peer add", Peer: "aaaa", PeerLabel: "clinic"}, "clinic"},
		{audit.Entry{Operation: "peer remove", Peer: "aaaa"}, "aaaa"},
		{audit.Entry{Operation: "case wrap", Peer: "aaaa", CaseID: "c-1"}, "c-1 to aaaa"},
		{audit.Entry{Operation: "case wrap"}, "raw public key"},
		{audit.Entry{Operation: "case new", CaseID: "c-1"}, "c-1"},
		{audit.Entry{Operation: "bundle export"}, ""},
	}
	for _, tc := range tests {
		if got := FormatDetails(tc.entry); got != tc.want {
			t.Errorf("FormatDetails(%+v) = %q, want %q", tc.entry, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2026-01-10T09:00:00.000000Z"); got != "2026-01-10" {
		t.Errorf("Unexpected date %q", got)
	}
	if got := FormatDateTime("2026-01-10T09:00:00.000000Z"); got != "2026-01-10 09:00:00" {
		t.Errorf("Unexpected datetime %q", got)
	}
}
