package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/xraph/radius"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/store/memory"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, rec)
	}
	return out
}

func TestLogsEachMutation(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	a := New(slog.New(slog.NewJSONHandler(&buf, nil)))

	svc, err := radius.New(radius.WithStore(memory.New()), radius.WithPlugin(a))
	if err != nil {
		t.Fatal(err)
	}

	r, err := svc.CreateRole(ctx, &role.Role{Name: "reader"})
	if err != nil {
		t.Fatal(err)
	}
	desc := "reads things"
	if err := svc.UpdateRole(ctx, r.ID, &role.Update{Description: &desc}); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteRole(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	svc.Shutdown(ctx)

	lines := decodeLines(t, &buf)
	if len(lines) != 4 {
		t.Fatalf("expected 4 log lines, got %d: %s", len(lines), buf.String())
	}

	wantMsgs := []string{"entity created", "entity updated", "entity deleted", "radius shutting down"}
	for i, want := range wantMsgs {
		if lines[i]["msg"] != want {
			t.Errorf("line %d msg = %v, want %q", i, lines[i]["msg"], want)
		}
	}
	if lines[0]["entity"] != "role" || lines[0]["id"] != r.ID.String() || lines[0]["name"] != "reader" {
		t.Errorf("unexpected create line %v", lines[0])
	}
	fields, _ := lines[1]["fields"].([]any)
	if len(fields) != 1 || fields[0] != "description" {
		t.Errorf("unexpected update fields %v", lines[1]["fields"])
	}
}
