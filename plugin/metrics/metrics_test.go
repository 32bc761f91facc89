package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/xraph/radius"
	"github.com/xraph/radius/id"
	"github.com/xraph/radius/permission"
	"github.com/xraph/radius/role"
	"github.com/xraph/radius/store/memory"
)

func TestCountsMutations(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())

	svc, err := radius.New(radius.WithStore(memory.New()), radius.WithPlugin(m))
	if err != nil {
		t.Fatal(err)
	}

	p, err := svc.CreatePermission(ctx, &permission.Permission{Name: "reading"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreatePermission(ctx, &permission.Permission{Name: "reading"}); err == nil {
		t.Fatal("expected conflict")
	}
	r, err := svc.CreateRole(ctx, &role.Role{Name: "reader", Permissions: []id.PermissionID{p.ID}})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteRole(ctx, r.ID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		entity, event string
		want          float64
	}{
		{EntityPermission, EventCreated, 1},
		{EntityRole, EventCreated, 1},
		{EntityRole, EventDeleted, 1},
		{EntityUser, EventCreated, 0},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.Events().WithLabelValues(tt.entity, tt.event))
		if got != tt.want {
			t.Errorf("%s/%s = %v, want %v", tt.entity, tt.event, got, tt.want)
		}
	}
}

func TestRegistersAgainstGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Events().WithLabelValues(EntityUser, EventUpdated).Inc()

	if n := testutil.CollectAndCount(m.Events()); n != 1 {
		t.Fatalf("expected 1 series, got %d", n)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected duplicate registration to panic")
		}
	}()
	New(reg)
}
