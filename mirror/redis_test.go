package mirror

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/zeu5/or-suite/types"
)

func TestKey(t *testing.T) {
	m := NewRedisMirror("localhost:0").WithPrefix("test")
	defer m.Close()
	if k := m.Key("bandit_ucb"); k != "test:bandit_ucb:metrics" {
		t.Errorf("unexpected key %s", k)
	}
}

// needs a running redis, ORSUITE_REDIS_ADDR=localhost:6379 go test ./mirror
func TestPushFetch(t *testing.T) {
	addr := os.Getenv("ORSUITE_REDIS_ADDR")
	if addr == "" {
		t.Skip("ORSUITE_REDIS_ADDR not set")
	}
	ctx := context.Background()
	m := NewRedisMirror(addr).WithPrefix("orsuite-test-" + uuid.NewString())
	defer m.Close()
	if err := m.Ping(ctx); err != nil {
		t.Fatalf("ping: %s", err)
	}

	table := types.NewMetricsTable(3)
	for i := 0; i < 3; i++ {
		table.Append(types.MetricsRow{Episode: i, EpReward: float64(i) / 2, Memory: 64, Time: 1000})
	}
	// pushing twice replaces the list
	for i := 0; i < 2; i++ {
		if err := m.Push(ctx, "exp", table); err != nil {
			t.Fatalf("push: %s", err)
		}
	}
	rows, err := m.Fetch(ctx, "exp")
	if err != nil {
		t.Fatalf("fetch: %s", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if r.Episode != i || r.EpReward != float64(i)/2 {
			t.Errorf("row %d: unexpected %+v", i, r)
		}
	}
}
