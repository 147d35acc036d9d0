package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/events"
	"github.com/nexusroot/nexus/internal/game/hardware"
	"github.com/nexusroot/nexus/internal/game/player"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "nexus.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id, name string) player.Record {
	return player.New(id, name, false, player.Options{FragmentsToUnlock: 1}).Record()
}

func TestDefaultConfig(t *testing.T) {
	if got := DefaultConfig().Path; got != "./data/nexus.db" {
		t.Errorf("Path = %v, want ./data/nexus.db", got)
	}
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := player.New("p-1", "Neo", true, player.Options{FragmentsToUnlock: 1})
	p.KMap.Unlock("scan")
	p.Credit(42)
	if err := s.Create(ctx, p.Record()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.GetByName(ctx, "neo")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got.ID != "p-1" || got.Name != "Neo" || !got.VIP || got.Stats.Credits != 42 {
		t.Errorf("record = %+v", got)
	}

	restored := player.FromRecord(got, player.Options{FragmentsToUnlock: 1})
	if !restored.KMap.IsCommandAvailable("scan") {
		t.Error("unlocked scan should survive a round trip")
	}

	if _, err := s.Get(ctx, "p-1"); err != nil {
		t.Errorf("Get() error = %v", err)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !nxerror.HasCode(err, nxerror.CodeNotFound) {
		t.Errorf("Get() error = %v, want NOT_FOUND", err)
	}
	if err := s.Save(ctx, record("missing", "ghost")); !nxerror.HasCode(err, nxerror.CodeNotFound) {
		t.Errorf("Save() error = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "missing"); !nxerror.HasCode(err, nxerror.CodeNotFound) {
		t.Errorf("Delete() error = %v, want NOT_FOUND", err)
	}
}

func TestSQLiteStore_Duplicate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, record("a", "trinity")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := s.Create(ctx, record("b", "TRINITY"))
	if !nxerror.HasCode(err, nxerror.CodeDuplicate) {
		t.Errorf("Create() error = %v, want DUPLICATE", err)
	}
}

func TestSQLiteStore_SaveAndList(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, r := range []player.Record{record("1", "zion"), record("2", "apoc"), record("3", "mouse")} {
		if err := s.Create(ctx, r); err != nil {
			t.Fatalf("Create(%s) error = %v", r.Name, err)
		}
	}

	r := record("3", "mouse")
	r.Stats.Level = 4
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	names := make([]string, len(list))
	for i, r := range list {
		names[i] = r.Name
	}
	if diff := cmp.Diff([]string{"apoc", "mouse", "zion"}, names); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	top, err := s.Leaderboard(ctx, 1)
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(top) != 1 || top[0].Name != "mouse" {
		t.Errorf("Leaderboard() = %v", top)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, record("1", "dozer")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "1"); err == nil {
		t.Error("deleted player still present")
	}
}

func TestSQLiteStore_HistoryFromEvents(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	if err := s.Create(ctx, record("p-1", "neo")); err != nil {
		t.Fatal(err)
	}

	bus := events.NewBus()
	bus.Subscribe(events.CommandExecuted, s)
	bus.Publish(ctx, events.New(events.CommandExecuted, "test", map[string]interface{}{
		"player_id":         "p-1",
		"command":           "ls",
		"args":              []string{"-la"},
		"success":           true,
		"execution_time_ms": 1.5,
	}))
	bus.Publish(ctx, events.New(events.CommandExecuted, "test", map[string]interface{}{
		"player_id": "p-1",
		"command":   "cat",
		"success":   false,
		"error":     "Usage: cat <filename>",
	}))

	got, err := s.History(ctx, "p-1", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("History() = %d entries, want 2", len(got))
	}
	byCommand := map[string]HistoryEntry{got[0].Command: got[0], got[1].Command: got[1]}
	ls := byCommand["ls"]
	if !ls.Success || ls.DurationMS != 1.5 || !cmp.Equal(ls.Args, []string{"-la"}) {
		t.Errorf("ls entry = %+v", ls)
	}
	if cat := byCommand["cat"]; cat.Success || cat.Error != "Usage: cat <filename>" {
		t.Errorf("cat entry = %+v", cat)
	}

	stats, err := s.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats["players"] != int64(1) || stats["commands"] != int64(2) {
		t.Errorf("Statistics() = %v", stats)
	}
}

func TestSQLiteStore_BacksPlayerService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexus.db")
	ctx := context.Background()

	s, err := Open(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	svc := player.NewService(s, nil, player.DefaultConfig())
	p, err := svc.Create(ctx, "neo", false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := svc.AddCredits(ctx, p, 100, "test"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Upgrade(ctx, p, hardware.RAM); err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	svc = player.NewService(s, nil, player.DefaultConfig())
	p, err = svc.GetByName(ctx, "NEO")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if p.Credits() != 50 || p.Computer.Tier(hardware.RAM) != 2 {
		t.Errorf("credits = %d, ram tier = %d", p.Credits(), p.Computer.Tier(hardware.RAM))
	}
}

func TestSQLiteStore_Ping(t *testing.T) {
	s := createTestStore(t)
	if err := s.PingContext(context.Background()); err != nil {
		t.Errorf("PingContext() error = %v", err)
	}
}
