package kmap

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew_Defaults(t *testing.T) {
	m := New(1)

	tests := []struct {
		cmd  string
		want State
	}{
		{"ls", StateIntegrated},
		{"print", StateIntegrated},
		{"scan", StateLocked},
		{"thread spawn", StateLocked},
		{"teleport", StateHidden},
	}
	for _, tt := range tests {
		if got := m.State(tt.cmd); got != tt.want {
			t.Errorf("State(%q) = %v, want %v", tt.cmd, got, tt.want)
		}
	}
	if m.IsCommandAvailable("scan") || m.IsCommandAvailable("teleport") {
		t.Error("locked and hidden commands must not be available")
	}
	if !m.IsCommandAvailable("cat") {
		t.Error("cat should be available")
	}
}

func TestDiscover_UnlocksAtThreshold(t *testing.T) {
	m := New(2)

	if m.Discover("scan") {
		t.Error("first fragment should not unlock with threshold 2")
	}
	if !m.IsDiscovered("scan") || m.State("scan") != StateLocked {
		t.Errorf("after one fragment: discovered=%v state=%v", m.IsDiscovered("scan"), m.State("scan"))
	}
	if !m.Discover("scan") {
		t.Error("second fragment should unlock")
	}
	if m.State("scan") != StateUnlocked || m.Fragments("scan") != 2 {
		t.Errorf("state=%v fragments=%d", m.State("scan"), m.Fragments("scan"))
	}
	if m.Discover("scan") {
		t.Error("discovering an unlocked command changes nothing")
	}
}

func TestDiscover_HiddenCommand(t *testing.T) {
	m := New(1)
	if !m.Discover("backdoor") {
		t.Fatal("hidden command should unlock on discovery")
	}
	if m.State("backdoor") != StateUnlocked {
		t.Errorf("State = %v", m.State("backdoor"))
	}
}

func TestIntegrate(t *testing.T) {
	m := New(1)

	if err := m.Integrate("scan"); err == nil {
		t.Error("integrating a locked command must fail")
	}
	m.Unlock("scan")
	if err := m.Integrate("scan"); err != nil {
		t.Fatalf("Integrate() error = %v", err)
	}
	if m.State("scan") != StateIntegrated {
		t.Errorf("State = %v", m.State("scan"))
	}
	if err := m.Integrate("scan"); err == nil {
		t.Error("integrating twice must fail")
	}
	if m.Unlock("scan") {
		t.Error("Unlock must not regress an integrated command")
	}
}

func TestScanForFragment(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		found   bool
	}{
		{"single marker", "Vulnerability found\nCMD_DECLARE: scan", "scan", true},
		{"two word command", "CMD_DECLARE: thread spawn\n", "thread spawn", true},
		{"trailing words ignored", "CMD_DECLARE: hashcrack now please", "hashcrack", true},
		{"already available", "CMD_DECLARE: ls", "", false},
		{"no marker", "nothing to see", "", false},
		{"first new one wins", "CMD_DECLARE: cat\nCMD_DECLARE: pivot\nCMD_DECLARE: raw", "pivot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(1)
			got, found := m.ScanForFragment(tt.content)
			if got != tt.want || found != tt.found {
				t.Errorf("ScanForFragment() = %q, %v; want %q, %v", got, found, tt.want, tt.found)
			}
			if found && m.State(got) != StateUnlocked {
				t.Errorf("%q not unlocked after discovery", got)
			}
		})
	}
}

func TestScanForFragment_RecordsEveryMarker(t *testing.T) {
	m := New(1)
	m.ScanForFragment("CMD_DECLARE: pivot\nCMD_DECLARE: raw")
	if m.State("raw") != StateUnlocked {
		t.Errorf("raw State = %v", m.State("raw"))
	}
}

func TestSnapshotRestore(t *testing.T) {
	m := New(3)
	m.AddFragments("run", 1)
	m.Unlock("edit")
	if err := m.Integrate("edit"); err != nil {
		t.Fatal(err)
	}

	snap := m.Snapshot()
	restored := Restore(snap, 3)

	if diff := cmp.Diff(snap, restored.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if restored.Fragments("run") != 1 || !restored.IsDiscovered("run") {
		t.Error("fragments not restored")
	}
}

func TestRestore_MostAdvancedStateWins(t *testing.T) {
	m := Restore(Snapshot{
		Locked:     []string{"scan", "run"},
		Unlocked:   []string{"scan"},
		Integrated: []string{"run"},
	}, 1)
	if m.State("scan") != StateUnlocked || m.State("run") != StateIntegrated {
		t.Errorf("scan=%v run=%v", m.State("scan"), m.State("run"))
	}
}

func TestConcurrentDiscovery(t *testing.T) {
	m := New(50)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Discover("hashcrack")
		}()
	}
	wg.Wait()

	if m.State("hashcrack") != StateUnlocked {
		t.Errorf("State = %v after 50 fragments", m.State("hashcrack"))
	}
}

func TestParseMarkers(t *testing.T) {
	got := ParseMarkers("a\nCMD_DECLARE: scan\nCMD_DECLARE:raw")
	if diff := cmp.Diff([]string{"scan", "raw"}, got); diff != "" {
		t.Errorf("ParseMarkers (-want +got):\n%s", diff)
	}
}
