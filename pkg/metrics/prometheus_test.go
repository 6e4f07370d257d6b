package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRecorderGathersWithRunLabel(t *testing.T) {
	r := New("run-1")
	r.RecordRecords("priced", 4)
	r.RecordAdjustment("elasticity", "up")
	r.RecordSignal("elasticity", -1.4)
	r.RecordLatency("pricing", 0.01)
	r.RecordError("load")

	mfs, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() != "fitprice_records_total" {
			continue
		}
		found = true
		m := mf.GetMetric()[0]
		if m.GetCounter().GetValue() != 4 {
			t.Fatalf("unexpected counter value %v", m.GetCounter().GetValue())
		}
		hasRun := false
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "run_id" && lp.GetValue() == "run-1" {
				hasRun = true
			}
		}
		if !hasRun {
			t.Fatalf("run_id label missing: %v", m.GetLabel())
		}
	}
	if !found {
		t.Fatalf("fitprice_records_total metric not found")
	}
}

func TestRecordersAreIndependent(t *testing.T) {
	// Separate registries: constructing twice must not panic on duplicate registration.
	New("a").RecordRecords("loaded", 1)
	New("b").RecordRecords("loaded", 1)
}

func TestWriteTextfile(t *testing.T) {
	r := New("run-2")
	r.RecordSignal("mean_bookings", 12.5)
	path := filepath.Join(t.TempDir(), "nested", "pricing.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(b), `fitprice_signal_value{run_id="run-2",signal="mean_bookings"} 12.5`) {
		t.Fatalf("unexpected textfile contents:\n%s", b)
	}
}
