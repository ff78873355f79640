package observ

import (
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("structure")
	time.Sleep(time.Millisecond)
	timer.End(idx, "json")

	report := timer.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("phases = %d", len(report.Phases))
	}
	p := report.Phases[0]
	if p.Name != "structure" || p.Note != "json" {
		t.Errorf("phase = %+v", p)
	}
	if p.DurationMS <= 0 || report.TotalMS < p.DurationMS {
		t.Errorf("durations: phase %.3f, total %.3f", p.DurationMS, report.TotalMS)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	timer := NewTimer()
	timer.End(5, "")
	if len(timer.Report().Phases) != 0 {
		t.Error("out-of-range End must not create phases")
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Errorf("empty report = %+v", r)
	}
}
