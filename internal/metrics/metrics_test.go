package metrics

import (
	"errors"
	"testing"
	"time"
)

type captureBackend struct {
	counters map[string]float64
	statuses map[string]string
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name+"/"+labels["kind"]+labels["step"]] += delta
	if s, ok := labels["status"]; ok {
		c.statuses[labels["step"]] = s
	}
}
func (c *captureBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (c *captureBackend) Flush() error                                               { return nil }

func install(t *testing.T) *captureBackend {
	t.Helper()
	b := &captureBackend{counters: map[string]float64{}, statuses: map[string]string{}}
	SetBackend(b)
	t.Cleanup(func() { SetBackend(nopBackend{}) })
	return b
}

func TestRecordStepStatus(t *testing.T) {
	b := install(t)
	RecordStep("job", "load_valid", nil, time.Millisecond)
	RecordStep("job", "dim_date", errors.New("boom"), time.Millisecond)

	if b.statuses["load_valid"] != "success" {
		t.Errorf("load_valid status = %q, want success", b.statuses["load_valid"])
	}
	if b.statuses["dim_date"] != "failure" {
		t.Errorf("dim_date status = %q, want failure", b.statuses["dim_date"])
	}
}

func TestRecordRowIgnoresNonPositive(t *testing.T) {
	b := install(t)
	RecordRow("job", "valid", 3)
	RecordRow("job", "valid", 0)
	RecordRow("job", "defective", -1)

	if got := b.counters["dw_records_total/valid"]; got != 3 {
		t.Errorf("valid counter = %v, want 3", got)
	}
	if got := b.counters["dw_records_total/defective"]; got != 0 {
		t.Errorf("defective counter = %v, want 0", got)
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	b := install(t)
	SetBackend(nil)
	RecordRow("job", "valid", 1)
	if b.counters["dw_records_total/valid"] != 1 {
		t.Error("nil SetBackend replaced the active backend")
	}
}
