package health

import (
	"context"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewChecker(t *testing.T) {
	checker := NewChecker("parser", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "sample compiled"}
	})

	if checker.Name() != "parser" {
		t.Errorf("Name() = %v, want parser", checker.Name())
	}
	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]Status
		want     Status
	}{
		{"empty registry", nil, StatusHealthy},
		{"all healthy", map[string]Status{"a": StatusHealthy, "b": StatusHealthy}, StatusHealthy},
		{"one degraded", map[string]Status{"a": StatusHealthy, "b": StatusDegraded}, StatusDegraded},
		{"unset status counts as degraded", map[string]Status{"a": ""}, StatusDegraded},
		{"unhealthy wins", map[string]Status{"a": StatusDegraded, "b": StatusUnhealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry("mscheme", "0.0.1")
			for name, status := range tt.statuses {
				status := status
				r.RegisterFunc(name, func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}

			report := r.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Errorf("len(Checks) = %d, want %d", len(report.Checks), len(tt.statuses))
			}
		})
	}
}

func TestRegistry_ChecksSortedAndNamed(t *testing.T) {
	r := NewRegistry("mscheme", "0.0.1")
	r.Register(AlwaysHealthy("zeta"))
	r.RegisterFunc("alpha", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})

	report := r.Check(context.Background())

	if report.Checks[0].Name != "alpha" || report.Checks[1].Name != "zeta" {
		t.Errorf("checks not sorted by name: %+v", report.Checks)
	}
	if report.Checks[0].Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if !report.Healthy() {
		t.Error("Healthy() = false, want true")
	}
	if !strings.Contains(report.String(), "Service: mscheme") {
		t.Errorf("String() = %q", report.String())
	}
}

func TestRegistry_RunsConcurrently(t *testing.T) {
	r := NewRegistry("mscheme", "0.0.1")
	var running int32
	var peak int32
	for _, name := range []string{"a", "b", "c"} {
		r.RegisterFunc(name, func(ctx context.Context) CheckResult {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return CheckResult{Status: StatusHealthy}
		})
	}

	r.CheckWithTimeout(time.Second)

	if atomic.LoadInt32(&peak) < 2 {
		t.Errorf("peak concurrency = %d, want >= 2", peak)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry("mscheme", "0.0.1")
	r.Register(AlwaysHealthy("a"))
	r.Unregister("a")

	if got := len(r.Check(context.Background()).Checks); got != 0 {
		t.Errorf("len(Checks) = %d, want 0", got)
	}
}

func TestTCPCheck(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	addr := ln.Addr().String()

	up := TCPCheck("grpc", addr, time.Second).Check(context.Background())
	if up.Status != StatusHealthy {
		t.Errorf("open port Status = %v, want healthy (%s)", up.Status, up.Message)
	}

	ln.Close()

	down := TCPCheck("grpc", addr, 200*time.Millisecond).Check(context.Background())
	if down.Status != StatusUnhealthy {
		t.Errorf("closed port Status = %v, want unhealthy", down.Status)
	}
}
