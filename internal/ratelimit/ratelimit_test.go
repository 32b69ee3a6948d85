package ratelimit

import (
	"testing"
)

func TestLimiter_AllowWithinLimit(t *testing.T) {
	l := New(Config{RequestsPerMinute: 3})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if l.Allow("10.0.0.1") {
		t.Error("request over the limit should be denied")
	}
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := New(Config{RequestsPerMinute: 1})
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("first client should be allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("second client should have its own window")
	}
	if l.Allow("10.0.0.1") {
		t.Error("first client should now be limited")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	l := New(Config{RequestsPerMinute: 5})
	defer l.Stop()

	if got := l.Remaining("c"); got != 5 {
		t.Errorf("Remaining() = %d, want 5", got)
	}

	l.Allow("c")
	l.Allow("c")

	if got := l.Remaining("c"); got != 3 {
		t.Errorf("Remaining() = %d, want 3", got)
	}
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l := New(Config{})
	defer l.Stop()

	if got := l.Remaining("c"); got != 30 {
		t.Errorf("default Remaining() = %d, want 30", got)
	}
}
