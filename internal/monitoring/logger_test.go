package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = format
	})
	Logf("replay: rewinding %s", "gps.csv")
	if got != "replay: rewinding %s" {
		t.Errorf("custom logger not invoked, got %q", got)
	}

	// nil installs a no-op, not a nil func
	SetLogger(nil)
	if Logf == nil {
		t.Fatal("Logf should never be nil")
	}
	Logf("must not panic")
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should default to a usable logger")
	}
}
