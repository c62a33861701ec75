package cronrunner

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"@every 6h", false},
		{"@hourly", false},
		{"0 */6 * * *", false},
		{"30 0 */6 * * *", false},
		{"every six hours", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := Validate(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestRunner_Add(t *testing.T) {
	r := New(zap.NewNop(), nil)
	if _, err := r.Add("not a spec", func(context.Context) {}); err == nil {
		t.Error("Add() with an invalid spec expected an error")
	}
	if _, err := r.Add("@every 1h", func(context.Context) {}); err != nil {
		t.Errorf("Add() error: %v", err)
	}
}

func TestRunner_RunsWithBaseContext(t *testing.T) {
	type ctxKey struct{}
	base := context.WithValue(context.Background(), ctxKey{}, "base")

	r := New(nil, base)
	got := make(chan interface{}, 1)
	if _, err := r.Add("@every 1s", func(ctx context.Context) {
		select {
		case got <- ctx.Value(ctxKey{}):
		default:
		}
	}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	r.Start()
	defer r.Stop()

	select {
	case v := <-got:
		if v != "base" {
			t.Errorf("job context value = %v, want %q", v, "base")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
