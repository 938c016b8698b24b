package core

import (
	"context"
	"errors"
	"testing"
)

func TestBootstrap_Steps(t *testing.T) {
	store := newFakeStore()

	if err := Bootstrap(context.Background(), store, "user_upload"); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}

	want := []string{
		"DropDatabase user_upload",
		"CreateDatabase user_upload",
		"SelectDatabase user_upload",
		"Exec " + Postgres.DropTableSQL(UsersTable),
		"Exec " + Postgres.CreateUsersTableSQL(),
	}
	if len(store.calls) != len(want) {
		t.Fatalf("calls = %q, want %q", store.calls, want)
	}
	for i := range want {
		if store.calls[i] != want[i] {
			t.Errorf("call[%d] = %q, want %q", i, store.calls[i], want[i])
		}
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	if err := Bootstrap(ctx, store, "user_upload"); err != nil {
		t.Fatalf("first Bootstrap() error = %v", err)
	}
	first := store.databases["user_upload"].schema

	store.databases["user_upload"].emails["old@example.com"] = true

	if err := Bootstrap(ctx, store, "user_upload"); err != nil {
		t.Fatalf("second Bootstrap() error = %v", err)
	}
	db := store.databases["user_upload"]

	if db.schema != first {
		t.Errorf("schema changed:\n%s\n---\n%s", first, db.schema)
	}
	if len(db.emails) != 0 {
		t.Errorf("users survived re-bootstrap: %v", db.emails)
	}
}

func TestBootstrap_StepFailure(t *testing.T) {
	tests := []struct {
		failOp   string
		wantStep string
		wantRuns int
	}{
		{"DropDatabase", "drop database", 1},
		{"CreateDatabase", "create database", 2},
		{"SelectDatabase", "select database", 3},
		{"Exec", "drop table", 4},
	}

	for _, tt := range tests {
		t.Run(tt.failOp, func(t *testing.T) {
			store := newFakeStore()
			cause := errors.New("permission denied")
			store.failOn[tt.failOp] = cause

			err := Bootstrap(context.Background(), store, "user_upload")

			var qerr *StoreQueryError
			if !errors.As(err, &qerr) {
				t.Fatalf("Bootstrap() error = %v, want *StoreQueryError", err)
			}
			if qerr.Op != tt.wantStep {
				t.Errorf("Op = %q, want %q", qerr.Op, tt.wantStep)
			}
			if !errors.Is(err, cause) {
				t.Error("error should wrap the store error")
			}
			if !IsFatal(err) {
				t.Error("bootstrap failure should be fatal")
			}
			if len(store.calls) != tt.wantRuns {
				t.Errorf("calls = %q, want %d", store.calls, tt.wantRuns)
			}
		})
	}
}

func TestBootstrap_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newFakeStore()
	err := Bootstrap(ctx, store, "user_upload")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Bootstrap() error = %v, want context.Canceled", err)
	}
	if len(store.calls) != 0 {
		t.Errorf("calls = %q, want none", store.calls)
	}
}
