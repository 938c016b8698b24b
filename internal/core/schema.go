package core

import (
	"context"

	"github.com/JonMunkholm/userupload/internal/logging"
)

type bootstrapStep struct {
	name string
	run  func(ctx context.Context) error
}

// Bootstrap drops and recreates the database and its users table.
// This is a destructive operation - it deletes every existing user.
//
// Each step is idempotent, so running Bootstrap twice leaves the same
// schema. The first failing step stops the sequence and is returned as a
// *StoreQueryError naming the step.
func Bootstrap(ctx context.Context, store Store, database string) error {
	d := store.Dialect()

	return runSteps(ctx, []bootstrapStep{
		{"drop database", func(ctx context.Context) error { return store.DropDatabase(ctx, database) }},
		{"create database", func(ctx context.Context) error { return store.CreateDatabase(ctx, database) }},
		{"select database", func(ctx context.Context) error { return store.SelectDatabase(ctx, database) }},
		{"drop table", func(ctx context.Context) error { return store.Exec(ctx, d.DropTableSQL(UsersTable)) }},
		{"create table", func(ctx context.Context) error { return store.Exec(ctx, d.CreateUsersTableSQL()) }},
	})
}

func runSteps(ctx context.Context, steps []bootstrapStep) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return &StoreQueryError{Op: step.name, Err: err}
		}
		if err := step.run(ctx); err != nil {
			return &StoreQueryError{Op: step.name, Err: err}
		}
		logging.FromContext(ctx).Debug("bootstrap step complete", "step", step.name)
	}
	return nil
}
