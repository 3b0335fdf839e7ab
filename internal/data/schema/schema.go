// Package schema carries the table definitions the repositories rely on.
package schema

import (
	"context"
	_ "embed"
	"fmt"

	"backoffice/pkg/database"
)

//go:embed schema.sql
var SQL string

// Apply creates any missing tables. Every statement is idempotent.
func Apply(ctx context.Context, db database.Querier) error {
	if _, err := db.Exec(ctx, SQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
