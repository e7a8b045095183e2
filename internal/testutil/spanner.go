// Package testutil holds helpers for tests that need a Spanner database.
// They run against the emulator with the schema from migrations/ applied
// (go run ./cmd/migrate) and skip when SPANNER_EMULATOR_HOST is unset.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/catalog-listing/internal/models/m_brand"
	"github.com/light-bringer/catalog-listing/internal/models/m_category"
	"github.com/light-bringer/catalog-listing/internal/models/m_product"
)

const defaultTestDatabase = "projects/test-project/instances/test-instance/databases/catalog-listing-test"

// SetupSpannerTest creates a test Spanner client over an empty database and
// returns a cleanup function.
func SetupSpannerTest(t *testing.T) (*spanner.Client, func()) {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := spanner.NewClient(ctx, GetTestSpannerDB())
	require.NoError(t, err, "failed to create Spanner client")

	CleanDatabase(t, client)

	cleanup := func() {
		CleanDatabase(t, client)
		client.Close()
	}

	return client, cleanup
}

// GetTestSpannerDB returns the test Spanner database string.
func GetTestSpannerDB() string {
	if db := os.Getenv("LISTING_TEST_SPANNER_DATABASE"); db != "" {
		return db
	}
	return defaultTestDatabase
}

// CleanDatabase truncates all catalog tables for test isolation.
func CleanDatabase(t *testing.T, client *spanner.Client) {
	t.Helper()

	mutations := []*spanner.Mutation{
		m_product.NewModel().DeleteAllMut(),
		m_category.NewModel().DeleteAllMut(),
		m_brand.NewModel().DeleteAllMut(),
	}

	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err, "failed to clean database")
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, expectedCount int) {
	t.Helper()

	stmt := spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	}

	iter := client.Single().Query(context.Background(), stmt)
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	require.NoError(t, row.Columns(&count), "failed to parse count")
	require.Equal(t, int64(expectedCount), count, "unexpected row count in table %s", table)
}
