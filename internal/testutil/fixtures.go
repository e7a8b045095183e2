package testutil

import (
	"context"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/catalog-listing/internal/app/listing/repo"
	"github.com/light-bringer/catalog-listing/internal/pkg/committer"
)

// SeedBundledCatalog writes the bundled catalog and returns it.
func SeedBundledCatalog(t *testing.T, client *spanner.Client) *repo.CatalogFile {
	t.Helper()

	f, err := repo.BundledCatalog()
	require.NoError(t, err, "failed to parse bundled catalog")

	SeedCatalog(t, client, f)
	return f
}

// SeedCatalog writes f into the database in one commit.
func SeedCatalog(t *testing.T, client *spanner.Client, f *repo.CatalogFile) {
	t.Helper()

	plan, err := repo.CatalogPlan(f, repo.SeedOptions{})
	require.NoError(t, err, "failed to build seed plan")

	err = committer.NewCommitter(client).Apply(context.Background(), plan)
	require.NoError(t, err, "failed to seed catalog")
}
