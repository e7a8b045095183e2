package m_brand

import (
	"cloud.google.com/go/spanner"
)

// Field name constants for the brands table.
const (
	TableName = "brands"

	BrandID = "brand_id"
	Name    = "name"
)

// Data represents a row of the brands table.
type Data struct {
	BrandID string `spanner:"brand_id"`
	Name    string `spanner:"name"`
}

// Model provides a facade for type-safe operations on the brands table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a mutation that inserts or replaces a brand.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{BrandID, Name},
		[]interface{}{data.BrandID, data.Name},
	)
}

// DeleteAllMut creates a mutation that removes every brand.
func (m *Model) DeleteAllMut() *spanner.Mutation {
	return spanner.Delete(TableName, spanner.AllKeys())
}
