package m_category

import (
	"cloud.google.com/go/spanner"
)

// Field name constants for the categories table.
const (
	TableName = "categories"

	CategorySlug = "category_slug"
	ParentSlug   = "parent_slug"
	Name         = "name"
	Position     = "position"
)

// Data represents a row of the categories table. Roots have no parent.
type Data struct {
	CategorySlug string             `spanner:"category_slug"`
	ParentSlug   spanner.NullString `spanner:"parent_slug"`
	Name         string             `spanner:"name"`
	Position     int64              `spanner:"position"`
}

// Model provides a facade for type-safe operations on the categories table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a mutation that inserts or replaces a category.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{CategorySlug, ParentSlug, Name, Position},
		[]interface{}{data.CategorySlug, data.ParentSlug, data.Name, data.Position},
	)
}

// DeleteAllMut creates a mutation that removes every category.
func (m *Model) DeleteAllMut() *spanner.Mutation {
	return spanner.Delete(TableName, spanner.AllKeys())
}
