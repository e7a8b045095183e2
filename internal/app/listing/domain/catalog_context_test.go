package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogContext_Descendants(t *testing.T) {
	cc := NewCatalogContext(testTree(), nil)

	assert.Equal(t, []string{"electronics", "phones", "laptops"}, cc.Descendants("electronics"))
	assert.Equal(t, []string{"brakes"}, cc.Descendants("brakes"))
	assert.Equal(t, []string{"unknown"}, cc.Descendants("unknown"))
}

func TestCatalogContext_ZeroValue(t *testing.T) {
	var cc CatalogContext

	assert.Equal(t, "acme", cc.BrandLabel("acme"))
	assert.Equal(t, "tools", cc.CategoryLabel("tools"))
	assert.Equal(t, []string{"tools"}, cc.Descendants("tools"))
	assert.Equal(t, []string{"drills", "tools"}, cc.Chain(Product{Category: "tools", Subcategory: "drills"}))
}
