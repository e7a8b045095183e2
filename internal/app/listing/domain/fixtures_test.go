package domain

import "fmt"

func floatPtr(f float64) *float64 { return &f }

func newTestProduct(id string, brand string, price float64) Product {
	return Product{
		ID:          id,
		Name:        "Product " + id,
		Description: "A product",
		Brand:       brand,
		Category:    "electronics",
		Subcategory: "phones",
		Price:       price,
		Rating:      4,
		Reviews:     10,
		InStock:     true,
	}
}

// brandCatalog returns 20 products: brand A x8, B x7, C x5.
func brandCatalog() []Product {
	products := make([]Product, 0, 20)
	add := func(brand string, n int) {
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("%d", len(products)+1)
			products = append(products, newTestProduct(id, brand, float64(10*(len(products)+1))))
		}
	}
	add("A", 8)
	add("B", 7)
	add("C", 5)
	return products
}

func testTree() []Category {
	return []Category{
		{ID: "1", Slug: "electronics", Name: "Electronics", Children: []Category{
			{ID: "2", Slug: "phones", Name: "Phones"},
			{ID: "3", Slug: "laptops", Name: "Laptops"},
		}},
		{ID: "4", Slug: "auto-parts", Name: "Auto Parts", Children: []Category{
			{ID: "5", Slug: "brakes", Name: "Brakes"},
		}},
	}
}
