package repo

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
)

//go:embed catalog.yaml
var bundledCatalog []byte

// CatalogFile is the YAML layout of a static catalog.
type CatalogFile struct {
	Categories []CategoryEntry `yaml:"categories"`
	Brands     []BrandEntry    `yaml:"brands"`
	Products   []ProductEntry  `yaml:"products"`
}

// CategoryEntry is one node of the category tree.
type CategoryEntry struct {
	Slug     string          `yaml:"slug"`
	Name     string          `yaml:"name"`
	Children []CategoryEntry `yaml:"children"`
}

// BrandEntry is one brand.
type BrandEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ProductEntry is one product as written in the file. Prices are decimal
// strings so they parse exactly.
type ProductEntry struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	Description  string    `yaml:"description"`
	Brand        string    `yaml:"brand"`
	Category     string    `yaml:"category"`
	Subcategory  string    `yaml:"subcategory"`
	BasePrice    string    `yaml:"basePrice"`
	SpecialPrice string    `yaml:"specialPrice"`
	Rating       float64   `yaml:"rating"`
	Reviews      int       `yaml:"reviews"`
	InStock      bool      `yaml:"inStock"`
	Tags         []string  `yaml:"tags"`
	CreatedAt    time.Time `yaml:"createdAt"`
}

// Prices parses the base and optional special price.
func (e ProductEntry) Prices() (base, special *domain.Money, err error) {
	base, err = domain.ParseMoney(e.BasePrice)
	if err != nil {
		return nil, nil, fmt.Errorf("base price: %w", err)
	}
	if e.SpecialPrice != "" {
		special, err = domain.ParseMoney(e.SpecialPrice)
		if err != nil {
			return nil, nil, fmt.Errorf("special price: %w", err)
		}
	}
	return base, special, nil
}

// Product normalises the entry into a validated domain product.
func (e ProductEntry) Product() (domain.Product, error) {
	base, special, err := e.Prices()
	if err != nil {
		return domain.Product{}, err
	}
	price, original, err := domain.NormalizePrice(base, special)
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:            e.ID,
		Name:          e.Name,
		Description:   e.Description,
		Brand:         e.Brand,
		Category:      e.Category,
		Subcategory:   e.Subcategory,
		Price:         price,
		OriginalPrice: original,
		Rating:        e.Rating,
		Reviews:       e.Reviews,
		InStock:       e.InStock,
		Tags:          e.Tags,
		CreatedAt:     e.CreatedAt,
	}
	return p, p.Validate()
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(raw []byte) (*CatalogFile, error) {
	var f CatalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	return &f, nil
}

// BundledCatalog returns the catalog compiled into the binary.
func BundledCatalog() (*CatalogFile, error) {
	return ParseCatalog(bundledCatalog)
}

// ReadCatalogFile loads a catalog from path, or the bundled catalog when
// path is empty.
func ReadCatalogFile(path string) (*CatalogFile, error) {
	if path == "" {
		return BundledCatalog()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return ParseCatalog(raw)
}

// StaticCatalog is a ProductSource over a YAML catalog, parsed lazily on
// first access.
type StaticCatalog struct {
	path   string
	logger *zap.Logger

	once     sync.Once
	products []domain.Product
	tree     []domain.Category
	brands   []domain.Brand
	err      error
}

var _ contracts.ProductSource = (*StaticCatalog)(nil)

// NewStaticCatalog creates a catalog reading path, or the bundled catalog
// when path is empty.
func NewStaticCatalog(path string, logger *zap.Logger) *StaticCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaticCatalog{path: path, logger: logger}
}

// Products returns a copy of the catalog's valid products.
func (c *StaticCatalog) Products(_ context.Context) ([]domain.Product, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	cp := make([]domain.Product, len(c.products))
	copy(cp, c.products)
	return cp, nil
}

// Taxonomy returns the category tree and brands.
func (c *StaticCatalog) Taxonomy(_ context.Context) ([]domain.Category, []domain.Brand, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, nil, c.err
	}
	return c.tree, c.brands, nil
}

func (c *StaticCatalog) load() {
	f, err := ReadCatalogFile(c.path)
	if err != nil {
		c.err = fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		return
	}

	c.tree = toCategories(f.Categories)
	c.brands = make([]domain.Brand, 0, len(f.Brands))
	for _, b := range f.Brands {
		c.brands = append(c.brands, domain.Brand{ID: b.ID, Name: b.Name})
	}
	c.products = make([]domain.Product, 0, len(f.Products))
	for _, e := range f.Products {
		p, err := e.Product()
		if err != nil {
			c.logger.Warn("skipping invalid catalog product", zap.String("product_id", e.ID), zap.Error(err))
			continue
		}
		c.products = append(c.products, p)
	}
	c.logger.Debug("static catalog loaded",
		zap.Int("products", len(c.products)),
		zap.Int("brands", len(c.brands)),
	)
}

func toCategories(entries []CategoryEntry) []domain.Category {
	if len(entries) == 0 {
		return nil
	}
	out := make([]domain.Category, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.Category{
			ID:       e.Slug,
			Slug:     e.Slug,
			Name:     e.Name,
			Children: toCategories(e.Children),
		})
	}
	return out
}
