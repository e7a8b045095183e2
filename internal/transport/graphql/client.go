// Package graphql is a CatalogBackend over a storefront GraphQL endpoint.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gql "github.com/hasura/go-graphql-client"
	"go.uber.org/zap"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
)

// ErrEmptyResponse is returned when the endpoint answers without data.
var ErrEmptyResponse = errors.New("graphql: response has no data")

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client sends catalog queries to a GraphQL endpoint.
type Client struct {
	gql    *gql.Client
	http   HTTPClient
	logger *zap.Logger
	header http.Header
}

var _ contracts.CatalogBackend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c HTTPClient) Option {
	return func(cl *Client) { cl.http = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// WithHeader adds a header to every request, such as an API key.
func WithHeader(key, value string) Option {
	return func(cl *Client) { cl.header.Add(key, value) }
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("graphql: endpoint is required")
	}
	c := &Client{
		http:   &http.Client{Timeout: 15 * time.Second},
		logger: zap.NewNop(),
		header: http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.gql = gql.NewClient(endpoint, statusDoer{next: c.http}).WithRequestModifier(func(r *http.Request) {
		r.Header.Set("Accept", "application/json")
		for k, vs := range c.header {
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}
	})
	return c, nil
}

// Error is one entry of a GraphQL errors array.
type Error struct {
	Message string
	Code    string
}

// Errors is a non-empty GraphQL errors array.
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		if err.Code != "" {
			msgs = append(msgs, err.Code+": "+err.Message)
			continue
		}
		msgs = append(msgs, err.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

func fromWire(errs gql.Errors) Errors {
	out := make(Errors, 0, len(errs))
	for _, e := range errs {
		code, _ := e.Extensions["code"].(string)
		out = append(out, Error{Message: e.Message, Code: code})
	}
	return out
}

// StatusError reports a non-2xx HTTP answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graphql: http %d: %s", e.StatusCode, e.Body)
}

type callStateKey struct{}

// callState carries the transport failure of one exec back past the
// graphql client, which flattens it into its own error list.
type callState struct {
	status *StatusError
}

// statusDoer turns non-2xx answers into a StatusError before the graphql
// client tries to decode them.
type statusDoer struct {
	next HTTPClient
}

func (d statusDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.next.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp, nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<12))
	_ = resp.Body.Close()
	statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	if st, ok := req.Context().Value(callStateKey{}).(*callState); ok {
		st.status = statusErr
	}
	return nil, statusErr
}

// variableMap converts a tagged variables struct into the map form the
// graphql client sends, keeping the struct's omitempty rules.
func variableMap(vars any) (map[string]any, error) {
	raw, err := json.Marshal(vars)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) exec(ctx context.Context, operation, query string, vars any, out any) error {
	variables, err := variableMap(vars)
	if err != nil {
		return fmt.Errorf("graphql: encode %s: %w", operation, err)
	}

	st := &callState{}
	data, err := c.gql.ExecRaw(context.WithValue(ctx, callStateKey{}, st), query, variables, gql.OperationName(operation))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("graphql: %s: %w", operation, ctxErr)
		}
		if st.status != nil {
			return st.status
		}
		var wire gql.Errors
		if errors.As(err, &wire) && len(wire) > 0 {
			return fromWire(wire)
		}
		return fmt.Errorf("graphql: %s: %w", operation, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("graphql: decode %s: %w", operation, err)
	}
	return nil
}

type facetsData struct {
	CatalogFacets *domain.Facets `json:"catalogFacets"`
}

// FetchFacets runs the facet query.
func (c *Client) FetchFacets(ctx context.Context, vars contracts.FacetVariables) (*domain.Facets, error) {
	var data facetsData
	if err := c.exec(ctx, "CatalogFacets", facetsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.CatalogFacets == nil {
		return nil, ErrEmptyResponse
	}
	return data.CatalogFacets, nil
}

type wireProduct struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	BrandID         string    `json:"brandId"`
	CategorySlug    string    `json:"categorySlug"`
	SubcategorySlug string    `json:"subcategorySlug"`
	Price           float64   `json:"price"`
	SpecialPrice    *float64  `json:"specialPrice"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"reviewCount"`
	InStock         bool      `json:"inStock"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"createdAt"`
}

type productsData struct {
	Products *struct {
		Items         []wireProduct           `json:"items"`
		PaginatorInfo contracts.PaginatorInfo `json:"paginatorInfo"`
	} `json:"products"`
}

// QueryProducts runs the product query. Items that fail normalisation are
// dropped and logged; the paginator still reports the backend totals.
func (c *Client) QueryProducts(ctx context.Context, vars contracts.ProductVariables) (*contracts.ProductPage, error) {
	var data productsData
	if err := c.exec(ctx, "CatalogProducts", productsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Products == nil {
		return nil, ErrEmptyResponse
	}

	items := make([]domain.Product, 0, len(data.Products.Items))
	for _, w := range data.Products.Items {
		p, err := w.toDomain()
		if err != nil {
			c.logger.Warn("dropping invalid product from backend", zap.String("product_id", w.ID), zap.Error(err))
			continue
		}
		items = append(items, p)
	}
	return &contracts.ProductPage{Items: items, PaginatorInfo: data.Products.PaginatorInfo}, nil
}

func (w wireProduct) toDomain() (domain.Product, error) {
	var special *domain.Money
	if w.SpecialPrice != nil {
		special = domain.NewMoneyFromFloat(*w.SpecialPrice)
	}
	price, original, err := domain.NormalizePrice(domain.NewMoneyFromFloat(w.Price), special)
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:            w.ID,
		Name:          w.Name,
		Description:   w.Description,
		Brand:         w.BrandID,
		Category:      w.CategorySlug,
		Subcategory:   w.SubcategorySlug,
		Price:         price,
		OriginalPrice: original,
		Rating:        w.Rating,
		Reviews:       w.ReviewCount,
		InStock:       w.InStock,
		Tags:          w.Tags,
		CreatedAt:     w.CreatedAt,
	}
	return p, p.Validate()
}
