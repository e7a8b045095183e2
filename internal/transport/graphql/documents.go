package graphql

// facetsQuery fetches the selection-independent filter facets. Category
// trees are requested three levels deep.
const facetsQuery = `query CatalogFacets($searchQuery: String) {
  catalogFacets(searchQuery: $searchQuery) {
    categories {
      ...CategoryFields
      children {
        ...CategoryFields
        children { ...CategoryFields }
      }
    }
    brands { id name }
    minPrice
    maxPrice
  }
}

fragment CategoryFields on CategoryFacet {
  id
  slug
  name
  productCount
}`

// productsQuery fetches one filtered, sorted page.
const productsQuery = `query CatalogProducts(
  $searchQuery: String
  $categorySlug: String
  $subcategorySlugs: [String!]
  $brandIds: [ID!]
  $minPrice: Float
  $maxPrice: Float
  $minRating: Int
  $inStock: Boolean
  $sortBy: ProductSort!
  $page: Int!
  $perPage: Int!
) {
  products(
    searchQuery: $searchQuery
    categorySlug: $categorySlug
    subcategorySlugs: $subcategorySlugs
    brandIds: $brandIds
    minPrice: $minPrice
    maxPrice: $maxPrice
    minRating: $minRating
    inStock: $inStock
    sortBy: $sortBy
    page: $page
    perPage: $perPage
  ) {
    items {
      id
      name
      description
      brandId
      categorySlug
      subcategorySlug
      price
      specialPrice
      rating
      reviewCount
      inStock
      tags
      createdAt
    }
    paginatorInfo { total lastPage currentPage }
  }
}`
