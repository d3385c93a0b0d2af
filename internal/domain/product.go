package domain

// Product is a recommended shoppable item bundle attached to an assistant
// turn. A product is only meaningful for selection when its shopping search
// returned at least one result.
type Product struct {
	ID             int            `json:"id,omitempty"`
	Name           string         `json:"name,omitempty"`
	Properties     []string       `json:"properties,omitempty"`
	ShoppingSearch ShoppingSearch `json:"shopping_search"`
}

// ShoppingSearch holds the shopping results found for a product.
type ShoppingSearch struct {
	ResultsCount    int            `json:"results_count"`
	SearchQuery     string         `json:"search_query"`
	ShoppingResults []ShoppingItem `json:"shopping_results"`
}

// ShoppingItem is one purchasable option. Price is a display string, not a
// numeric amount.
type ShoppingItem struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Thumbnail string `json:"thumbnail"`
	Link      string `json:"link"`
}

// HasShoppingResults reports whether the product carries at least one
// purchasable option.
func (p Product) HasShoppingResults() bool {
	return len(p.ShoppingSearch.ShoppingResults) > 0
}
