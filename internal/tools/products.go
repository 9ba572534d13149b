package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Extractor is the prompt-in, text-out backend used for data generation.
type Extractor interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Product is one generated catalogue entry. All eight fields are
// mandatory on every element returned by the backend.
type Product struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	StockQuantity int     `json:"stock_quantity"`
	Rating        float64 `json:"rating"`
	CreatedAt     string  `json:"created_at"`
}

var productFields = []string{
	"product_id", "name", "description", "price",
	"category", "stock_quantity", "rating", "created_at",
}

const productPrompt = `Generate %d realistic product entries with the following fields:
- product_id (unique string)
- name (string)
- description (string)
- price (float)
- category (string)
- stock_quantity (integer)
- rating (float between 1-5)
- created_at (ISO date string)

Return the data as a JSON array of objects. Make the data realistic and varied.
Include different categories like electronics, clothing, books, etc.
Ensure prices are realistic for each category.
IMPORTANT: Do not include any text before or after the JSON array. Just the JSON array.`

// ProductGenerator produces sample product data through the extraction
// backend.
type ProductGenerator struct {
	LLM Extractor
}

func NewProductGenerator(llm Extractor) *ProductGenerator {
	return &ProductGenerator{LLM: llm}
}

// Generate asks the backend for count product entries and validates the
// result. Unlike task analysis there is no fail-soft path: bad product
// data is an error for the caller to report.
func (g *ProductGenerator) Generate(ctx context.Context, count int) ([]Product, error) {
	if count <= 0 {
		count = 10
	}

	response, err := g.LLM.Invoke(ctx, fmt.Sprintf(productPrompt, count))
	if err != nil {
		return nil, fmt.Errorf("product generation call failed: %w", err)
	}

	products, err := parseProducts(response)
	if err != nil {
		return nil, fmt.Errorf("error generating product data: %w", err)
	}
	return products, nil
}

// parseProducts extracts the first [...] span from the raw response and
// checks that every element carries all eight product fields.
func parseProducts(raw string) ([]Product, error) {
	content := strings.TrimSpace(raw)
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}
	jsonStr := content[start : end+1]

	var rawProducts []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &rawProducts); err != nil {
		return nil, err
	}
	for _, p := range rawProducts {
		for _, field := range productFields {
			if _, ok := p[field]; !ok {
				return nil, fmt.Errorf("invalid product structure: missing %s", field)
			}
		}
	}

	var products []Product
	if err := json.Unmarshal([]byte(jsonStr), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Rows flattens products into a header row plus one row per product,
// ready for the sheet service.
func Rows(products []Product) ([]string, [][]string) {
	header := []string{"product_id", "name", "description", "price",
		"category", "stock_quantity", "rating", "created_at"}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.ProductID,
			p.Name,
			p.Description,
			fmt.Sprintf("%.2f", p.Price),
			p.Category,
			fmt.Sprintf("%d", p.StockQuantity),
			fmt.Sprintf("%.1f", p.Rating),
			p.CreatedAt,
		})
	}
	return header, rows
}
