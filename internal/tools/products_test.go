package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	response string
	prompts  []string
	err      error
}

func (s *stubExtractor) Invoke(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const productArrayJSON = `[
	{
		"product_id": "P-001",
		"name": "Wireless Mouse",
		"description": "A compact wireless mouse",
		"price": 24.99,
		"category": "electronics",
		"stock_quantity": 120,
		"rating": 4.3,
		"created_at": "2026-01-15T09:30:00Z"
	},
	{
		"product_id": "P-002",
		"name": "Paperback Novel",
		"description": "A bestselling paperback",
		"price": 12.50,
		"category": "books",
		"stock_quantity": 40,
		"rating": 4.8,
		"created_at": "2026-02-02T14:00:00Z"
	}
]`

func TestGenerateParsesArray(t *testing.T) {
	stub := &stubExtractor{response: "Sure, here you go:\n" + productArrayJSON + "\nEnjoy!"}
	g := NewProductGenerator(stub)

	products, err := g.Generate(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "P-001", products[0].ProductID)
	assert.Equal(t, 24.99, products[0].Price)
	assert.Equal(t, 40, products[1].StockQuantity)

	require.Len(t, stub.prompts, 1)
	assert.True(t, strings.HasPrefix(stub.prompts[0], "Generate 2 realistic product entries"))
}

func TestGenerateDefaultsCount(t *testing.T) {
	stub := &stubExtractor{response: productArrayJSON}
	g := NewProductGenerator(stub)

	_, err := g.Generate(context.Background(), 0)
	require.NoError(t, err)
	assert.Contains(t, stub.prompts[0], "Generate 10 realistic product entries")
}

func TestGenerateNoArrayInResponse(t *testing.T) {
	stub := &stubExtractor{response: "I cannot generate products right now."}
	g := NewProductGenerator(stub)

	_, err := g.Generate(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON array found")
}

func TestGenerateMissingFieldFails(t *testing.T) {
	stub := &stubExtractor{response: `[{"product_id": "P-001", "name": "Mouse"}]`}
	g := NewProductGenerator(stub)

	_, err := g.Generate(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid product structure")
	assert.Contains(t, err.Error(), "description")
}

func TestGenerateBackendErrorPropagates(t *testing.T) {
	stub := &stubExtractor{err: errors.New("backend unreachable")}
	g := NewProductGenerator(stub)

	_, err := g.Generate(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unreachable")
}

func TestRowsFlattening(t *testing.T) {
	products := []Product{{
		ProductID:     "P-001",
		Name:          "Wireless Mouse",
		Description:   "A compact wireless mouse",
		Price:         24.9,
		Category:      "electronics",
		StockQuantity: 120,
		Rating:        4.25,
		CreatedAt:     "2026-01-15T09:30:00Z",
	}}

	header, rows := Rows(products)
	assert.Equal(t, []string{"product_id", "name", "description", "price",
		"category", "stock_quantity", "rating", "created_at"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"P-001", "Wireless Mouse", "A compact wireless mouse",
		"24.90", "electronics", "120", "4.2", "2026-01-15T09:30:00Z"}, rows[0])
}

func TestRowsEmpty(t *testing.T) {
	header, rows := Rows(nil)
	require.Len(t, header, 8)
	assert.Empty(t, rows)
}
