package insights

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"inventory-tracker/core/reconcile"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Thresholds used by the prompt and the local generator.
const (
	ExpiryHorizonDays = 30
	LowStockQuantity  = 5
)

// NoProductsDocument is returned for an empty inventory without calling a provider.
const NoProductsDocument = "### No Products\nThere are no products in the inventory to analyze."

var promptTemplate = template.Must(template.New("insights").Parse(`You are an expert inventory analyst. Your task is to analyze the provided list of products and generate a concise, actionable summary in markdown format.

The current date is {{.Today}}.

Your analysis must include the following sections, each starting with a '###' title on its own line. There MUST be a newline character after each title.
- ### Expiring Soon
  List products that will expire within the next {{.HorizonDays}} days. Include the product name and expiry date. If none, state "No items are expiring soon."
- ### Low Stock
  List products with a quantity of {{.LowStock}} or less. Include the product name and current quantity. If none, state "No items are low in stock."
- ### Overall Summary
  Provide a brief, one-paragraph, high-level summary of the inventory's status.

Analyze the following products:
{{.Products}}

Respond with the markdown document only. Be clear and concise.`))

// promptProduct is the product shape sent to the model.
type promptProduct struct {
	ProductName     string  `json:"productName"`
	ExpiryDate      string  `json:"expiryDate"`
	ManufactureDate *string `json:"manufactureDate,omitempty"`
	Ingredient      *string `json:"ingredient,omitempty"`
	Quantity        int     `json:"quantity"`
	Status          string  `json:"status"`
}

// RenderPrompt builds the analysis prompt for products as of today.
func RenderPrompt(products []reconcile.Product, today time.Time) (string, error) {
	rows := make([]promptProduct, 0, len(products))
	for _, p := range products {
		rows = append(rows, promptProduct{
			ProductName:     p.ProductName,
			ExpiryDate:      p.ExpiryDate,
			ManufactureDate: p.ManufactureDate,
			Ingredient:      p.Ingredient,
			Quantity:        p.Quantity,
			Status:          p.Status,
		})
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode products: %w", err)
	}

	var buf bytes.Buffer
	err = promptTemplate.Execute(&buf, map[string]any{
		"Today":       today.Format("2006-01-02"),
		"HorizonDays": ExpiryHorizonDays,
		"LowStock":    LowStockQuantity,
		"Products":    string(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}
