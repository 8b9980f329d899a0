package extraction

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/zombor/invoice-capture/internal/invoice"
)

// Upstream item objects drift in casing and naming. Each output field is
// resolved from the first candidate key present, in order, else the default.
var (
	articleKeys   = []string{"ItemArticle", "article", "Article", "itemArticle", "item_article", "sku", "SKU"}
	nameKeys      = []string{"ItemName", "name", "Name", "itemName", "item_name", "Title", "title"}
	quantityKeys  = []string{"Quantity", "quantity", "qty", "Qty", "Count", "count"}
	unitPriceKeys = []string{"Price", "price", "UnitPrice", "unitPrice", "unit_price"}
)

const (
	defaultName      = "Item"
	defaultQuantity  = 1.0
	defaultUnitPrice = 0.0
)

// scanResponse is the body of POST /api/scan
type scanResponse struct {
	Items       []map[string]any `json:"Items"`
	SupplierINN any              `json:"SupplierINN"`
	DocNumber   any              `json:"DocNumber"`
	DocDate     any              `json:"DocDate"`
	TotalSum    any              `json:"TotalSum"`
	Preview     string           `json:"preview"`
	Error       string           `json:"error"`
}

func normalizeItems(raw []map[string]any) []invoice.LineItem {
	items := make([]invoice.LineItem, 0, len(raw))
	for _, fields := range raw {
		items = append(items, normalizeItem(fields))
	}
	return items
}

func normalizeItem(fields map[string]any) invoice.LineItem {
	item := invoice.LineItem{
		Name:      defaultName,
		Quantity:  defaultQuantity,
		UnitPrice: defaultUnitPrice,
	}
	if v, ok := lookup(fields, articleKeys); ok {
		item.Article = stringValue(v)
	}
	if v, ok := lookup(fields, nameKeys); ok {
		if s := stringValue(v); s != "" {
			item.Name = s
		}
	}
	if v, ok := lookup(fields, quantityKeys); ok {
		if f, ok := numberValue(v); ok {
			item.Quantity = f
		}
	}
	if v, ok := lookup(fields, unitPriceKeys); ok {
		if f, ok := numberValue(v); ok {
			item.UnitPrice = f
		}
	}
	return item
}

// lookup returns the first non-null value found under keys
func lookup(fields map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// numberValue accepts JSON numbers and numeric strings, with a comma as
// decimal separator
func numberValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		return invoice.Amount(t).Float()
	default:
		return 0, false
	}
}

func amountValue(v any) invoice.Amount {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return invoice.NewAmount(t)
	default:
		return invoice.Amount(stringValue(t))
	}
}
