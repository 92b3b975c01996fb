package schema

import (
	"strconv"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/service"
)

var customerFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CustomerFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"nameIcontains":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"emailIcontains": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"createdAtGte":   &graphql.InputObjectFieldConfig{Type: DateTime},
		"createdAtLte":   &graphql.InputObjectFieldConfig{Type: DateTime},
		"phonePattern": &graphql.InputObjectFieldConfig{
			Type:        graphql.String,
			Description: "Phone number prefix",
		},
	},
})

var productFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"nameIcontains": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"priceGte":      &graphql.InputObjectFieldConfig{Type: Decimal},
		"priceLte":      &graphql.InputObjectFieldConfig{Type: Decimal},
		"stockGte":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"stockLte":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"lowStockLt": &graphql.InputObjectFieldConfig{
			Type:        graphql.Int,
			Description: "Products with stock strictly below this value",
		},
	},
})

var orderFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OrderFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"totalAmountGte": &graphql.InputObjectFieldConfig{Type: Decimal},
		"totalAmountLte": &graphql.InputObjectFieldConfig{Type: Decimal},
		"orderDateGte":   &graphql.InputObjectFieldConfig{Type: DateTime},
		"orderDateLte":   &graphql.InputObjectFieldConfig{Type: DateTime},
		"customerName":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"productName":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"productId":      &graphql.InputObjectFieldConfig{Type: graphql.ID},
	},
})

var customerInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CustomerInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"phone": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var productInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"price": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(Decimal)},
		"stock": &graphql.InputObjectFieldConfig{Type: graphql.Int, DefaultValue: 0},
	},
})

var orderInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OrderInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"customerId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		"productIds": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
		"orderDate":  &graphql.InputObjectFieldConfig{Type: DateTime},
	},
})

// listArgs are shared by the plain list fields and the connections.
func listArgs(filter *graphql.InputObject) graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"filter":  &graphql.ArgumentConfig{Type: filter},
		"orderBy": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
	}
}

func parseID(v interface{}) (uint, bool) {
	var s string
	switch id := v.(type) {
	case string:
		s = id
	case int:
		if id < 0 {
			return 0, false
		}
		return uint(id), true
	default:
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func stringArg(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func intArg(m map[string]interface{}, key string) *int {
	if n, ok := m[key].(int); ok {
		return &n
	}
	return nil
}

func decimalArg(m map[string]interface{}, key string) *decimal.Decimal {
	if d, ok := m[key].(decimal.Decimal); ok {
		return &d
	}
	return nil
}

func timeArg(m map[string]interface{}, key string) *time.Time {
	if t, ok := m[key].(time.Time); ok {
		return &t
	}
	return nil
}

func orderByArg(args map[string]interface{}) []string {
	raw, _ := args["orderBy"].([]interface{})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func filterArg(args map[string]interface{}) map[string]interface{} {
	m, _ := args["filter"].(map[string]interface{})
	return m
}

func customerFilter(args map[string]interface{}) model.CustomerFilter {
	m := filterArg(args)
	return model.CustomerFilter{
		NameIcontains:  stringArg(m, "nameIcontains"),
		EmailIcontains: stringArg(m, "emailIcontains"),
		PhonePattern:   stringArg(m, "phonePattern"),
		CreatedAtGte:   timeArg(m, "createdAtGte"),
		CreatedAtLte:   timeArg(m, "createdAtLte"),
	}
}

func productFilter(args map[string]interface{}) model.ProductFilter {
	m := filterArg(args)
	return model.ProductFilter{
		NameIcontains: stringArg(m, "nameIcontains"),
		PriceGte:      decimalArg(m, "priceGte"),
		PriceLte:      decimalArg(m, "priceLte"),
		StockGte:      intArg(m, "stockGte"),
		StockLte:      intArg(m, "stockLte"),
		LowStockLt:    intArg(m, "lowStockLt"),
	}
}

func orderFilter(args map[string]interface{}) (model.OrderFilter, error) {
	m := filterArg(args)
	f := model.OrderFilter{
		TotalAmountGte: decimalArg(m, "totalAmountGte"),
		TotalAmountLte: decimalArg(m, "totalAmountLte"),
		OrderDateGte:   timeArg(m, "orderDateGte"),
		OrderDateLte:   timeArg(m, "orderDateLte"),
		CustomerName:   stringArg(m, "customerName"),
		ProductName:    stringArg(m, "productName"),
	}
	if raw, ok := m["productId"]; ok && raw != nil {
		id, ok := parseID(raw)
		if !ok {
			return f, model.NewValidationError("INVALID_ID", "Invalid product ID %v", raw)
		}
		f.ProductID = &id
	}
	return f, nil
}

func customerInputArg(v interface{}) service.CustomerInput {
	m, _ := v.(map[string]interface{})
	return service.CustomerInput{
		Name:  stringArg(m, "name"),
		Email: stringArg(m, "email"),
		Phone: stringArg(m, "phone"),
	}
}

func productInputArg(v interface{}) service.ProductInput {
	m, _ := v.(map[string]interface{})
	in := service.ProductInput{Name: stringArg(m, "name")}
	if d := decimalArg(m, "price"); d != nil {
		in.Price = *d
	}
	if n := intArg(m, "stock"); n != nil {
		in.Stock = *n
	}
	return in
}

func orderInputArg(v interface{}) (service.OrderInput, error) {
	m, _ := v.(map[string]interface{})
	var in service.OrderInput

	id, ok := parseID(m["customerId"])
	if !ok {
		return in, model.ErrCustomerNotFound
	}
	in.CustomerID = id

	raw, _ := m["productIds"].([]interface{})
	for _, v := range raw {
		id, ok := parseID(v)
		if !ok {
			return in, model.ErrProductNotFound
		}
		in.ProductIDs = append(in.ProductIDs, id)
	}
	in.OrderDate = timeArg(m, "orderDate")
	return in, nil
}
