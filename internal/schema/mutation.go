package schema

import (
	"github.com/graphql-go/graphql"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/service"
)

func (b *builder) mutation() *graphql.Object {
	createCustomerPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateCustomerPayload",
		Fields: graphql.Fields{
			"customer": &graphql.Field{Type: b.customer},
			"message":  &graphql.Field{Type: graphql.String},
		},
	})
	bulkCreateCustomersPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "BulkCreateCustomersPayload",
		Fields: graphql.Fields{
			"customers": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.customer)))},
			"errors":    &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
		},
	})
	createProductPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateProductPayload",
		Fields: graphql.Fields{
			"product": &graphql.Field{Type: b.product},
			"message": &graphql.Field{Type: graphql.String},
		},
	})
	createOrderPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateOrderPayload",
		Fields: graphql.Fields{
			"order":   &graphql.Field{Type: b.order},
			"message": &graphql.Field{Type: graphql.String},
		},
	})
	restockPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "UpdateLowStockProductsPayload",
		Fields: graphql.Fields{
			"success":         &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"message":         &graphql.Field{Type: graphql.String},
			"count":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"updatedProducts": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.product)))},
		},
	})
	deleteCustomerPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "DeleteCustomerPayload",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"message": &graphql.Field{Type: graphql.String},
		},
	})

	restock := func() *graphql.Field {
		return &graphql.Field{Type: restockPayload, Resolve: b.restock}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer": &graphql.Field{
				Type: createCustomerPayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(customerInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					c, err := b.crm.Customers.Create(p.Context, customerInputArg(p.Args["input"]))
					if err != nil {
						return nil, domainError(err)
					}
					return map[string]interface{}{
						"customer": c,
						"message":  "Customer created successfully",
					}, nil
				},
			},
			"bulkCreateCustomers": &graphql.Field{
				Type: bulkCreateCustomersPayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerInput))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["input"].([]interface{})
					entries := make([]service.CustomerInput, 0, len(raw))
					for _, v := range raw {
						entries = append(entries, customerInputArg(v))
					}
					created, errs := b.crm.Customers.BulkCreate(p.Context, entries)
					if errs == nil {
						errs = []string{}
					}
					return map[string]interface{}{
						"customers": customerRefs(created),
						"errors":    errs,
					}, nil
				},
			},
			"createProduct": &graphql.Field{
				Type: createProductPayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := b.crm.Products.Create(p.Context, productInputArg(p.Args["input"]))
					if err != nil {
						return nil, domainError(err)
					}
					return map[string]interface{}{
						"product": pr,
						"message": "Product created successfully",
					}, nil
				},
			},
			"createOrder": &graphql.Field{
				Type: createOrderPayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(orderInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in, err := orderInputArg(p.Args["input"])
					if err != nil {
						return nil, err
					}
					o, err := b.crm.Orders.Create(p.Context, in)
					if err != nil {
						return nil, domainError(err)
					}
					return map[string]interface{}{
						"order":   o,
						"message": "Order created successfully",
					}, nil
				},
			},
			"updateLowStockProducts": restock(),
			"restock":                restock(),
			"deleteCustomer": &graphql.Field{
				Type: deleteCustomerPayload,
				Args: idArg(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := parseID(p.Args["id"])
					if !ok {
						return nil, model.ErrCustomerNotFound
					}
					if err := b.crm.Customers.Delete(p.Context, id); err != nil {
						return nil, domainError(err)
					}
					return map[string]interface{}{
						"success": true,
						"message": "Customer deleted successfully",
					}, nil
				},
			},
		},
	})
}

func (b *builder) restock(p graphql.ResolveParams) (interface{}, error) {
	res, err := b.crm.Products.RestockLowStock(p.Context)
	if err != nil {
		return nil, domainError(err)
	}
	return map[string]interface{}{
		"success":         true,
		"message":         res.Message,
		"count":           res.Count(),
		"updatedProducts": productRefs(res.Products),
	}, nil
}
