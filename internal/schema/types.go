package schema

import (
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/relay"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
)

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (b *builder) defineTypes() {
	b.customer = graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return formatID(p.Source.(*model.Customer).ID), nil
				},
			},
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"phone": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					c := p.Source.(*model.Customer)
					if c.Phone == nil {
						return nil, nil
					}
					return *c.Phone, nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(DateTime)},
		},
	})

	b.product = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return formatID(p.Source.(*model.Product).ID), nil
				},
			},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"price":     &graphql.Field{Type: graphql.NewNonNull(Decimal)},
			"stock":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(DateTime)},
		},
	})

	b.order = graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return formatID(p.Source.(*model.Order).ID), nil
				},
			},
			"customer": &graphql.Field{
				Type: graphql.NewNonNull(b.customer),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return &p.Source.(*model.Order).Customer, nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.product))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return productRefs(p.Source.(*model.Order).Products), nil
				},
			},
			"product": &graphql.Field{
				Type:        b.product,
				Description: "First product of the order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					o := p.Source.(*model.Order)
					if len(o.Products) == 0 {
						return nil, nil
					}
					return &o.Products[0], nil
				},
			},
			"totalAmount": &graphql.Field{
				Type:        graphql.NewNonNull(Decimal),
				Description: "Sum of product prices when the order was placed",
			},
			"currentTotal": &graphql.Field{
				Type:        graphql.NewNonNull(Decimal),
				Description: "Sum of the products' current prices",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.Order).CurrentTotal(), nil
				},
			},
			"orderDate": &graphql.Field{Type: graphql.NewNonNull(DateTime)},
		},
	})

	orderList := graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.order)))
	b.customer.AddFieldConfig("orders", &graphql.Field{
		Type: orderList,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			orders, err := b.crm.Customers.Orders(p.Context, p.Source.(*model.Customer).ID)
			if err != nil {
				return nil, domainError(err)
			}
			return orderRefs(orders), nil
		},
	})
	b.product.AddFieldConfig("orders", &graphql.Field{
		Type: orderList,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			orders, err := b.crm.Products.Orders(p.Context, p.Source.(*model.Product).ID)
			if err != nil {
				return nil, domainError(err)
			}
			return orderRefs(orders), nil
		},
	})

	b.customerConn = relay.ConnectionDefinitions(relay.ConnectionConfig{Name: "Customer", NodeType: b.customer})
	b.productConn = relay.ConnectionDefinitions(relay.ConnectionConfig{Name: "Product", NodeType: b.product})
	b.orderConn = relay.ConnectionDefinitions(relay.ConnectionConfig{Name: "Order", NodeType: b.order})
}

// The object resolvers above type-assert pointers, so slices are converted here.

func customerRefs(in []model.Customer) []*model.Customer {
	out := make([]*model.Customer, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}

func productRefs(in []model.Product) []*model.Product {
	out := make([]*model.Product, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}

func orderRefs(in []model.Order) []*model.Order {
	out := make([]*model.Order, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}

func nodes[T any](in []*T) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
