package schema

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/relay"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
)

func (b *builder) query() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return helloGreeting, nil
				},
			},

			"customers": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.customer))),
				Args:    listArgs(customerFilterInput),
				Resolve: b.resolveCustomers,
			},
			"products": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.product))),
				Args:    listArgs(productFilterInput),
				Resolve: b.resolveProducts,
			},
			"orders": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.order))),
				Args:    listArgs(orderFilterInput),
				Resolve: b.resolveOrders,
			},

			"allCustomers": &graphql.Field{
				Type:    b.customerConn.ConnectionType,
				Args:    relay.NewConnectionArgs(listArgs(customerFilterInput)),
				Resolve: connection(b.resolveCustomers),
			},
			"allProducts": &graphql.Field{
				Type:    b.productConn.ConnectionType,
				Args:    relay.NewConnectionArgs(listArgs(productFilterInput)),
				Resolve: connection(b.resolveProducts),
			},
			"allOrders": &graphql.Field{
				Type:    b.orderConn.ConnectionType,
				Args:    relay.NewConnectionArgs(listArgs(orderFilterInput)),
				Resolve: connection(b.resolveOrders),
			},

			"customerByName": &graphql.Field{
				Type: b.customer,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					c, err := b.crm.Customers.GetByName(p.Context, name)
					if err != nil || c == nil {
						return nil, domainError(err)
					}
					return c, nil
				},
			},
			"customer": &graphql.Field{
				Type: b.customer,
				Args: idArg(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := parseID(p.Args["id"])
					if !ok {
						return nil, nil
					}
					c, err := b.crm.Customers.Get(p.Context, id)
					return found(c, err)
				},
			},
			"product": &graphql.Field{
				Type: b.product,
				Args: idArg(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := parseID(p.Args["id"])
					if !ok {
						return nil, nil
					}
					pr, err := b.crm.Products.Get(p.Context, id)
					return found(pr, err)
				},
			},
			"order": &graphql.Field{
				Type: b.order,
				Args: idArg(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := parseID(p.Args["id"])
					if !ok {
						return nil, nil
					}
					o, err := b.crm.Orders.Get(p.Context, id)
					return found(o, err)
				},
			},

			"totalCustomers": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := b.crm.Stats.Totals(p.Context)
					if err != nil {
						return nil, domainError(err)
					}
					return int(s.Customers), nil
				},
			},
			"totalOrders": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := b.crm.Stats.Totals(p.Context)
					if err != nil {
						return nil, domainError(err)
					}
					return int(s.Orders), nil
				},
			},
			"totalRevenue": &graphql.Field{
				Type: graphql.NewNonNull(Decimal),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := b.crm.Stats.Totals(p.Context)
					if err != nil {
						return nil, domainError(err)
					}
					return s.Revenue, nil
				},
			},
		},
	})
}

func idArg() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}
}

// found maps a not-found lookup onto a null result.
func found[T any](v *T, err error) (interface{}, error) {
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, domainError(err)
	}
	return v, nil
}

func (b *builder) resolveCustomers(p graphql.ResolveParams) (interface{}, error) {
	out, err := b.crm.Customers.List(p.Context, customerFilter(p.Args), orderByArg(p.Args))
	if err != nil {
		return nil, domainError(err)
	}
	return customerRefs(out), nil
}

func (b *builder) resolveProducts(p graphql.ResolveParams) (interface{}, error) {
	out, err := b.crm.Products.List(p.Context, productFilter(p.Args), orderByArg(p.Args))
	if err != nil {
		return nil, domainError(err)
	}
	return productRefs(out), nil
}

func (b *builder) resolveOrders(p graphql.ResolveParams) (interface{}, error) {
	filter, err := orderFilter(p.Args)
	if err != nil {
		return nil, err
	}
	out, err := b.crm.Orders.List(p.Context, filter, orderByArg(p.Args))
	if err != nil {
		return nil, domainError(err)
	}
	return orderRefs(out), nil
}

// connection pages the result of a list resolver with relay cursors.
func connection(list graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		res, err := list(p)
		if err != nil {
			return nil, err
		}
		var items []interface{}
		switch v := res.(type) {
		case []*model.Customer:
			items = nodes(v)
		case []*model.Product:
			items = nodes(v)
		case []*model.Order:
			items = nodes(v)
		}
		return relay.ConnectionFromArray(items, relay.NewConnectionArguments(p.Args)), nil
	}
}
