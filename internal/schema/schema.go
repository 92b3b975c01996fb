// Package schema exposes the CRM services as a GraphQL schema.
package schema

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/relay"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/service"
)

const helloGreeting = "Hello, GraphQL!"

type builder struct {
	crm *service.CRM

	customer *graphql.Object
	product  *graphql.Object
	order    *graphql.Object

	customerConn *relay.GraphQLConnectionDefinitions
	productConn  *relay.GraphQLConnectionDefinitions
	orderConn    *relay.GraphQLConnectionDefinitions
}

// New builds the schema with resolvers bound to crm.
func New(crm *service.CRM) (graphql.Schema, error) {
	b := &builder{crm: crm}
	b.defineTypes()

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    b.query(),
		Mutation: b.mutation(),
		Types:    []graphql.Type{Decimal, DateTime},
	})
}
