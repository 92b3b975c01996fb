package schema

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/config"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/service"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/store"
)

func newTestSchema(t *testing.T) graphql.Schema {
	t.Helper()
	st, err := store.Open(config.Database{Driver: "sqlite", DSN: "file::memory:?_foreign_keys=on"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	log, _ := test.NewNullLogger()
	s, err := New(service.New(st, log))
	require.NoError(t, err)
	return s
}

// run executes a request and decodes its data through JSON, the way a client sees it.
func run(t *testing.T, s graphql.Schema, query string, vars map[string]interface{}) (map[string]interface{}, []map[string]interface{}) {
	t.Helper()
	res := graphql.Do(graphql.Params{
		Schema:         s,
		RequestString:  query,
		VariableValues: vars,
		Context:        context.Background(),
	})
	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded struct {
		Data   map[string]interface{}   `json:"data"`
		Errors []map[string]interface{} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded.Data, decoded.Errors
}

func mustRun(t *testing.T, s graphql.Schema, query string, vars map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, errs := run(t, s, query, vars)
	require.Empty(t, errs)
	return data
}

func field(m map[string]interface{}, path ...string) interface{} {
	var cur interface{} = m
	for _, p := range path {
		cur = cur.(map[string]interface{})[p]
	}
	return cur
}

const createCustomer = `mutation($input: CustomerInput!) {
	createCustomer(input: $input) { customer { id name email phone } message }
}`

const createProduct = `mutation($input: ProductInput!) {
	createProduct(input: $input) { product { id name price stock } message }
}`

const createOrder = `mutation($input: OrderInput!) {
	createOrder(input: $input) {
		order { id totalAmount currentTotal customer { email } products { name } product { name } }
		message
	}
}`

func seedCatalog(t *testing.T, s graphql.Schema) (customerID string, productIDs []string) {
	t.Helper()
	data := mustRun(t, s, createCustomer, map[string]interface{}{
		"input": map[string]interface{}{"name": "Alice", "email": "alice@example.com", "phone": "+1234567890"},
	})
	customerID = field(data, "createCustomer", "customer", "id").(string)

	for _, p := range []map[string]interface{}{
		{"name": "Laptop", "price": "150.00", "stock": 3},
		{"name": "Mouse", "price": 50, "stock": 8},
		{"name": "Desk", "price": "300", "stock": 15},
	} {
		data := mustRun(t, s, createProduct, map[string]interface{}{"input": p})
		productIDs = append(productIDs, field(data, "createProduct", "product", "id").(string))
	}
	return customerID, productIDs
}

func TestHello(t *testing.T) {
	s := newTestSchema(t)
	data := mustRun(t, s, `{ hello }`, nil)
	assert.Equal(t, "Hello, GraphQL!", data["hello"])
}

func TestCreateCustomerMutation(t *testing.T) {
	s := newTestSchema(t)

	data := mustRun(t, s, createCustomer, map[string]interface{}{
		"input": map[string]interface{}{"name": "Alice", "email": "alice@example.com", "phone": "123-456-7890"},
	})
	assert.Equal(t, "Customer created successfully", field(data, "createCustomer", "message"))
	assert.Equal(t, "123-456-7890", field(data, "createCustomer", "customer", "phone"))

	t.Run("duplicate email", func(t *testing.T) {
		data, errs := run(t, s, createCustomer, map[string]interface{}{
			"input": map[string]interface{}{"name": "Other", "email": "alice@example.com"},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "Email already exists", errs[0]["message"])
		assert.Equal(t, "DUPLICATE_EMAIL", errs[0]["extensions"].(map[string]interface{})["code"])
		assert.Nil(t, data["createCustomer"])
	})

	t.Run("invalid phone", func(t *testing.T) {
		_, errs := run(t, s, createCustomer, map[string]interface{}{
			"input": map[string]interface{}{"name": "Bob", "email": "bob@example.com", "phone": "12345"},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "Invalid phone number format", errs[0]["message"])
	})
}

func TestBulkCreateCustomersMutation(t *testing.T) {
	s := newTestSchema(t)

	data := mustRun(t, s, `mutation($input: [CustomerInput!]!) {
		bulkCreateCustomers(input: $input) { customers { name } errors }
	}`, map[string]interface{}{
		"input": []interface{}{
			map[string]interface{}{"name": "A", "email": "a@example.com"},
			map[string]interface{}{"name": "B", "email": "a@example.com"},
			map[string]interface{}{"name": "C", "email": "c@example.com", "phone": "nope"},
			map[string]interface{}{"name": "D", "email": "d@example.com"},
		},
	})

	customers := field(data, "bulkCreateCustomers", "customers").([]interface{})
	require.Len(t, customers, 2)
	assert.Equal(t, "A", customers[0].(map[string]interface{})["name"])
	assert.Equal(t, "D", customers[1].(map[string]interface{})["name"])
	assert.Equal(t, []interface{}{
		"Customer 2: Email already exists: a@example.com",
		"Customer 3: Invalid phone format: nope",
	}, field(data, "bulkCreateCustomers", "errors"))
}

func TestCreateProductMutation(t *testing.T) {
	s := newTestSchema(t)

	data := mustRun(t, s, `mutation { createProduct(input: {name: "Pen", price: 1.5}) { product { price stock } message } }`, nil)
	assert.Equal(t, "1.50", field(data, "createProduct", "product", "price"))
	assert.EqualValues(t, 0, field(data, "createProduct", "product", "stock"))

	_, errs := run(t, s, createProduct, map[string]interface{}{
		"input": map[string]interface{}{"name": "Free", "price": "0"},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "Price must be positive", errs[0]["message"])

	_, errs = run(t, s, createProduct, map[string]interface{}{
		"input": map[string]interface{}{"name": "Short", "price": "1", "stock": -1},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "Stock cannot be negative", errs[0]["message"])

	_, errs = run(t, s, createProduct, map[string]interface{}{
		"input": map[string]interface{}{"name": "Tiny", "price": "0.001", "stock": 1},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "Price must be positive", errs[0]["message"])
	assert.Equal(t, "INVALID_PRICE", field(errs[0], "extensions", "code"))

	data = mustRun(t, s, `{ totalRevenue products { name } }`, nil)
	assert.Len(t, data["products"], 1)
}

func TestCreateOrderMutation(t *testing.T) {
	s := newTestSchema(t)
	customerID, productIDs := seedCatalog(t, s)

	data := mustRun(t, s, createOrder, map[string]interface{}{
		"input": map[string]interface{}{
			"customerId": customerID,
			"productIds": []interface{}{productIDs[0], productIDs[1]},
		},
	})
	order := field(data, "createOrder", "order").(map[string]interface{})
	assert.Equal(t, "200.00", order["totalAmount"])
	assert.Equal(t, "200.00", order["currentTotal"])
	assert.Equal(t, "alice@example.com", field(order, "customer", "email"))
	assert.Len(t, order["products"], 2)
	assert.Equal(t, "Laptop", field(order, "product", "name"))

	t.Run("failures leave no order", func(t *testing.T) {
		cases := []struct {
			input map[string]interface{}
			msg   string
		}{
			{map[string]interface{}{"customerId": "999", "productIds": []interface{}{productIDs[0]}}, "Invalid customer ID"},
			{map[string]interface{}{"customerId": customerID, "productIds": []interface{}{}}, "At least one product must be selected"},
			{map[string]interface{}{"customerId": customerID, "productIds": []interface{}{productIDs[0], "999"}}, "Some product IDs are invalid"},
		}
		for _, tc := range cases {
			_, errs := run(t, s, createOrder, map[string]interface{}{"input": tc.input})
			require.Len(t, errs, 1)
			assert.Equal(t, tc.msg, errs[0]["message"])
		}

		data := mustRun(t, s, `{ totalOrders totalRevenue }`, nil)
		assert.EqualValues(t, 1, data["totalOrders"])
		assert.Equal(t, "200.00", data["totalRevenue"])
	})
}

func TestRestockMutation(t *testing.T) {
	s := newTestSchema(t)
	seedCatalog(t, s)

	const restock = `mutation { updateLowStockProducts { success message count updatedProducts { name stock } } }`

	data := mustRun(t, s, restock, nil)
	assert.Equal(t, true, field(data, "updateLowStockProducts", "success"))
	assert.EqualValues(t, 2, field(data, "updateLowStockProducts", "count"))
	updated := field(data, "updateLowStockProducts", "updatedProducts").([]interface{})
	assert.EqualValues(t, 13, updated[0].(map[string]interface{})["stock"])
	assert.EqualValues(t, 18, updated[1].(map[string]interface{})["stock"])

	data = mustRun(t, s, `mutation { restock { success count } }`, nil)
	assert.Equal(t, true, field(data, "restock", "success"))
	assert.EqualValues(t, 0, field(data, "restock", "count"))

	data = mustRun(t, s, `{ products(orderBy: ["name"]) { name stock } }`, nil)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "Desk", "stock": float64(15)},
		map[string]interface{}{"name": "Laptop", "stock": float64(13)},
		map[string]interface{}{"name": "Mouse", "stock": float64(18)},
	}, data["products"])
}

func TestFilters(t *testing.T) {
	s := newTestSchema(t)
	customerID, productIDs := seedCatalog(t, s)
	mustRun(t, s, createOrder, map[string]interface{}{
		"input": map[string]interface{}{"customerId": customerID, "productIds": []interface{}{productIDs[0], productIDs[2]}},
	})
	mustRun(t, s, createOrder, map[string]interface{}{
		"input": map[string]interface{}{
			"customerId": customerID,
			"productIds": []interface{}{productIDs[1]},
			"orderDate":  "2020-01-01T00:00:00Z",
		},
	})

	t.Run("product stock bounds", func(t *testing.T) {
		data := mustRun(t, s, `{ products(filter: {stockGte: 8, stockLte: 15}, orderBy: ["-stock"]) { name } }`, nil)
		assert.Equal(t, []interface{}{
			map[string]interface{}{"name": "Desk"},
			map[string]interface{}{"name": "Mouse"},
		}, data["products"])
	})

	t.Run("price and low stock", func(t *testing.T) {
		data := mustRun(t, s, `{ products(filter: {priceGte: "100", lowStockLt: 10}) { name } }`, nil)
		assert.Equal(t, []interface{}{map[string]interface{}{"name": "Laptop"}}, data["products"])
	})

	t.Run("customer filters", func(t *testing.T) {
		data := mustRun(t, s, `{ customers(filter: {nameIcontains: "ali", phonePattern: "+123"}) { name } }`, nil)
		assert.Len(t, data["customers"], 1)

		data = mustRun(t, s, `{ customers(filter: {emailIcontains: "nobody"}) { name } }`, nil)
		assert.Empty(t, data["customers"])
	})

	t.Run("orders by product name do not repeat", func(t *testing.T) {
		data := mustRun(t, s, `{ orders(filter: {productName: "e"}) { id } }`, nil)
		assert.Len(t, data["orders"], 2)
	})

	t.Run("orders since a date", func(t *testing.T) {
		data := mustRun(t, s, `query($since: DateTime) {
			orders(filter: {orderDateGte: $since}) { totalAmount customer { email } }
		}`, map[string]interface{}{"since": "2024-01-01"})
		orders := data["orders"].([]interface{})
		require.Len(t, orders, 1)
		assert.Equal(t, "450.00", orders[0].(map[string]interface{})["totalAmount"])
	})

	t.Run("orders by product id and amount", func(t *testing.T) {
		data := mustRun(t, s, `query($id: ID) { orders(filter: {productId: $id, totalAmountLte: 100}) { totalAmount } }`,
			map[string]interface{}{"id": productIDs[1]})
		assert.Equal(t, []interface{}{map[string]interface{}{"totalAmount": "50.00"}}, data["orders"])
	})

	t.Run("unknown order field", func(t *testing.T) {
		_, errs := run(t, s, `{ customers(orderBy: ["secret"]) { name } }`, nil)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0]["message"], "Cannot order by")
	})
}

func TestConnections(t *testing.T) {
	s := newTestSchema(t)
	seedCatalog(t, s)

	data := mustRun(t, s, `{
		allProducts(first: 2, orderBy: ["price"]) {
			edges { cursor node { name } }
			pageInfo { hasNextPage endCursor }
		}
	}`, nil)
	edges := field(data, "allProducts", "edges").([]interface{})
	require.Len(t, edges, 2)
	assert.Equal(t, "Mouse", field(edges[0].(map[string]interface{}), "node", "name"))
	assert.Equal(t, true, field(data, "allProducts", "pageInfo", "hasNextPage"))

	after := field(data, "allProducts", "pageInfo", "endCursor").(string)
	data = mustRun(t, s, `query($after: String) {
		allProducts(first: 2, after: $after, orderBy: ["price"]) { edges { node { name } } pageInfo { hasNextPage } }
	}`, map[string]interface{}{"after": after})
	edges = field(data, "allProducts", "edges").([]interface{})
	require.Len(t, edges, 1)
	assert.Equal(t, "Desk", field(edges[0].(map[string]interface{}), "node", "name"))
	assert.Equal(t, false, field(data, "allProducts", "pageInfo", "hasNextPage"))

	data = mustRun(t, s, `{ allCustomers(filter: {nameIcontains: "alice"}) { edges { node { email orders { id } } } } }`, nil)
	assert.Len(t, field(data, "allCustomers", "edges"), 1)

	data = mustRun(t, s, `{ allOrders { edges { node { id } } } }`, nil)
	assert.Empty(t, field(data, "allOrders", "edges"))
}

func TestLookups(t *testing.T) {
	s := newTestSchema(t)
	customerID, productIDs := seedCatalog(t, s)
	data := mustRun(t, s, createOrder, map[string]interface{}{
		"input": map[string]interface{}{"customerId": customerID, "productIds": []interface{}{productIDs[1]}},
	})
	orderID := field(data, "createOrder", "order", "id").(string)

	data = mustRun(t, s, `query($c: ID!, $p: ID!, $o: ID!) {
		customer(id: $c) { name orders { id } }
		product(id: $p) { name orders { id } }
		order(id: $o) { customer { name } }
		missing: customer(id: "999") { name }
		customerByName(name: "Alice") { email }
		nobody: customerByName(name: "alice") { email }
	}`, map[string]interface{}{"c": customerID, "p": productIDs[1], "o": orderID})

	assert.Equal(t, "Alice", field(data, "customer", "name"))
	assert.Len(t, field(data, "customer", "orders"), 1)
	assert.Len(t, field(data, "product", "orders"), 1)
	assert.Equal(t, "Alice", field(data, "order", "customer", "name"))
	assert.Nil(t, data["missing"])
	assert.Equal(t, "alice@example.com", field(data, "customerByName", "email"))
	assert.Nil(t, data["nobody"])
}

func TestDeleteCustomerMutation(t *testing.T) {
	s := newTestSchema(t)
	customerID, productIDs := seedCatalog(t, s)
	mustRun(t, s, createOrder, map[string]interface{}{
		"input": map[string]interface{}{"customerId": customerID, "productIds": []interface{}{productIDs[0]}},
	})

	_, errs := run(t, s, `mutation($id: ID!) { deleteCustomer(id: $id) { success } }`, map[string]interface{}{"id": customerID})
	require.Len(t, errs, 1)
	assert.Equal(t, "Customer has orders", errs[0]["message"])

	data := mustRun(t, s, `mutation {
		createCustomer(input: {name: "Temp", email: "temp@example.com"}) { customer { id } }
	}`, nil)
	id := field(data, "createCustomer", "customer", "id")
	data = mustRun(t, s, `mutation($id: ID!) { deleteCustomer(id: $id) { success } }`, map[string]interface{}{"id": id})
	assert.Equal(t, true, field(data, "deleteCustomer", "success"))
}
