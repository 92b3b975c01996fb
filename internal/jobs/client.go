package jobs

import (
	"context"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/machinebox/graphql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/config"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
)

// Client talks to the CRM GraphQL API over HTTP with retries.
type Client struct {
	gql *graphql.Client
}

// NewClient returns a client for the GraphQL API at endpoint.
func NewClient(endpoint string, cfg config.Client, log logrus.FieldLogger) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = cfg.RetryMax
	httpClient.RetryWaitMin = cfg.RetryWaitMin
	httpClient.RetryWaitMax = cfg.RetryWaitMax
	httpClient.HTTPClient.Timeout = cfg.Timeout
	httpClient.Logger = kvLogger{log: log}

	gql := graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient.StandardClient()))
	gql.Log = func(s string) { log.Debug(s) }
	return &Client{gql: gql}
}

// Run sends query with vars and decodes the data into out. Errors listed in the
// response are reported as model.ErrAPI, everything else as model.ErrTransport.
func (c *Client) Run(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	req := graphql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	if err := c.gql.Run(ctx, req, out); err != nil {
		if isAPIError(err) {
			return errors.WithStack(model.NewAPIError(err))
		}
		return errors.WithStack(model.NewTransportError(err))
	}
	return nil
}

// isAPIError reports whether err carries the first entry of a GraphQL errors
// array, as opposed to a failure to reach the API or read its response.
func isAPIError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "graphql: ") &&
		!strings.HasPrefix(msg, "graphql: server returned a non-200 status code")
}
