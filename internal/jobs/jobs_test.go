package jobs

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/config"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/schema"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/service"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/store"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/transport"
)

var noRetry = config.Client{Timeout: 5 * time.Second, RetryMax: 0}

// newAPI serves the real schema over HTTP and returns a client for it.
func newAPI(t *testing.T) (*Client, *service.CRM) {
	t.Helper()
	st, err := store.Open(config.Database{Driver: "sqlite", DSN: "file::memory:?_foreign_keys=on"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	log, _ := test.NewNullLogger()
	crm := service.New(st, log)
	s, err := schema.New(crm)
	require.NoError(t, err)

	srv := httptest.NewServer(transport.Router(s, st, false, log))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/graphql", noRetry, log), crm
}

// bufferLog returns a job logger writing formatted lines into a buffer.
func bufferLog() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(LineFormatter{})
	return log, &buf
}

func unreachableClient(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()
	log, _ := test.NewNullLogger()
	return NewClient(url+"/graphql", noRetry, log)
}

func TestLineFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "careful",
		Data:    logrus.Fields{},
	}
	out, err := LineFormatter{}.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02 03:04:05 - WARNING - careful\n", string(out))
}

func TestHeartbeat(t *testing.T) {
	t.Run("alive", func(t *testing.T) {
		client, _ := newAPI(t)
		log, buf := bufferLog()

		Heartbeat(context.Background(), client, log)
		assert.Contains(t, buf.String(), " - INFO - CRM is alive - GraphQL hello response: Hello, GraphQL!")
	})

	t.Run("unreachable", func(t *testing.T) {
		log, buf := bufferLog()

		Heartbeat(context.Background(), unreachableClient(t), log)
		out := buf.String()
		assert.Contains(t, out, " - ERROR - Error querying GraphQL hello: api request failed")
		assert.Contains(t, out, "Traceback:")
	})
}

func TestClientErrorKinds(t *testing.T) {
	ctx := context.Background()
	var resp struct{}

	t.Run("unreachable endpoint", func(t *testing.T) {
		err := unreachableClient(t).Run(ctx, heartbeatQuery, nil, &resp)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrTransport))
		assert.False(t, errors.Is(err, model.ErrAPI))
	})

	t.Run("server error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)
		log, _ := test.NewNullLogger()

		err := NewClient(srv.URL, noRetry, log).Run(ctx, heartbeatQuery, nil, &resp)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrTransport))
	})

	t.Run("errors in the response", func(t *testing.T) {
		client, _ := newAPI(t)
		err := client.Run(ctx, `{ noSuchField }`, nil, &resp)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrAPI))
		assert.False(t, errors.Is(err, model.ErrTransport))
		assert.Contains(t, err.Error(), "noSuchField")
	})
}

func TestLowStock(t *testing.T) {
	ctx := context.Background()
	client, crm := newAPI(t)
	for _, p := range []struct {
		name  string
		stock int
	}{{"Pen", 3}, {"Ink", 8}, {"Desk", 15}} {
		_, err := crm.Products.Create(ctx, service.ProductInput{Name: p.name, Price: decimal.NewFromInt(1), Stock: p.stock})
		require.NoError(t, err)
	}

	log, buf := bufferLog()
	LowStock(ctx, client, log)
	out := buf.String()
	assert.Contains(t, out, "INFO - Restocked Pen to 13")
	assert.Contains(t, out, "INFO - Restocked Ink to 18")
	assert.NotContains(t, out, "Desk")

	buf.Reset()
	LowStock(ctx, client, log)
	assert.Contains(t, buf.String(), "INFO - No low-stock products updated")

	buf.Reset()
	LowStock(ctx, unreachableClient(t), log)
	assert.Contains(t, buf.String(), "ERROR - Error updating low-stock products:")
}

func TestOrderReminders(t *testing.T) {
	ctx := context.Background()
	client, crm := newAPI(t)

	c, err := crm.Customers.Create(ctx, service.CustomerInput{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	p, err := crm.Products.Create(ctx, service.ProductInput{Name: "Pen", Price: decimal.NewFromInt(2), Stock: 1})
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	recent := now.Add(-2 * 24 * time.Hour)
	old := now.Add(-30 * 24 * time.Hour)
	fresh, err := crm.Orders.Create(ctx, service.OrderInput{CustomerID: c.ID, ProductIDs: []uint{p.ID}, OrderDate: &recent})
	require.NoError(t, err)
	stale, err := crm.Orders.Create(ctx, service.OrderInput{CustomerID: c.ID, ProductIDs: []uint{p.ID}, OrderDate: &old})
	require.NoError(t, err)

	log, buf := bufferLog()
	OrderReminders(7*24*time.Hour, func() time.Time { return now })(ctx, client, log)

	out := buf.String()
	assert.Contains(t, out, "INFO - Reminder: Order "+formatID(fresh.ID)+" for ann@example.com")
	assert.NotContains(t, out, "Reminder: Order "+formatID(stale.ID)+" ")

	buf.Reset()
	OrderReminders(time.Hour, time.Now)(ctx, unreachableClient(t), log)
	assert.Contains(t, buf.String(), "ERROR - Error while fetching orders:")
	assert.NotContains(t, buf.String(), "Reminder:")
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	client, crm := newAPI(t)

	c, err := crm.Customers.Create(ctx, service.CustomerInput{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	p, err := crm.Products.Create(ctx, service.ProductInput{Name: "Pen", Price: decimal.RequireFromString("2.50"), Stock: 1})
	require.NoError(t, err)
	_, err = crm.Orders.Create(ctx, service.OrderInput{CustomerID: c.ID, ProductIDs: []uint{p.ID}})
	require.NoError(t, err)

	log, buf := bufferLog()
	Report(ctx, client, log)
	assert.Contains(t, buf.String(), "INFO - Report: 1 customers, 1 orders, 2.50 revenue")
}

func TestRun(t *testing.T) {
	client, _ := newAPI(t)
	path := filepath.Join(t.TempDir(), "heartbeat.txt")
	spec := Spec{Name: "heartbeat", Job: Heartbeat, LogPath: path}

	require.NoError(t, Run(context.Background(), spec, client))
	require.NoError(t, Run(context.Background(), spec, client))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Len(t, lines, 2, "runs append to the same file")

	t.Run("panics are logged", func(t *testing.T) {
		crashing := Spec{
			Name:    "crash",
			LogPath: path,
			Job: func(context.Context, *Client, logrus.FieldLogger) {
				panic("boom")
			},
		}
		require.NoError(t, Run(context.Background(), crashing, client))
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "ERROR - Job crashed: boom")
	})

	t.Run("unwritable log", func(t *testing.T) {
		bad := Spec{Name: "heartbeat", Job: Heartbeat, LogPath: filepath.Join(t.TempDir(), "missing", "log.txt")}
		assert.Error(t, Run(context.Background(), bad, client))
	})
}

func TestScheduler(t *testing.T) {
	log, _ := test.NewNullLogger()
	client := unreachableClient(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	s, err := NewScheduler(Specs(cfg.Jobs), client, log)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Entries())
	assert.Equal(t, []string{"heartbeat", "low-stock", "order-reminders", "report"}, Names(Specs(cfg.Jobs)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	specs := Specs(cfg.Jobs)
	hb := specs["heartbeat"]
	hb.Schedule = "not a schedule"
	specs["heartbeat"] = hb
	_, err = NewScheduler(specs, client, log)
	assert.ErrorContains(t, err, "scheduling heartbeat")
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
