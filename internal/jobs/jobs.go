// Package jobs holds the single-shot maintenance jobs that call the CRM API.
package jobs

import (
	"context"
	"runtime/debug"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/config"
)

// Job runs once and reports everything, failures included, to log.
type Job func(ctx context.Context, client *Client, log logrus.FieldLogger)

// Spec binds a job to its log file and cron schedule.
type Spec struct {
	Job      Job
	Name     string
	LogPath  string
	Schedule string
}

// Specs returns every job keyed by its command name.
func Specs(cfg config.Jobs) map[string]Spec {
	return map[string]Spec{
		"heartbeat": {
			Name:     "heartbeat",
			Job:      Heartbeat,
			LogPath:  cfg.HeartbeatLog,
			Schedule: cfg.HeartbeatSchedule,
		},
		"low-stock": {
			Name:     "low-stock",
			Job:      LowStock,
			LogPath:  cfg.LowStockLog,
			Schedule: cfg.LowStockSchedule,
		},
		"order-reminders": {
			Name:     "order-reminders",
			Job:      OrderReminders(cfg.ReminderWindow, time.Now),
			LogPath:  cfg.RemindersLog,
			Schedule: cfg.RemindersSchedule,
		},
		"report": {
			Name:     "report",
			Job:      Report,
			LogPath:  cfg.ReportLog,
			Schedule: cfg.ReportSchedule,
		},
	}
}

// Names returns the job names in sorted order.
func Names(specs map[string]Spec) []string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run opens the job's log file and executes it once. A panicking job is
// logged and swallowed. Only a failure to open the log is returned.
func Run(ctx context.Context, spec Spec, client *Client) error {
	log, closer, err := OpenLog(spec.LogPath)
	if err != nil {
		return err
	}
	defer closer.Close()

	runJob(ctx, spec.Job, client, log)
	return nil
}

func runJob(ctx context.Context, job Job, client *Client, log logrus.FieldLogger) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Job crashed: %v\n%s", r, debug.Stack())
		}
	}()
	job(ctx, client, log)
}

const heartbeatQuery = `{ hello }`

// Heartbeat logs whether the API answers the hello query.
func Heartbeat(ctx context.Context, client *Client, log logrus.FieldLogger) {
	var resp struct {
		Hello string `json:"hello"`
	}
	if err := client.Run(ctx, heartbeatQuery, nil, &resp); err != nil {
		log.WithError(err).Errorf("Error querying GraphQL hello: %v", err)
		return
	}
	hello := resp.Hello
	if hello == "" {
		hello = "No response"
	}
	log.Infof("CRM is alive - GraphQL hello response: %s", hello)
}

const restockMutation = `mutation {
	updateLowStockProducts {
		success
		count
		updatedProducts { name stock }
	}
}`

// LowStock restocks low-stock products and logs each one updated.
func LowStock(ctx context.Context, client *Client, log logrus.FieldLogger) {
	var resp struct {
		UpdateLowStockProducts struct {
			UpdatedProducts []struct {
				Name  string `json:"name"`
				Stock int    `json:"stock"`
			} `json:"updatedProducts"`
			Count   int  `json:"count"`
			Success bool `json:"success"`
		} `json:"updateLowStockProducts"`
	}
	if err := client.Run(ctx, restockMutation, nil, &resp); err != nil {
		log.WithError(err).Errorf("Error updating low-stock products: %v", err)
		return
	}

	products := resp.UpdateLowStockProducts.UpdatedProducts
	if len(products) == 0 {
		log.Info("No low-stock products updated")
		return
	}
	for _, p := range products {
		log.Infof("Restocked %s to %d", p.Name, p.Stock)
	}
}

const recentOrdersQuery = `query($since: DateTime) {
	orders(filter: {orderDateGte: $since}) {
		id
		customer { email }
	}
}`

// OrderReminders logs a reminder for every order placed within window of now.
func OrderReminders(window time.Duration, now func() time.Time) Job {
	return func(ctx context.Context, client *Client, log logrus.FieldLogger) {
		var resp struct {
			Orders []struct {
				ID       string `json:"id"`
				Customer struct {
					Email string `json:"email"`
				} `json:"customer"`
			} `json:"orders"`
		}
		since := now().UTC().Add(-window).Format(time.RFC3339)
		if err := client.Run(ctx, recentOrdersQuery, map[string]interface{}{"since": since}, &resp); err != nil {
			log.WithError(err).Errorf("Error while fetching orders: %v", err)
			return
		}
		for _, o := range resp.Orders {
			log.Infof("Reminder: Order %s for %s", o.ID, o.Customer.Email)
		}
		log.Info("Order reminders processed!")
	}
}

const reportQuery = `{ totalCustomers totalOrders totalRevenue }`

// Report logs the customer, order and revenue totals.
func Report(ctx context.Context, client *Client, log logrus.FieldLogger) {
	var resp struct {
		TotalRevenue   string `json:"totalRevenue"`
		TotalCustomers int    `json:"totalCustomers"`
		TotalOrders    int    `json:"totalOrders"`
	}
	if err := client.Run(ctx, reportQuery, nil, &resp); err != nil {
		log.WithError(err).Errorf("Error generating CRM report: %v", err)
		return
	}
	log.Infof("Report: %d customers, %d orders, %s revenue",
		resp.TotalCustomers, resp.TotalOrders, resp.TotalRevenue)
}
