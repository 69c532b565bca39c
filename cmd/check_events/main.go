package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cloud.google.com/go/spanner"
	"github.com/samber/lo"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/repo"
	"github.com/light-bringer/mealprice-service/internal/config"
	"github.com/light-bringer/mealprice-service/internal/pkg/clock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatalf("failed to load config: %v", err)
	}

	database := flag.String("database", cfg.Storage.SpannerDatabase, "Spanner database path")
	eventType := flag.String("type", "", "only show events of this type")
	status := flag.String("status", "", "only show events with this status")
	unprocessed := flag.Bool("unprocessed", false, "only show events that have not been processed")
	since := flag.Duration("since", 0, "only show events created within this window, e.g. 24h")
	limit := flag.Int("limit", 10, "maximum number of events to show")
	offset := flag.Int("offset", 0, "number of events to skip")
	flag.Parse()

	ctx := context.Background()

	client, err := spanner.NewClient(ctx, *database)
	if err != nil {
		fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	req := &list_events.Request{
		EventType: lo.EmptyableToPtr(*eventType),
		Status:    lo.EmptyableToPtr(*status),
		Limit:     *limit,
		Offset:    *offset,
	}
	if *unprocessed {
		req.Processed = lo.ToPtr(false)
	}
	if *since > 0 {
		req.CreatedAfter = lo.ToPtr(clock.NewRealClock().Now().Add(-*since))
	}

	q := list_events.NewQuery(repo.NewEventsReadModel(client))
	events, total, err := q.Execute(ctx, req)
	if err != nil {
		fatalf("failed to list events: %v", err)
	}

	if len(events) == 0 {
		fmt.Println("No events found!")
		return
	}

	fmt.Println("Events in outbox_events table:")
	for i, e := range events {
		fmt.Printf("%d. %s - %s (aggregate: %s, status: %s, created: %s)\n",
			*offset+i+1, e.EventType, e.EventID, e.AggregateID, e.Status, e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	}
	fmt.Printf("\nShowing %d-%d of %d events\n", *offset+1, *offset+len(events), total)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
