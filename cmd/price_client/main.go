package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/light-bringer/mealprice-service/internal/transport/dto"
	"github.com/light-bringer/mealprice-service/internal/transport/grpc/pricing"
)

func main() {
	addr := flag.String("addr", "localhost:9090", "gRPC server address")
	plan := flag.String("plan", "Keto", "plan to price")
	explain := flag.Bool("explain", false, "also preview the price and show every rule decision")
	record := flag.Bool("record", false, "record a quote and list the resulting events")
	flag.Parse()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	client := pricing.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, "x-request-id", uuid.NewString())

	order := &dto.OrderRequest{
		PlanName:   *plan,
		Quantities: map[string]int64{"Breakfast": 10, "Lunch": 20},
		Metrics: map[string]decimal.Decimal{
			"duration": decimal.NewFromInt(30),
			"meals":    decimal.NewFromInt(30),
		},
	}

	b, err := client.ComputePrice(ctx, order)
	if err != nil {
		log.Fatalf("Failed to compute price: %v", err)
	}

	fmt.Printf("%s plan, subtotal %s %s\n", b.PlanName, b.Subtotal, b.Currency)
	for _, d := range b.Discounts {
		fmt.Printf("  -%s (rule %s, %s -> %s)\n", d.Amount, d.RuleID, d.SubtotalBefore, d.SubtotalAfter)
	}
	fmt.Printf("Total: %s %s\n", b.Total, b.Currency)

	if *explain {
		explanation, err := client.PreviewPrice(ctx, order)
		if err != nil {
			log.Fatalf("Failed to preview price: %v", err)
		}
		fmt.Println("\nRule decisions:")
		for _, c := range explanation.Checks {
			verdict := "applies"
			if !c.Applicable {
				verdict = "skipped: " + c.Reason
			}
			fmt.Printf("  rule %s (%s >= %s, %s%%): %s\n", c.RuleID, c.DiscountType, c.ConditionValue, c.Percentage, verdict)
		}
	}

	if !*record {
		return
	}

	quote, err := client.RecordQuote(ctx, order)
	if err != nil {
		log.Fatalf("Failed to record quote: %v", err)
	}
	fmt.Printf("\nRecorded quote %s at %s\n", quote.QuoteID, quote.RecordedAt.Format(time.RFC3339))

	events, err := client.ListEvents(ctx, &dto.ListEventsRequest{AggregateID: quote.QuoteID})
	if err != nil {
		log.Fatalf("Failed to list events: %v", err)
	}
	fmt.Printf("Found %d events (total: %d):\n", len(events.Events), events.TotalCount)
	for i, e := range events.Events {
		fmt.Printf("%d. %s %s (status: %s)\n", i+1, e.EventType, e.EventID, e.Status)
	}
}
