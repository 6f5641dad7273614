package payments

import "context"

// PlanFetcher pulls the current plan catalog from the payment provider.
type PlanFetcher interface {
	FetchPlans(ctx context.Context) (Plans, error)
}
