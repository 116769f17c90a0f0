package analytics

import (
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/shopspring/decimal"
)

// PaymentTotals summarises a payment list
type PaymentTotals struct {
	Received decimal.Decimal `json:"received"`
	Pending  decimal.Decimal `json:"pending"`
	Overall  decimal.Decimal `json:"overall"`
}

// SumPayments adds paid, pending and all payment amounts
func SumPayments(rows []model.Payment) PaymentTotals {
	totals := PaymentTotals{Received: decimal.Zero, Pending: decimal.Zero, Overall: decimal.Zero}
	for _, p := range rows {
		switch p.Status {
		case model.PaymentPaid:
			totals.Received = totals.Received.Add(p.Amount)
		case model.PaymentPending:
			totals.Pending = totals.Pending.Add(p.Amount)
		}
		totals.Overall = totals.Overall.Add(p.Amount)
	}
	return totals
}

// StatusCounts is the number of interactions in each status
type StatusCounts struct {
	New        int `json:"new"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// CountInteractionStatuses tallies interactions by status; unknown statuses are ignored
func CountInteractionStatuses(rows []model.Interaction) StatusCounts {
	var counts StatusCounts
	for _, i := range rows {
		switch i.Status {
		case model.InteractionNew:
			counts.New++
		case model.InteractionInProgress:
			counts.InProgress++
		case model.InteractionCompleted:
			counts.Completed++
		}
	}
	return counts
}
