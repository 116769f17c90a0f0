package analytics

import (
	"testing"

	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSumPayments(t *testing.T) {
	rows := []model.Payment{
		{Amount: amount("150"), Status: model.PaymentPaid},
		{Amount: amount("80"), Status: model.PaymentPending},
		{Amount: amount("100"), Status: model.PaymentPaid},
		{Amount: amount("9.99"), Status: model.PaymentCancelled},
	}

	totals := SumPayments(rows)
	assert.Equal(t, "250.00", totals.Received.StringFixed(2))
	assert.Equal(t, "80.00", totals.Pending.StringFixed(2))
	assert.Equal(t, "339.99", totals.Overall.StringFixed(2))
}

func TestCountInteractionStatuses(t *testing.T) {
	rows := []model.Interaction{
		{Status: model.InteractionNew},
		{Status: model.InteractionInProgress},
		{Status: model.InteractionInProgress},
		{Status: model.InteractionCompleted},
		{Status: "Archived"},
	}

	assert.Equal(t, StatusCounts{New: 1, InProgress: 2, Completed: 1}, CountInteractionStatuses(rows))
}
