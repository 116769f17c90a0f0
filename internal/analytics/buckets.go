// Package analytics turns tenant rows into chart-ready summaries.
// Every function here is pure and tolerates empty input.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/shopspring/decimal"
)

// DayLabelLayout formats bucket labels as day/month
const DayLabelLayout = "02/01"

// UnspecifiedChannel groups interactions whose channel is null or blank
const UnspecifiedChannel = "unspecified"

// Row is the projection of a source row the day-bucketing needs. Day carries a
// calendar date; its clock and zone are ignored.
type Row struct {
	Day       time.Time
	Completed bool
	Amount    decimal.Decimal
}

// DayBucket accumulates the rows sharing a day label
type DayBucket struct {
	Label     string          `json:"label"`
	Count     int             `json:"count"`
	Completed int             `json:"completed"`
	Amount    decimal.Decimal `json:"amount"`
}

// CategoryBucket counts rows of one category
type CategoryBucket struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// BucketByDay groups the rows inside period by day label. Buckets appear in the
// order their first row appears in rows; days without rows get no bucket.
func BucketByDay(rows []Row, period Period, now time.Time) []DayBucket {
	buckets := []DayBucket{}
	index := make(map[string]int)

	for _, r := range rows {
		if !period.Contains(r.Day, now) {
			continue
		}
		label := r.Day.Format(DayLabelLayout)
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, DayBucket{Label: label, Amount: decimal.Zero})
		}
		buckets[i].Count++
		if r.Completed {
			buckets[i].Completed++
		}
		buckets[i].Amount = buckets[i].Amount.Add(r.Amount)
	}
	return buckets
}

// AppointmentsByDay buckets appointments by their scheduled date. Completed
// counts finished appointments and Amount sums their value.
func AppointmentsByDay(rows []model.Appointment, period Period, now time.Time) []DayBucket {
	projected := make([]Row, 0, len(rows))
	for _, a := range rows {
		projected = append(projected, Row{
			Day:       a.Day(),
			Completed: a.Status == model.AppointmentCompleted,
			Amount:    a.AmountValue(),
		})
	}
	return BucketByDay(projected, period, now)
}

// PaymentsByDay buckets payments by the day they were received in now's zone.
// Completed counts paid rows.
func PaymentsByDay(rows []model.Payment, period Period, now time.Time) []DayBucket {
	projected := make([]Row, 0, len(rows))
	for _, p := range rows {
		projected = append(projected, Row{
			Day:       p.ReceivedAt.In(now.Location()),
			Completed: p.Status == model.PaymentPaid,
			Amount:    p.Amount,
		})
	}
	return BucketByDay(projected, period, now)
}

// InteractionsByDay buckets interactions by creation day in now's zone
func InteractionsByDay(rows []model.Interaction, period Period, now time.Time) []DayBucket {
	projected := make([]Row, 0, len(rows))
	for _, i := range rows {
		projected = append(projected, Row{
			Day:       i.CreatedAt.In(now.Location()),
			Completed: i.Status == model.InteractionCompleted,
		})
	}
	return BucketByDay(projected, period, now)
}

// InteractionsByChannel counts interactions per channel. Null and blank
// channels share the UnspecifiedChannel bucket. Share is the percentage of
// the total with one decimal. Larger buckets come first.
func InteractionsByChannel(rows []model.Interaction) []CategoryBucket {
	counts := make(map[string]int)
	for _, i := range rows {
		channel := strings.TrimSpace(i.ChannelName())
		if channel == "" {
			channel = UnspecifiedChannel
		}
		counts[channel]++
	}

	buckets := make([]CategoryBucket, 0, len(counts))
	for category, count := range counts {
		buckets = append(buckets, CategoryBucket{
			Category: category,
			Count:    count,
			Share:    percent(count, len(rows)),
		})
	}
	sort.Slice(buckets, func(a, b int) bool {
		if buckets[a].Count != buckets[b].Count {
			return buckets[a].Count > buckets[b].Count
		}
		return buckets[a].Category < buckets[b].Category
	})
	return buckets
}

// CompletionRate is the completed share of all bucketed rows as a percentage
// with one decimal. It is 0 when there are no rows.
func CompletionRate(buckets []DayBucket) float64 {
	var total, completed int
	for _, b := range buckets {
		total += b.Count
		completed += b.Completed
	}
	return percent(completed, total)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}
