package service

import (
	"sort"
	"time"

	"github.com/GTDGit/warung_api/internal/models"
)

// CreditOrder is an unpaid order with its age.
type CreditOrder struct {
	models.Order
	DaysPending int  `json:"daysPending"`
	Overdue     bool `json:"overdue"`
}

// CreditGroup is the credit owed by one customer phone.
type CreditGroup struct {
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	Total         float64       `json:"total"`
	Count         int           `json:"count"`
	Orders        []CreditOrder `json:"orders"`
}

// CreditSummary is the credit page payload.
type CreditSummary struct {
	TotalOutstanding float64       `json:"totalOutstanding"`
	CustomerCount    int           `json:"customerCount"`
	OverdueCount     int           `json:"overdueCount"`
	Groups           []CreditGroup `json:"groups"`
}

// DaysPending is the number of whole days between createdAt and now.
func DaysPending(createdAt, now time.Time) int {
	d := now.Sub(createdAt)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// OutstandingCredit sums the totals of unpaid orders.
func OutstandingCredit(orders []models.Order) float64 {
	var total float64
	for _, o := range orders {
		if o.PaymentStatus == models.PaymentStatusUnpaid {
			total += o.TotalAmount
		}
	}
	return total
}

// AggregateCredit groups unpaid orders by customer phone. Groups are sorted
// by total descending; equal totals keep first-seen order. Orders within a
// group keep input order. An order is overdue when pending more than
// overdueDays.
func AggregateCredit(orders []models.Order, now time.Time, overdueDays int) CreditSummary {
	summary := CreditSummary{Groups: make([]CreditGroup, 0)}
	index := make(map[string]int)

	for _, o := range orders {
		if o.PaymentStatus != models.PaymentStatusUnpaid {
			continue
		}
		days := DaysPending(o.CreatedAt, now)
		co := CreditOrder{Order: o, DaysPending: days, Overdue: days > overdueDays}
		if co.Overdue {
			summary.OverdueCount++
		}

		i, ok := index[o.CustomerPhone]
		if !ok {
			i = len(summary.Groups)
			index[o.CustomerPhone] = i
			summary.Groups = append(summary.Groups, CreditGroup{
				CustomerName:  o.CustomerName,
				CustomerPhone: o.CustomerPhone,
			})
		}
		g := &summary.Groups[i]
		g.Total += o.TotalAmount
		g.Count++
		g.Orders = append(g.Orders, co)
		summary.TotalOutstanding += o.TotalAmount
	}

	sort.SliceStable(summary.Groups, func(a, b int) bool {
		return summary.Groups[a].Total > summary.Groups[b].Total
	})
	summary.CustomerCount = len(summary.Groups)
	return summary
}
