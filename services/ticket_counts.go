// File: services/ticket_counts.go
package services

import (
	"strconv"

	"lanmomo-web/models"
)

// MomoDiscount is taken off the price when the viewer claims the Momo discount.
const MomoDiscount = 5

// CountTickets tallies paid and reserved tickets per type against capacity.
func CountTickets(tickets []models.Ticket, maxPC, maxConsole int) models.TicketCounts {
	var paid, temp [2]int
	for _, t := range tickets {
		if !t.TypeID.Valid() {
			continue
		}
		if t.Paid {
			paid[t.TypeID]++
		} else {
			temp[t.TypeID]++
		}
	}

	count := func(tt models.TicketType, max int) models.TicketCount {
		c := models.TicketCount{
			Real:  paid[tt],
			Temp:  temp[tt],
			Total: paid[tt] + temp[tt],
			Max:   max,
		}
		c.Avail = max - c.Total
		c.SoldOut = c.Avail <= 0
		return c
	}

	return models.TicketCounts{
		PC:      count(models.TicketTypePC, maxPC),
		Console: count(models.TicketTypeConsole, maxConsole),
	}
}

// FormatMoney renders a whole-dollar amount the way the site shows prices.
func FormatMoney(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + ",00$"
}

// PaymentTotal is the amount due for ticket.
func PaymentTotal(ticket *models.Ticket, discountMomo bool) float64 {
	if ticket == nil {
		return 0
	}
	if discountMomo {
		return ticket.Price - MomoDiscount
	}
	return ticket.Price
}

// SummarizePayment builds the payment page data. ticket may be nil.
func SummarizePayment(ticket *models.Ticket, discountMomo bool) models.PaymentSummary {
	summary := models.PaymentSummary{
		Ticket: ticket,
		Seat:   "-",
		Price:  FormatMoney(0),
		Total:  FormatMoney(PaymentTotal(ticket, discountMomo)),
	}
	if ticket == nil {
		return summary
	}
	summary.TypeLabel = ticket.TypeID.String()
	summary.Price = FormatMoney(ticket.Price)
	if ticket.SeatNum > 0 {
		summary.Seat = strconv.Itoa(ticket.SeatNum)
	}
	if until, ok := ticket.ReservationExpiry(); ok {
		summary.TimerTarget = &until
	}
	return summary
}
