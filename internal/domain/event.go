package domain

import "time"

// EventType identifies a reporting event emitted by the engine.
type EventType string

const (
	EventOrderPlaced      EventType = "order_placed"
	EventOrderFilled      EventType = "order_filled"
	EventOrderCancelled   EventType = "order_cancelled"
	EventCapacityExceeded EventType = "capacity_exceeded"
	EventCycleSummary     EventType = "cycle_summary"
	EventBalanceReport    EventType = "balance_report"
)

// Event is a structured reporting event. Which fields are meaningful depends
// on Type: order events carry Side/Price/Amount, capacity_exceeded carries
// Asset, cycle_summary carries HighestBid/LowestAsk/TotalOrders, and
// balance_report carries Quote/Base.
type Event struct {
	Type        EventType `json:"type"`
	Time        time.Time `json:"time"`
	Side        Side      `json:"side,omitempty"`
	Asset       Asset     `json:"asset,omitempty"`
	Price       float64   `json:"price,omitempty"`
	Amount      float64   `json:"amount,omitempty"`
	HighestBid  float64   `json:"highest_bid,omitempty"`
	LowestAsk   float64   `json:"lowest_ask,omitempty"`
	TotalOrders int       `json:"total_orders,omitempty"`
	Quote       float64   `json:"quote,omitempty"`
	Base        float64   `json:"base,omitempty"`
}
