package service

import "github.com/GTDGit/warung_api/internal/models"

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusCompleted, models.OrderStatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
// Terminal statuses have no outgoing transitions.
func CanTransition(from, to models.OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s.
func NextStatuses(s models.OrderStatus) []models.OrderStatus {
	return append([]models.OrderStatus{}, transitions[s]...)
}
