package core

import "context"

// CloseResult is the decision of a CloseStrategy. It is produced fresh for
// every request and never stored.
type CloseResult struct {
	// CloseCanOccur is true only when every candidate permits closing.
	CloseCanOccur bool
	// Closable lists the candidates that permitted closing, in input order.
	Closable []Child
}

// CloseStrategy decides which of a set of candidates may close.
type CloseStrategy interface {
	Execute(ctx context.Context, candidates []Child) (CloseResult, error)
}
