// Package roundlog provides repository interface and types for the per-battle
// history of resolved rounds
package roundlog

import (
	"context"

	"github.com/KirkDiggler/rpg-campaign/internal/engine/rounds"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=roundlogmock github.com/KirkDiggler/rpg-campaign/internal/repositories/round_log Repository

// AppendInput contains the report to record
type AppendInput struct {
	BattleID string
	Report   *rounds.Report
}

// AppendOutput contains the log length after the append
type AppendOutput struct {
	Length int
}

// ListInput selects reports of one battle
type ListInput struct {
	BattleID string
	// SinceRound skips reports up to and including this round
	SinceRound int
}

// ListOutput contains reports in round order
type ListOutput struct {
	Reports []*rounds.Report
}

// DeleteInput identifies the log to drop
type DeleteInput struct {
	BattleID string
}

// DeleteOutput contains how many reports were dropped
type DeleteOutput struct {
	ReportsDeleted int
}

// Repository defines the interface for round log storage operations
type Repository interface {
	// Append records a resolved round and refreshes the log's TTL
	Append(ctx context.Context, input *AppendInput) (*AppendOutput, error)

	// List returns the recorded reports; an unknown battle has an empty log
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Delete drops the whole log
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}
