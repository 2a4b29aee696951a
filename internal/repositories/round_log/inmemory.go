package roundlog

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/KirkDiggler/rpg-campaign/internal/engine/rounds"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

// InMemoryRepository keeps round logs in process memory. Logs never expire.
type InMemoryRepository struct {
	mu   sync.RWMutex
	logs map[string][][]byte
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// NewInMemory creates an empty in-memory round log store
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{logs: make(map[string][][]byte)}
}

// Append stores an encoded copy of the report
func (r *InMemoryRepository) Append(_ context.Context, input *AppendInput) (*AppendOutput, error) {
	if err := validateAppend(input); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(input.Report)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal report")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs[input.BattleID] = append(r.logs[input.BattleID], encoded)
	return &AppendOutput{Length: len(r.logs[input.BattleID])}, nil
}

// List decodes fresh copies so callers cannot alter stored reports
func (r *InMemoryRepository) List(_ context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument(errBattleIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	reports := make([]*rounds.Report, 0, len(r.logs[input.BattleID]))
	for i, encoded := range r.logs[input.BattleID] {
		var report rounds.Report
		if err := json.Unmarshal(encoded, &report); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal report %d", i)
		}
		if report.Round > input.SinceRound {
			reports = append(reports, &report)
		}
	}
	return &ListOutput{Reports: reports}, nil
}

// Delete drops the battle's log
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument(errBattleIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.logs[input.BattleID])
	delete(r.logs, input.BattleID)
	return &DeleteOutput{ReportsDeleted: n}, nil
}
