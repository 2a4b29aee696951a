// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/repositories/battles"
	battlesmock "github.com/KirkDiggler/rpg-campaign/internal/repositories/battles/mock"
)

// ExpectBattleLoad sets up the repository to return battle once
func ExpectBattleLoad(ctx context.Context, mockRepo *battlesmock.MockRepository, battle *battles.BattleData) {
	mockRepo.EXPECT().
		Get(ctx, &battles.GetInput{ID: battle.ID}).
		Return(&battles.GetOutput{Battle: battle}, nil)
}

// ExpectBattleMissing sets up the repository to report battleID as not found
func ExpectBattleMissing(ctx context.Context, mockRepo *battlesmock.MockRepository, battleID string) {
	mockRepo.EXPECT().
		Get(ctx, &battles.GetInput{ID: battleID}).
		Return(nil, errors.NotFoundf("battle %s not found", battleID))
}

// ExpectBattleSave sets up the repository to store any update of the battle
// and echo it back
func ExpectBattleSave(ctx context.Context, mockRepo *battlesmock.MockRepository) *gomock.Call {
	return mockRepo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *battles.UpdateInput) (*battles.UpdateOutput, error) {
			return &battles.UpdateOutput{Battle: input.Battle}, nil
		})
}

// ExpectBattleSaveError sets up the repository to fail the next update
func ExpectBattleSaveError(ctx context.Context, mockRepo *battlesmock.MockRepository, err error) {
	mockRepo.EXPECT().
		Update(ctx, gomock.Any()).
		Return(nil, err)
}
