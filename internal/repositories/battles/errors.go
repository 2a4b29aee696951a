package battles

import (
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

func errBattleRequired() error {
	return errors.InvalidArgument("battle is required")
}

func errIDRequired() error {
	return errors.InvalidArgument("battle ID is required")
}

func errInputRequired() error {
	return errors.InvalidArgument("input is required")
}

func errNotFound(id string) error {
	return errors.NotFoundf("battle %s not found", id).WithMeta("battle_id", id)
}

func errAlreadyExists(id string) error {
	return errors.AlreadyExistsf("battle %s already exists", id).WithMeta("battle_id", id)
}
