// Package errors provides the structured error type used across rpg-campaign.
//
// Every error carries a Code, a user-facing Message, an optional Cause and
// free-form Meta. Codes map onto gRPC status codes so handlers can
// convert without inspecting messages.
//
// Creating errors:
//
//	err := errors.NotFound("battle not found").WithMeta("battle_id", id)
//	err := errors.ContentDefinitionf("effect %q: mana effects need a magnitude", name)
//
// Wrapping keeps the code of the wrapped error:
//
//	if err := repo.Update(ctx, data); err != nil {
//	    return errors.Wrap(err, "failed to persist battle")
//	}
//
// Content authoring mistakes (an effect whose capability set does not hold
// together) use CodeContentDefinition. They are raised when the effect is
// built and must never be swallowed by the round resolver.
//
// Validation of configs and inputs goes through ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", input.Name, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
