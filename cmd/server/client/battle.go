package client

import (
	"fmt"

	"github.com/spf13/cobra"

	battlev1alpha1 "github.com/KirkDiggler/rpg-campaign/internal/handlers/battle/v1alpha1"
)

var createBattleCmd = &cobra.Command{
	Use:   "create-battle [name]",
	Short: "Start a new battle",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var resp battlev1alpha1.BattleResponse
		if err := call(battlev1alpha1.MethodCreateBattle, map[string]any{"name": args[0]}, &resp); err != nil {
			return fmt.Errorf("failed to create battle: %w", err)
		}
		fmt.Printf("Created battle %s (%s)\n", resp.Battle.ID, resp.Battle.Name)
		return nil
	},
}

var getBattleCmd = &cobra.Command{
	Use:   "get-battle [battle-id]",
	Short: "Show a battle snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var resp battlev1alpha1.BattleResponse
		if err := call(battlev1alpha1.MethodGetBattle, map[string]any{"battle_id": args[0]}, &resp); err != nil {
			return fmt.Errorf("failed to get battle: %w", err)
		}

		b := resp.Battle
		fmt.Printf("Battle %s (%s), round %d\n", b.ID, b.Name, b.Round)
		for _, p := range b.Participants {
			fmt.Printf("\n%s [%s]\n", p.Name, p.ID)
			fmt.Printf("  Initiative: %d (base %d)\n", p.Initiative, p.BaseInitiative)
			fmt.Printf("  Mana: %d\n", p.Mana)
			for _, e := range p.Effects {
				fmt.Printf("  - %s: %d rounds left (%s)\n", e.Name, e.Duration, e.Capabilities.Decay)
			}
		}
		return nil
	},
}

var listBattlesCmd = &cobra.Command{
	Use:   "list-battles",
	Short: "List live battles",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		var resp battlev1alpha1.ListBattlesResponse
		if err := call(battlev1alpha1.MethodListBattles, map[string]any{}, &resp); err != nil {
			return fmt.Errorf("failed to list battles: %w", err)
		}
		for _, id := range resp.BattleIDs {
			fmt.Println(id)
		}
		fmt.Printf("%d battles\n", len(resp.BattleIDs))
		return nil
	},
}

var endBattleCmd = &cobra.Command{
	Use:   "end-battle [battle-id]",
	Short: "End a battle and delete it",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := call(battlev1alpha1.MethodEndBattle, map[string]any{"battle_id": args[0]}, nil); err != nil {
			return fmt.Errorf("failed to end battle: %w", err)
		}
		fmt.Printf("Ended battle %s\n", args[0])
		return nil
	},
}

var (
	participantKind string
	initiative      int
	mana            int
)

var addParticipantCmd = &cobra.Command{
	Use:   "add-participant [battle-id] [participant-id] [name]",
	Short: "Add a participant to a battle",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		var resp battlev1alpha1.ParticipantResponse
		err := call(battlev1alpha1.MethodAddParticipant, map[string]any{
			"battle_id":       args[0],
			"participant_id":  args[1],
			"name":            args[2],
			"kind":            participantKind,
			"base_initiative": initiative,
			"mana":            mana,
		}, &resp)
		if err != nil {
			return fmt.Errorf("failed to add participant: %w", err)
		}
		return printJSON(resp.Participant)
	},
}

var (
	templateID string
	sourceID   string
)

var grantEffectCmd = &cobra.Command{
	Use:   "grant-effect [battle-id] [target-id]",
	Short: "Grant an effect template to a participant",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		var resp battlev1alpha1.GrantEffectResponse
		err := call(battlev1alpha1.MethodGrantEffect, map[string]any{
			"battle_id":   args[0],
			"target_id":   args[1],
			"source_id":   sourceID,
			"template_id": templateID,
		}, &resp)
		if err != nil {
			return fmt.Errorf("failed to grant effect: %w", err)
		}
		if resp.Refreshed {
			fmt.Println("Refreshed existing effect:")
		}
		return printJSON(resp.Effect)
	},
}

var inactiveRound bool

var resolveRoundCmd = &cobra.Command{
	Use:   "resolve-round [battle-id]",
	Short: "Resolve the next round",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var resp battlev1alpha1.ResolveRoundResponse
		err := call(battlev1alpha1.MethodResolveRound, map[string]any{
			"battle_id": args[0],
			"active":    !inactiveRound,
		}, &resp)
		if err != nil {
			return fmt.Errorf("failed to resolve round: %w", err)
		}

		fmt.Printf("Round %d (active: %v)\n", resp.Report.Round, resp.Report.Active)
		for _, o := range resp.Report.Outcomes {
			fmt.Printf("  %s: initiative %d, mana %d -> %d", o.ParticipantID, o.Initiative, o.ManaBefore, o.ManaAfter)
			if len(o.Expired) > 0 {
				fmt.Printf(", %d expired", len(o.Expired))
			}
			fmt.Println()
		}
		return nil
	},
}

var sinceRound int

var roundHistoryCmd = &cobra.Command{
	Use:   "round-history [battle-id]",
	Short: "Show the reports of resolved rounds",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var resp battlev1alpha1.RoundHistoryResponse
		err := call(battlev1alpha1.MethodGetRoundHistory, map[string]any{
			"battle_id":   args[0],
			"since_round": sinceRound,
		}, &resp)
		if err != nil {
			return fmt.Errorf("failed to get round history: %w", err)
		}
		for _, r := range resp.Reports {
			fmt.Printf("Round %d (active: %v): %d participants, %d expired\n",
				r.Round, r.Active, len(r.Outcomes), r.ExpiredCount())
		}
		return nil
	},
}

func init() {
	roundHistoryCmd.Flags().IntVar(&sinceRound, "since", 0, "skip rounds up to and including this one")

	addParticipantCmd.Flags().StringVar(&participantKind, "kind", "character", "character or monster")
	addParticipantCmd.Flags().IntVar(&initiative, "initiative", 10, "base initiative")
	addParticipantCmd.Flags().IntVar(&mana, "mana", 0, "starting mana")

	grantEffectCmd.Flags().StringVar(&templateID, "template", "", "effect template id")
	grantEffectCmd.Flags().StringVar(&sourceID, "source", "", "participant that created the effect")
	_ = grantEffectCmd.MarkFlagRequired("template") //nolint:errcheck // flag is defined above

	resolveRoundCmd.Flags().BoolVar(&inactiveRound, "inactive", false, "resolve an inactive round")
}
