// Package scenario loads Lua battle scripts and runs them against the battle
// orchestrator.
//
// A script builds a Scenario with Scenario.new and returns it:
//
//	local s = Scenario.new("slow and regen")
//	s:participant("hero", { initiative = 10, mana = 5 })
//	s:grant("hero", { template = "slow_minor" })
//	s:grant("hero", Effects.mana_regeneration{ duration = 1, base = 5 })
//	s:round{ active = true }
//	s:expect("hero", { initiative = 7, mana = 10 })
//	return s
package scenario

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

const scenarioTypeName = "scenario"

// Step kinds
const (
	StepParticipant = "participant"
	StepGrant       = "grant"
	StepRound       = "round"
	StepExpect      = "expect"
)

// Scenario is an ordered list of battle steps.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted action. Args holds the Lua table converted to Go
// values; whole numbers arrive as int.
type Step struct {
	Kind   string
	Target string
	Args   map[string]any
}

// LoadFile runs the script at path and returns the Scenario it builds. A
// scenario without a name is named after the file.
func LoadFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeContentDefinition, "failed to load scenario").
			WithMeta("path", path)
	}
	scenario, err := run(state)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run scenario").WithMeta("path", path)
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadString runs a script held in memory. name labels the chunk in Lua
// error messages.
func LoadString(name, source string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadBuffer(state, source, name, ""); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeContentDefinition, "failed to load scenario").
			WithMeta("chunk", name)
	}
	scenario, err := run(state)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run scenario").WithMeta("chunk", name)
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = name
	}
	return scenario, nil
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScenarioType(state)
	registerScenarioConstructor(state)
	registerEffectHelpers(state)
	return state
}

func run(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeContentDefinition, "script error")
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, errors.ContentDefinition("scenario script must return a Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, errors.ContentDefinition("scenario script returned an invalid Scenario")
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "new", Function: scenarioNew},
	}, 0)
	state.SetGlobal("Scenario")
}

func registerEffectHelpers(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "slow", Function: effectHelper(slowDefaults)},
		{Name: "mana_regeneration", Function: effectHelper(manaRegenerationDefaults)},
		{Name: "other", Function: effectHelper(otherDefaults)},
	}, 0)
	state.SetGlobal("Effects")
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "participant", Function: scenarioParticipant},
	{Name: "grant", Function: scenarioGrant},
	{Name: "round", Function: scenarioRound},
	{Name: "expect", Function: scenarioExpect},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&Scenario{Name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

func scenarioParticipant(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	appendStep(scenario, StepParticipant, name, optionalTable(state, 3))
	return 0
}

func scenarioGrant(state *lua.State) int {
	scenario := checkScenario(state)
	target := lua.CheckString(state, 2)
	lua.CheckType(state, 3, lua.TypeTable)
	appendStep(scenario, StepGrant, target, tableToMap(state, 3))
	return 0
}

func scenarioRound(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, StepRound, "", optionalTable(state, 2))
	return 0
}

func scenarioExpect(state *lua.State) int {
	scenario := checkScenario(state)
	target := lua.CheckString(state, 2)
	lua.CheckType(state, 3, lua.TypeTable)
	appendStep(scenario, StepExpect, target, tableToMap(state, 3))
	return 0
}

// effectHelper returns a Lua function that fills defaults into the options
// table and hands back a new table suitable for s:grant.
func effectHelper(defaults map[string]any) lua.Function {
	return func(state *lua.State) int {
		opts := optionalTable(state, 1)
		merged := make(map[string]any, len(defaults)+len(opts))
		for k, v := range defaults {
			merged[k] = v
		}
		for k, v := range opts {
			merged[k] = v
		}
		// an explicit decay wins over the active shorthand
		_, explicitDecay := opts["decay"]
		if active, ok := merged["active"].(bool); ok && !explicitDecay {
			if active {
				merged["decay"] = "active_rounds"
			} else {
				merged["decay"] = "inactive_rounds"
			}
		}
		delete(merged, "active")
		pushMap(state, merged)
		return 1
	}
}

var slowDefaults = map[string]any{
	"kind":       "slow",
	"name":       "Slow",
	"decay":      "active_rounds",
	"power_kind": "fixed",
	"target":     "initiative",
}

var manaRegenerationDefaults = map[string]any{
	"kind":       "mana_regeneration",
	"name":       "Mana Regeneration",
	"decay":      "active_rounds",
	"power_kind": "random",
	"target":     "mana",
}

var otherDefaults = map[string]any{
	"kind":       "other",
	"name":       "Other",
	"decay":      "always",
	"power_kind": "none",
	"target":     "generic",
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind, target string, args map[string]any) {
	if args == nil {
		args = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Target: target, Args: args})
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToMap(state, index)
	default:
		return nil
	}
}

func pushMap(state *lua.State, values map[string]any) {
	state.NewTable()
	for k, v := range values {
		switch value := v.(type) {
		case string:
			state.PushString(value)
		case int:
			state.PushInteger(value)
		case float64:
			state.PushNumber(value)
		case bool:
			state.PushBoolean(value)
		case map[string]any:
			pushMap(state, value)
		default:
			continue
		}
		state.SetField(-2, k)
	}
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
