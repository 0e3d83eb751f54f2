package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/thirdperson/prefabs"
)

// aiScriptRuntime is one compiled bot script plus the state map it keeps
// between ticks.
type aiScriptRuntime struct {
	scriptPath string
	compiled   *tengo.Compiled
	stateData  *tengo.Map
}

const aiDispatchScript = `
update(__engine, __state)
`

// ScriptLoader returns the source of a named script.
type ScriptLoader func(name string) ([]byte, error)

func compileAIScript(path string, load ScriptLoader) (*aiScriptRuntime, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ai: empty script path")
	}
	if load == nil {
		load = prefabs.LoadScript
	}
	scriptBytes, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("ai: load %s: %w", path, err)
	}

	src := string(scriptBytes) + "\n" + aiDispatchScript
	script := tengo.NewScript([]byte(src))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ai: compile %s: %w", path, err)
	}

	return &aiScriptRuntime{
		scriptPath: path,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (rt *aiScriptRuntime) run(engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsBool(obj tengo.Object, fallback bool) bool {
	if obj == nil {
		return fallback
	}
	if _, ok := obj.(*tengo.Undefined); ok {
		return fallback
	}
	return !obj.IsFalsy()
}

func tengoBool(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func tengoFloat(v float32) tengo.Object {
	return &tengo.Float{Value: float64(v)}
}

func tengoVec3(x, y, z float32) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{tengoFloat(x), tengoFloat(y), tengoFloat(z)}}
}
