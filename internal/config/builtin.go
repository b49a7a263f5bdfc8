package config

// DefaultEngines returns the engines offered when the config names none. The
// first one is active on new workspaces.
func DefaultEngines() []EngineConfig {
	return []EngineConfig{
		builtinEngine(EngineTree),
		builtinEngine(EngineColumn),
		builtinEngine(EngineFocus),
		builtinEngine(EngineFree),
	}
}

// builtinEngine returns the defaults for an engine type. Unknown types get
// only the type set so validation can report them.
func builtinEngine(t EngineType) EngineConfig {
	switch t {
	case EngineColumn:
		return EngineConfig{Type: EngineColumn, Name: "Column", LeftToRight: true}
	case EngineFocus:
		return EngineConfig{Type: EngineFocus, Name: "Focus"}
	case EngineFree:
		return EngineConfig{Type: EngineFree, Name: "Free"}
	case EngineTree:
		return EngineConfig{Type: EngineTree, Name: "Tree", AddDirection: "right"}
	default:
		return EngineConfig{Type: t}
	}
}
