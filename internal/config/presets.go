package config

// Presets are named starting points for exploration. Values outside the
// suggested teaching ranges are deliberate: "runaway" exists to show the
// model diverging.
var Presets = map[string]*Config{
	"baseline": {
		ReleaseRate: 0.01, BurialRate: 0.005, TempFactor: 0.02,
		InitRock: 1000, InitAtmo: 300, Steps: 500,
	},
	"slow-burial": {
		ReleaseRate: 0.01, BurialRate: 0.001, TempFactor: 0.02,
		InitRock: 1000, InitAtmo: 300, Steps: 1000,
	},
	"fast-release": {
		ReleaseRate: 0.05, BurialRate: 0.005, TempFactor: 0.02,
		InitRock: 2000, InitAtmo: 100, Steps: 500,
	},
	"hot-world": {
		ReleaseRate: 0.01, BurialRate: 0.005, TempFactor: 0.1,
		InitRock: 1000, InitAtmo: 600, Steps: 500,
	},
	"runaway": {
		ReleaseRate: 3.0, BurialRate: 0.005, TempFactor: 0.02,
		InitRock: 1000, InitAtmo: 300, Steps: 100,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
