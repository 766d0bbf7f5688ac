package main

import "github.com/Zachkp/portfolio-fx/internal/presets"

// builtinPresets are seeded into the store on first run when no presets
// file is configured.
var builtinPresets = []presets.Preset{
	{
		Name:    "hero",
		Strings: []string{"Web Developer", "Designer", "Storyteller"},
	},
	{
		Name: "projects",
		Strings: []string{
			"a terminal email client",
			"a terminal music player",
			"a game recommender",
			"this portfolio",
		},
		TypeSpeedMS: 70,
		PauseMS:     1500,
	},
	{
		Name:    "footer",
		Strings: []string{"Thanks for stopping by."},
		Loop:    boolPtr(false),
	},
}

func boolPtr(v bool) *bool {
	return &v
}
