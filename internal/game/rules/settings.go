package rules

import "time"

// Settings are the rule knobs supplied at init time. They are read-only for
// the duration of a match; changes take effect on the next InitGame.
type Settings struct {
	// Winning conditions
	ZoneControlCount         int  `mapstructure:"zone_control_count"`
	EnableEliminationVictory bool `mapstructure:"enable_elimination_victory"`
	EnableAMRVictory         bool `mapstructure:"enable_amr_victory"`

	// Zone settings
	ZoneCapacity         int `mapstructure:"zone_capacity"`
	InitialTokensPerTeam int `mapstructure:"initial_tokens_per_team"`

	// AMR settings
	MaxAMR      int `mapstructure:"max_amr"`
	StartingAMR int `mapstructure:"starting_amr"`

	// Deck and hand settings
	HandSize   int `mapstructure:"hand_size"`
	DeckCopies int `mapstructure:"deck_copies"`

	// Event settings
	GlobalEventThreshold int  `mapstructure:"global_event_threshold"`
	EnableGlobalEvents   bool `mapstructure:"enable_global_events"`

	// Turn settings: 0 means unlimited.
	TurnLimit int `mapstructure:"turn_limit"`

	// Die settings
	DieSides int `mapstructure:"die_sides"`

	// AI pacing delay, owned by the embedding session, never the engine.
	AIThinkingDelay time.Duration `mapstructure:"ai_thinking_delay"`
}

// DefaultSettings returns the documented rule defaults.
func DefaultSettings() Settings {
	return Settings{
		ZoneControlCount:         5,
		EnableEliminationVictory: true,
		EnableAMRVictory:         true,
		ZoneCapacity:             5,
		InitialTokensPerTeam:     2,
		MaxAMR:                   10,
		StartingAMR:              1,
		HandSize:                 3,
		DeckCopies:               3,
		GlobalEventThreshold:     15,
		EnableGlobalEvents:       true,
		TurnLimit:                0,
		DieSides:                 20,
		AIThinkingDelay:          800 * time.Millisecond,
	}
}
