package scoring

import "time"

// Config holds the durations of the behavior cycle.
type Config struct {
	// ScoreTime is how long the action phase lasts in teleop.
	ScoreTime time.Duration `mapstructure:"score_time" yaml:"score_time"`
	// AutonScoreTime is how long an autonomous autoscore action lasts.
	AutonScoreTime time.Duration `mapstructure:"auton_score_time" yaml:"auton_score_time"`
	// TwistAtReefDelay is how long the twist must be staged before it is
	// considered settled at the reef.
	TwistAtReefDelay time.Duration `mapstructure:"twist_at_reef_delay" yaml:"twist_at_reef_delay"`
	// ScoreAfterAlign is the alignment confirmation window before autoscore fires.
	ScoreAfterAlign      time.Duration `mapstructure:"score_after_align" yaml:"score_after_align"`
	AutonScoreAfterAlign time.Duration `mapstructure:"auton_score_after_align" yaml:"auton_score_after_align"`
	// ActionPrepToAction is the grace period after the pilot releases
	// autoscore before the mode is dropped.
	ActionPrepToAction time.Duration `mapstructure:"action_prep_to_action" yaml:"action_prep_to_action"`
	// DisableClearWindow is how long the full reset is repeated after disable.
	DisableClearWindow time.Duration `mapstructure:"disable_clear_window" yaml:"disable_clear_window"`
}

// DefaultConfig returns the competition tuning.
func DefaultConfig() Config {
	return Config{
		ScoreTime:            2 * time.Second,
		AutonScoreTime:       750 * time.Millisecond,
		TwistAtReefDelay:     200 * time.Millisecond,
		ScoreAfterAlign:      30 * time.Millisecond,
		AutonScoreAfterAlign: 50 * time.Millisecond,
		ActionPrepToAction:   50 * time.Millisecond,
		DisableClearWindow:   3 * time.Second,
	}
}
