package adapter

import (
	"strings"

	"example.com/healthsync/internal/domain"
)

// activityKinds maps the platform's activity taxonomy onto the app's closed
// exercise set. The table is total by construction: anything absent,
// including activity types the platform adds in the future, classifies as
// "other" rather than erroring.
var activityKinds = map[string]domain.ExerciseKind{
	"running":           domain.ExerciseRunning,
	"treadmill_running": domain.ExerciseRunning,
	"trail_running":     domain.ExerciseRunning,
	"walking":           domain.ExerciseWalking,
	"hiking":            domain.ExerciseWalking,
	"cycling":           domain.ExerciseCycling,
	"indoor_cycling":    domain.ExerciseCycling,
	"hand_cycling":      domain.ExerciseCycling,
	"swimming":          domain.ExerciseSwimming,
	"open_water_swim":   domain.ExerciseSwimming,
	"strength_training": domain.ExerciseStrength,
	"functional_strength_training": domain.ExerciseStrength,
	"core_training":     domain.ExerciseStrength,
	"cross_training":    domain.ExerciseStrength,
	"yoga":              domain.ExerciseYoga,
	"pilates":           domain.ExerciseYoga,
	"flexibility":       domain.ExerciseYoga,
}

// classifyActivity resolves a platform activity type to an exercise kind.
// Never fails; unmapped values land in the catch-all bucket.
func classifyActivity(activityType string) domain.ExerciseKind {
	if kind, ok := activityKinds[strings.ToLower(strings.TrimSpace(activityType))]; ok {
		return kind
	}
	return domain.ExerciseOther
}
