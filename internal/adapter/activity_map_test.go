package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"example.com/healthsync/internal/domain"
)

func TestClassifyActivity(t *testing.T) {
	assert.Equal(t, domain.ExerciseRunning, classifyActivity("running"))
	assert.Equal(t, domain.ExerciseRunning, classifyActivity("treadmill_running"))
	assert.Equal(t, domain.ExerciseWalking, classifyActivity("hiking"))
	assert.Equal(t, domain.ExerciseCycling, classifyActivity("indoor_cycling"))
	assert.Equal(t, domain.ExerciseSwimming, classifyActivity("open_water_swim"))
	assert.Equal(t, domain.ExerciseStrength, classifyActivity("functional_strength_training"))
	assert.Equal(t, domain.ExerciseYoga, classifyActivity("pilates"))
}

func TestClassifyActivityNormalizesInput(t *testing.T) {
	assert.Equal(t, domain.ExerciseRunning, classifyActivity("  Running "))
	assert.Equal(t, domain.ExerciseYoga, classifyActivity("YOGA"))
}

// Activity types the platform introduces later must classify, not error.
func TestClassifyActivityIsTotal(t *testing.T) {
	assert.Equal(t, domain.ExerciseOther, classifyActivity("mixed_martial_arts"))
	assert.Equal(t, domain.ExerciseOther, classifyActivity("underwater_basket_weaving"))
	assert.Equal(t, domain.ExerciseOther, classifyActivity(""))
}
