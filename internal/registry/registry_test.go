package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryCategoryHasCapabilities(t *testing.T) {
	for _, category := range Categories() {
		assert.NotEmpty(t, Unit(category), "category %s has no unit", category)
		assert.NotEmpty(t, DisplayName(category), "category %s has no display name", category)
		assert.True(t, IsReadable(category) || IsWritable(category), "category %s is neither readable nor writable", category)
	}
}

func TestCategoriesOrderIsStable(t *testing.T) {
	first := Categories()
	second := Categories()
	require.Equal(t, first, second)
	require.Len(t, first, 7)
}

func TestDirectionality(t *testing.T) {
	assert.True(t, IsReadable(CategoryBodyWeight))
	assert.True(t, IsWritable(CategoryBodyWeight))

	assert.True(t, IsReadable(CategoryStepCount))
	assert.False(t, IsWritable(CategoryStepCount))

	assert.False(t, IsReadable(CategoryDietaryEnergy))
	assert.True(t, IsWritable(CategoryDietaryEnergy))

	for _, category := range ReadableCategories() {
		assert.True(t, IsReadable(category))
	}
	for _, category := range WritableCategories() {
		assert.True(t, IsWritable(category))
	}
}

func TestUnknownCategory(t *testing.T) {
	assert.False(t, IsKnown(Category("heart_rate_variability")))
	assert.False(t, IsReadable(Category("heart_rate_variability")))
	assert.False(t, IsWritable(Category("heart_rate_variability")))
}

func TestUnits(t *testing.T) {
	assert.Equal(t, UnitMass, Unit(CategoryBodyWeight))
	assert.Equal(t, UnitPercentage, Unit(CategoryBodyFat))
	assert.Equal(t, UnitEnergy, Unit(CategoryActiveEnergy))
	assert.Equal(t, UnitEnergy, Unit(CategoryDietaryEnergy))
	assert.Equal(t, UnitCount, Unit(CategoryStepCount))
	assert.Equal(t, UnitDuration, Unit(CategorySleep))
	assert.Equal(t, UnitSession, Unit(CategoryWorkout))
}
