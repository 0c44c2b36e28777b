// Package registry enumerates the health-data categories the engine knows
// about, together with their canonical unit and sync direction. Every other
// component consults this table instead of hardcoding category lists.
package registry

// Category identifies one kind of health data.
type Category string

const (
	CategoryBodyWeight    Category = "body_weight"
	CategoryBodyFat       Category = "body_fat_percentage"
	CategoryActiveEnergy  Category = "active_energy"
	CategoryStepCount     Category = "step_count"
	CategorySleep         Category = "sleep"
	CategoryWorkout       Category = "workout"
	CategoryDietaryEnergy Category = "dietary_energy"
)

// UnitKind is the canonical unit family for a category. Values crossing the
// adapter boundary are always expressed in the canonical unit: mass in kg,
// percentage in 0-100, energy in kcal, duration in minutes.
type UnitKind string

const (
	UnitMass       UnitKind = "mass"
	UnitPercentage UnitKind = "percentage"
	UnitEnergy     UnitKind = "energy"
	UnitCount      UnitKind = "count"
	UnitDuration   UnitKind = "duration"
	UnitSession    UnitKind = "session"
)

type capability struct {
	Unit        UnitKind
	DisplayName string
	Readable    bool
	Writable    bool
}

// Adding a category means adding one entry here.
var capabilities = map[Category]capability{
	CategoryBodyWeight:    {Unit: UnitMass, DisplayName: "Body Weight", Readable: true, Writable: true},
	CategoryBodyFat:       {Unit: UnitPercentage, DisplayName: "Body Fat Percentage", Readable: true, Writable: true},
	CategoryActiveEnergy:  {Unit: UnitEnergy, DisplayName: "Active Energy", Readable: true, Writable: false},
	CategoryStepCount:     {Unit: UnitCount, DisplayName: "Step Count", Readable: true, Writable: false},
	CategorySleep:         {Unit: UnitDuration, DisplayName: "Sleep", Readable: true, Writable: false},
	CategoryWorkout:       {Unit: UnitSession, DisplayName: "Workout", Readable: true, Writable: true},
	CategoryDietaryEnergy: {Unit: UnitEnergy, DisplayName: "Dietary Energy", Readable: false, Writable: true},
}

// ordered keeps the public listing deterministic.
var ordered = []Category{
	CategoryBodyWeight,
	CategoryBodyFat,
	CategoryActiveEnergy,
	CategoryStepCount,
	CategorySleep,
	CategoryWorkout,
	CategoryDietaryEnergy,
}

// Categories returns every known category in a stable order.
func Categories() []Category {
	out := make([]Category, len(ordered))
	copy(out, ordered)
	return out
}

// IsKnown reports whether the category is part of the registry.
func IsKnown(c Category) bool {
	_, ok := capabilities[c]
	return ok
}

// Unit returns the canonical unit family for the category.
func Unit(c Category) UnitKind {
	return capabilities[c].Unit
}

// DisplayName returns the human-readable name for the category.
func DisplayName(c Category) string {
	return capabilities[c].DisplayName
}

// IsReadable reports whether the engine imports this category from the platform.
func IsReadable(c Category) bool {
	return capabilities[c].Readable
}

// IsWritable reports whether the engine exports this category to the platform.
func IsWritable(c Category) bool {
	return capabilities[c].Writable
}

// ReadableCategories returns the full import scope.
func ReadableCategories() []Category {
	out := make([]Category, 0, len(ordered))
	for _, c := range ordered {
		if capabilities[c].Readable {
			out = append(out, c)
		}
	}
	return out
}

// WritableCategories returns the full export scope.
func WritableCategories() []Category {
	out := make([]Category, 0, len(ordered))
	for _, c := range ordered {
		if capabilities[c].Writable {
			out = append(out, c)
		}
	}
	return out
}
