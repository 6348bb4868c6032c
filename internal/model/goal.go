package model

// Calorie goal bounds and defaults.
const (
	MinCalorieGoal     = 500
	MaxCalorieGoal     = 10000
	DefaultCalorieGoal = 2000

	// CalorieGoalKey is the local storage key holding the serialized CalorieGoal.
	CalorieGoalKey = "caloriespot_daily_goal"

	// GoalDateLayout is the layout of CalorieGoal.LastUpdated.
	GoalDateLayout = "2006-01-02"
)

// CalorieGoal is the persisted daily calorie target.
type CalorieGoal struct {
	Goal        int    `json:"goal"`
	LastUpdated string `json:"lastUpdated"`
}

// ClampCalorieGoal snaps value into [MinCalorieGoal, MaxCalorieGoal].
func ClampCalorieGoal(value int) int {
	if value < MinCalorieGoal {
		return MinCalorieGoal
	}
	if value > MaxCalorieGoal {
		return MaxCalorieGoal
	}
	return value
}
