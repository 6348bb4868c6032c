package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

// CalorieGoal keeps the daily calorie goal in memory and mirrors it to local storage.
// The in-memory value is authoritative for the session; storage failures only log.
type CalorieGoal struct {
	mu     sync.RWMutex
	goal   int
	store  model.PreferenceStore
	logger *logger.Logger
	now    func() time.Time
}

func NewCalorieGoal(store model.PreferenceStore, logger *logger.Logger) *CalorieGoal {
	return &CalorieGoal{
		goal:   model.DefaultCalorieGoal,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Load reads the persisted goal into memory and returns it.
// Absent, corrupted or unreadable records fall back to the default goal.
func (g *CalorieGoal) Load(ctx context.Context) int {
	goal := g.read(ctx)

	g.mu.Lock()
	g.goal = goal
	g.mu.Unlock()

	return goal
}

func (g *CalorieGoal) read(ctx context.Context) int {
	raw, found, err := g.store.Get(ctx, model.CalorieGoalKey)
	if err != nil {
		g.logger.Error("Goal service: failed to load calorie goal",
			"error", err.Error())
		return model.DefaultCalorieGoal
	}
	if !found {
		return model.DefaultCalorieGoal
	}

	var record model.CalorieGoal
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		g.logger.Error("Goal service: stored calorie goal is corrupted",
			"error", err.Error())
		return model.DefaultCalorieGoal
	}
	if record.Goal == 0 {
		return model.DefaultCalorieGoal
	}

	return model.ClampCalorieGoal(record.Goal)
}

// SetGoal clamps value, updates memory immediately and then persists it.
func (g *CalorieGoal) SetGoal(ctx context.Context, value int) int {
	goal := model.ClampCalorieGoal(value)

	g.mu.Lock()
	g.goal = goal
	g.mu.Unlock()

	record := model.CalorieGoal{
		Goal:        goal,
		LastUpdated: g.now().Format(model.GoalDateLayout),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		g.logger.Error("Goal service: failed to encode calorie goal",
			"error", err.Error())
		return goal
	}

	if err := g.store.Set(ctx, model.CalorieGoalKey, string(payload)); err != nil {
		g.logger.Error("Goal service: failed to save calorie goal",
			"goal", goal,
			"error", err.Error())
		return goal
	}

	g.logger.Debug("Goal service: calorie goal saved", "goal", goal)
	return goal
}

func (g *CalorieGoal) Goal() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.goal
}
