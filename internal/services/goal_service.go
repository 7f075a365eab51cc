package services

import (
	"context"

	"moneywise/internal/core"
	"moneywise/internal/stats"
	"moneywise/internal/store"
)

type GoalService struct {
	repo store.GoalRepository
}

func NewGoalService(repo store.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

func (s *GoalService) Create(ctx context.Context, sess core.Session, g core.Goal) (core.Goal, error) {
	return s.repo.CreateGoal(ctx, sess, g)
}

func (s *GoalService) Update(ctx context.Context, sess core.Session, id string, g core.Goal) (core.Goal, error) {
	return s.repo.UpdateGoal(ctx, sess, id, g)
}

func (s *GoalService) Delete(ctx context.Context, sess core.Session, id string) error {
	return s.repo.DeleteGoal(ctx, sess, id)
}

func (s *GoalService) List(ctx context.Context, sess core.Session) ([]core.Goal, error) {
	return s.repo.ListGoals(ctx, sess)
}

func (s *GoalService) Contribute(ctx context.Context, sess core.Session, id string, delta core.Money) (core.Goal, error) {
	return s.repo.ContributeToGoal(ctx, sess, id, delta)
}

// MonthlyBudget sums targets of the owner's non-completed goals.
func (s *GoalService) MonthlyBudget(ctx context.Context, sess core.Session) (core.Money, error) {
	goals, err := s.repo.ListGoals(ctx, sess)
	if err != nil {
		return core.Money{}, err
	}
	return stats.MonthlyBudget(goals), nil
}
