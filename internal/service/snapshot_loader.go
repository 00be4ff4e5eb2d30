package service

import (
	"context"

	"github.com/kmelnikov/taskalloc/internal/domain"
	"github.com/kmelnikov/taskalloc/internal/repository"
)

type repoSnapshotLoader struct {
	employees   repository.EmployeeRepo
	tasks       repository.TaskRepo
	assignments repository.AssignmentRepo
	progress    repository.ProgressLogRepo
}

// NewSnapshotLoader assembles scheduling state from the repositories.
func NewSnapshotLoader(
	employees repository.EmployeeRepo,
	tasks repository.TaskRepo,
	assignments repository.AssignmentRepo,
	progress repository.ProgressLogRepo,
) SnapshotLoader {
	return &repoSnapshotLoader{
		employees:   employees,
		tasks:       tasks,
		assignments: assignments,
		progress:    progress,
	}
}

func (l *repoSnapshotLoader) LoadSnapshot(ctx context.Context) ([]domain.Task, []domain.Employee, []domain.Assignment, []domain.ProgressLog, error) {
	tasks, err := l.tasks.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	employees, err := l.employees.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	assignments, err := l.assignments.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logs, err := l.progress.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return tasks, employees, assignments, logs, nil
}
