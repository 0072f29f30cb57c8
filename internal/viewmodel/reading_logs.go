package viewmodel

import (
	"context"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/repo"
)

// ReadingLogViewModel publishes the caller's reading logs plus the two
// derived statistics. Successful writes refresh both the list and the
// statistics in full.
type ReadingLogViewModel struct {
	repo *repo.ReadingLogRepository

	Busy               *Value[bool]
	Outcome            *Value[Outcome]
	Logs               *Value[[]*domain.ReadingLog]
	PagesReadToday     *Value[int]
	BooksReadThisMonth *Value[int]
}

// NewReadingLogViewModel creates an adapter over the reading log access
// layer.
func NewReadingLogViewModel(r *repo.ReadingLogRepository) *ReadingLogViewModel {
	return &ReadingLogViewModel{
		repo:               r,
		Busy:               NewValue(false),
		Outcome:            NewValue(Outcome{}),
		Logs:               NewValue[[]*domain.ReadingLog](nil),
		PagesReadToday:     NewValue(0),
		BooksReadThisMonth: NewValue(0),
	}
}

// Start opens the standing log subscription feeding Logs and keeps the
// statistics in step with every delivered snapshot.
func (vm *ReadingLogViewModel) Start(ctx context.Context) error {
	return vm.repo.Subscribe(ctx, func(logs []*domain.ReadingLog) {
		vm.Logs.Set(logs)
		vm.refreshStats(ctx)
	})
}

// Close detaches the subscription.
func (vm *ReadingLogViewModel) Close() {
	vm.repo.Unsubscribe()
}

// Refresh re-reads the full list and statistics.
func (vm *ReadingLogViewModel) Refresh(ctx context.Context) {
	logs, err := vm.repo.ListByCurrentUser(ctx)
	if err != nil {
		vm.Outcome.Set(outcomeOf(err, ""))
		return
	}
	vm.Logs.Set(logs)
	vm.refreshStats(ctx)
}

func (vm *ReadingLogViewModel) refreshStats(ctx context.Context) {
	if pages, err := vm.repo.PagesReadToday(ctx); err == nil {
		vm.PagesReadToday.Set(pages)
	}
	if books, err := vm.repo.BooksReadThisMonth(ctx); err == nil {
		vm.BooksReadThisMonth.Set(books)
	}
}

// AddLog writes a new reading log and publishes the outcome.
func (vm *ReadingLogViewModel) AddLog(ctx context.Context, log domain.ReadingLog) {
	vm.Busy.Set(true)
	_, err := vm.repo.Create(ctx, log)
	vm.Busy.Set(false)

	vm.Outcome.Set(outcomeOf(err, "Reading log added successfully"))
	if err == nil {
		vm.Refresh(ctx)
	}
}

// UpdateLog overwrites the log at id and publishes the outcome.
func (vm *ReadingLogViewModel) UpdateLog(ctx context.Context, id string, log domain.ReadingLog) {
	vm.Busy.Set(true)
	err := vm.repo.Update(ctx, id, log)
	vm.Busy.Set(false)

	vm.Outcome.Set(outcomeOf(err, "Reading log updated successfully"))
	if err == nil {
		vm.Refresh(ctx)
	}
}

// DeleteLog removes the log at id and publishes the outcome.
func (vm *ReadingLogViewModel) DeleteLog(ctx context.Context, id string) {
	vm.Busy.Set(true)
	err := vm.repo.Delete(ctx, id)
	vm.Busy.Set(false)

	vm.Outcome.Set(outcomeOf(err, "Reading log deleted successfully"))
	if err == nil {
		vm.Refresh(ctx)
	}
}
