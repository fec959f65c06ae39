package worker

import "context"

// FuncTask adapts a function to the Task interface.
type FuncTask struct {
	id string
	fn func(ctx context.Context) error
}

// NewFuncTask returns a Task that runs fn.
func NewFuncTask(id string, fn func(ctx context.Context) error) *FuncTask {
	return &FuncTask{id: id, fn: fn}
}

func (t *FuncTask) ID() string { return t.id }

func (t *FuncTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.fn(ctx)
}
