package render

import "context"

// Result describes a completed render.
type Result struct {
	DataURL string
	Width   int
	Height  int

	// Token is the request number within its Renderer, starting at 1.
	Token  uint64
	Cached bool
}

// Job tracks one Render call: pending until done, failed or superseded.
type Job struct {
	token      uint64
	resolution int
	done       chan struct{}
	result     Result
	err        error
}

func newJob(token uint64, resolution int) *Job {
	return &Job{token: token, resolution: resolution, done: make(chan struct{})}
}

func (j *Job) complete(res Result, err error) {
	j.result = res
	j.err = err
	close(j.done)
}

// Token returns the request number.
func (j *Job) Token() uint64 { return j.token }

// Resolution returns the requested surface edge.
func (j *Job) Resolution() int { return j.resolution }

// Done is closed once the job has completed, failed or been superseded.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes or ctx ends.
func (j *Job) Wait(ctx context.Context) (Result, error) {
	select {
	case <-j.done:
		return j.result, j.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the outcome without blocking; ErrPending before completion.
func (j *Job) Result() (Result, error) {
	select {
	case <-j.done:
		return j.result, j.err
	default:
		return Result{}, ErrPending
	}
}
