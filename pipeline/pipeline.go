// Package pipeline provides a small, context-aware framework for fanning
// payloads out over a chain of processing stages.
package pipeline

import (
	"context"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
	"sync"
)

// Payload is implemented by values that flow through a Pipeline.
type Payload interface {
	// Clone returns a deep copy of the payload.
	Clone() Payload

	// MarkAsProcessed is invoked once the payload reached the sink or was
	// dropped by a stage.
	MarkAsProcessed()
}

// Processor is implemented by types that process payloads as part of a
// pipeline stage. Returning a nil payload drops it.
type Processor interface {
	Process(context.Context, Payload) (Payload, error)
}

// ProcessorFunc adapts a plain function to the Processor interface.
type ProcessorFunc func(context.Context, Payload) (Payload, error)

// Process calls f(ctx, p).
func (f ProcessorFunc) Process(ctx context.Context, p Payload) (Payload, error) {
	return f(ctx, p)
}

// StageParams holds the channels and index a StageRunner operates on.
type StageParams interface {
	// StageIndex returns the position of this stage in the pipeline.
	StageIndex() int

	// Input returns a channel for reading the input payloads for a stage.
	Input() <-chan Payload

	// Output returns a channel for writing the output payloads for a stage.
	Output() chan<- Payload

	// Error returns a channel for writing errors that were encountered by
	// a stage while processing payloads.
	Error() chan<- error
}

// StageRunner is implemented by types that can be strung together to form a
// multi-stage pipeline.
type StageRunner interface {
	// Run blocks until the input channel is closed, ctx is cancelled or
	// an error occurs.
	Run(context.Context, StageParams)
}

// Source is implemented by types that generate payloads for a pipeline.
type Source interface {
	// Next fetches the next payload and returns false when no more
	// payloads are available or an error occurred.
	Next(context.Context) bool

	// Payload returns the payload fetched by the last call to Next.
	Payload() Payload

	// Error returns the last error observed by the source.
	Error() error
}

// Sink is implemented by types that act as the tail of a pipeline.
type Sink interface {
	// Consume processes a payload emitted by the last stage.
	Consume(context.Context, Payload) error
}

// Pipeline is a chain of stages fed by a Source and drained by a Sink.
type Pipeline struct {
	stages []StageRunner
}

// New returns a pipeline that runs the provided stages in order.
func New(stages ...StageRunner) *Pipeline {
	return &Pipeline{stages: stages}
}

// Process reads payloads from source, pushes them through every stage and
// hands the results to sink. It blocks until the source is exhausted and all
// payloads are drained, an error occurs or ctx is cancelled. Errors from all
// stages are aggregated.
func (p *Pipeline) Process(ctx context.Context, source Source, sink Sink) error {
	var wg sync.WaitGroup
	pCtx, cancel := context.WithCancel(ctx)

	// stageCh[i] feeds stage i; the last channel feeds the sink.
	stageCh := make([]chan Payload, len(p.stages)+1)
	errCh := make(chan error, len(p.stages)+2)
	for i := 0; i < len(stageCh); i++ {
		stageCh[i] = make(chan Payload)
	}

	for i := 0; i < len(p.stages); i++ {
		wg.Add(1)
		go func(stageIndex int) {
			p.stages[stageIndex].Run(pCtx, &workerParams{
				stage: stageIndex,
				inCh:  stageCh[stageIndex],
				outCh: stageCh[stageIndex+1],
				errCh: errCh,
			})

			// The next stage exits once its input is closed.
			close(stageCh[stageIndex+1])
			wg.Done()
		}(i)
	}

	wg.Add(2)
	go func() {
		sourceWorker(pCtx, source, stageCh[0], errCh)
		close(stageCh[0])
		wg.Done()
	}()
	go func() {
		sinkWorker(pCtx, sink, stageCh[len(stageCh)-1], errCh)
		wg.Done()
	}()

	go func() {
		wg.Wait()
		close(errCh)
		cancel()
	}()

	var err error
	for pErr := range errCh {
		err = multierror.Append(err, pErr)
		cancel()
	}
	return err
}

func sourceWorker(ctx context.Context, source Source, outCh chan<- Payload, errCh chan<- error) {
	for source.Next(ctx) {
		payload := source.Payload()
		select {
		case outCh <- payload:
		case <-ctx.Done():
			return
		}
	}

	if err := source.Error(); err != nil {
		maybeEmitError(xerrors.Errorf("pipeline source: %w", err), errCh)
	}
}

func sinkWorker(ctx context.Context, sink Sink, inCh <-chan Payload, errCh chan<- error) {
	for {
		select {
		case payload, ok := <-inCh:
			if !ok {
				return
			}

			if err := sink.Consume(ctx, payload); err != nil {
				maybeEmitError(xerrors.Errorf("pipeline sink: %w", err), errCh)
				return
			}
			payload.MarkAsProcessed()
		case <-ctx.Done():
			return
		}
	}
}

// maybeEmitError attempts to queue err to a buffered error channel. If the
// channel is full the error is dropped.
func maybeEmitError(err error, errCh chan<- error) {
	select {
	case errCh <- err:
	default:
	}
}

type workerParams struct {
	stage int

	inCh  <-chan Payload
	outCh chan<- Payload
	errCh chan<- error
}

func (p *workerParams) StageIndex() int        { return p.stage }
func (p *workerParams) Input() <-chan Payload  { return p.inCh }
func (p *workerParams) Output() chan<- Payload { return p.outCh }
func (p *workerParams) Error() chan<- error    { return p.errCh }
