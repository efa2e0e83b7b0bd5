package types

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// ProgressOutput holds the latest status line of a running experiment
type ProgressOutput struct {
	mu        sync.Mutex
	printable string
	running   bool
}

func NewProgressOutput() *ProgressOutput {
	return &ProgressOutput{}
}

// Set the status line (blocking)
func (p *ProgressOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// TrySet sets the status line unless the printer is reading it
func (p *ProgressOutput) TrySet(s string) bool {
	if !p.mu.TryLock() {
		return false
	}
	defer p.mu.Unlock()
	p.printable = s
	return true
}

func (p *ProgressOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}

func (p *ProgressOutput) setRunning(r bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = r
}

func (p *ProgressOutput) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// TerminalPrinter redraws one line per parallel slot at a fixed interval
type TerminalPrinter struct {
	outputs  []*ProgressOutput
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}

	writer  *uilive.Writer
	writers []io.Writer
}

func NewTerminalPrinter(outputs []*ProgressOutput, interval time.Duration) *TerminalPrinter {
	writer := uilive.New()
	writers := make([]io.Writer, len(outputs))
	for i := range outputs {
		if i == 0 {
			writers[i] = writer
			continue
		}
		writers[i] = writer.Newline()
	}
	return &TerminalPrinter{
		outputs:  outputs,
		interval: interval,
		done:     make(chan struct{}),
		writer:   writer,
		writers:  writers,
	}
}

// Start printing until Stop is called or the context is cancelled
func (p *TerminalPrinter) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.print()
				return
			case <-ticker.C:
				p.print()
			}
		}
	}()
}

// Stop prints a last time and waits for the printer to exit
func (p *TerminalPrinter) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

func (p *TerminalPrinter) print() {
	for i, output := range p.outputs {
		status := output.Get()
		if status == "" {
			status = "idle"
		}
		fmt.Fprintln(p.writers[i], status)
	}
	p.writer.Flush()
}

type parallelResult struct {
	index int
	table *MetricsTable
	err   error
}

// RunParallel runs and saves the experiments with at most parallelism running
// at a time, then analyzes and compares them in the order they were added.
// The first failure cancels the remaining experiments. Every experiment must
// own its environment and agent
func (c *Comparison) RunParallel(ctx context.Context, parallelism int) error {
	if parallelism <= 1 || len(c.Experiments) <= 1 {
		return c.Run(ctx)
	}
	if parallelism > len(c.Experiments) {
		parallelism = len(c.Experiments)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outputs := make([]*ProgressOutput, parallelism)
	for i := range outputs {
		outputs[i] = NewProgressOutput()
	}
	showProgress := false
	for _, e := range c.Experiments {
		showProgress = showProgress || e.progress
	}
	var printer *TerminalPrinter
	if showProgress {
		printer = NewTerminalPrinter(outputs, 500*time.Millisecond)
		printer.Start(ctx)
	}

	jobs := make(chan int)
	results := make(chan parallelResult, len(c.Experiments))
	wg := new(sync.WaitGroup)
	for slot := 0; slot < parallelism; slot++ {
		wg.Add(1)
		go func(output *ProgressOutput) {
			defer wg.Done()
			for i := range jobs {
				e := c.Experiments[i]
				e.setOutput(output)
				output.setRunning(true)
				err := e.Run(ctx)
				var table *MetricsTable
				if err == nil {
					table, err = e.Save()
					if err != nil {
						err = fmt.Errorf("experiment %s: %w", e.Name, err)
					}
				}
				output.setRunning(false)
				e.setOutput(nil)
				if err != nil {
					cancel()
				}
				results <- parallelResult{index: i, table: table, err: err}
			}
		}(outputs[slot])
	}

	go func() {
		defer close(jobs)
		for i := range c.Experiments {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	wg.Wait()
	close(results)
	if printer != nil {
		printer.Stop()
	}

	tables := make([]*MetricsTable, len(c.Experiments))
	var firstErr error
	for r := range results {
		if r.err != nil && (firstErr == nil || (isCancellation(firstErr) && !isCancellation(r.err))) {
			firstErr = r.err
		}
		tables[r.index] = r.table
	}
	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.compare(tables)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
