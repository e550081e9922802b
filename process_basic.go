package reap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/tychoish/emt"
	"github.com/tychoish/reap/executor"
	"github.com/tychoish/reap/options"
	"github.com/tychoish/reap/util"
)

type basicProcess struct {
	info          ProcessInfo
	exec          executor.Executor
	err           error
	id            string
	triggers      ProcessTriggerSequence
	waitProcessed chan struct{}
	sync.RWMutex
}

// NewBasicProcess starts a local process and returns a handle that
// observes its exit in a background goroutine.
func NewBasicProcess(ctx context.Context, opts *options.Create) (Process, error) {
	id := uuid.New().String()
	opts.AddEnvVar(EnvironID, id)

	exec, err := opts.Resolve()
	if err != nil {
		return nil, fmt.Errorf("problem building command from options: %w", err)
	}

	if err = exec.Start(); err != nil {
		catcher := emt.NewBasicCatcher()
		catcher.Errorf("problem starting process execution: %w", err)
		catcher.Add(exec.Close())
		return nil, catcher.Resolve()
	}

	p := &basicProcess{
		id:            id,
		exec:          exec,
		waitProcessed: make(chan struct{}),
	}

	p.info.ID = id
	p.info.Host = util.GetHostname()
	p.info.StartAt = time.Now()
	p.info.Options = *opts
	p.info.IsRunning = true
	p.info.PID = exec.PID()

	go p.transition()

	return p, nil
}

func (p *basicProcess) transition() {
	defer p.exec.Close()

	err := p.exec.Wait()

	p.Lock()
	defer p.Unlock()
	defer close(p.waitProcessed)

	p.err = err
	p.info.EndAt = time.Now()
	p.info.IsRunning = false
	p.info.Complete = true
	if sig, signaled := p.exec.SignalInfo(); signaled {
		p.info.ExitCode = int(sig)
	} else {
		p.info.ExitCode = p.exec.ExitCode()
	}
	p.info.Successful = p.exec.Success()

	p.triggers.Run(p.info)
}

func (p *basicProcess) ID() string { return p.id }

func (p *basicProcess) Info(_ context.Context) ProcessInfo {
	p.RLock()
	defer p.RUnlock()

	return p.info
}

func (p *basicProcess) Complete(ctx context.Context) bool { return !p.Running(ctx) }

func (p *basicProcess) Running(_ context.Context) bool {
	p.RLock()
	defer p.RUnlock()

	return p.info.IsRunning
}

func (p *basicProcess) Signal(_ context.Context, sig syscall.Signal) error {
	p.RLock()
	defer p.RUnlock()

	if p.info.Complete {
		return fmt.Errorf("cannot signal '%s': %w", p.id, ErrProcessComplete)
	}

	if err := p.exec.Signal(sig); err != nil {
		return fmt.Errorf("problem sending signal '%s' to '%s': %w", sig, p.id, err)
	}

	return nil
}

func (p *basicProcess) Wait(ctx context.Context) (int, error) {
	select {
	case <-p.waitProcessed:
	default:
		select {
		case <-ctx.Done():
			return -1, ctx.Err()
		case <-p.waitProcessed:
		}
	}

	p.RLock()
	defer p.RUnlock()

	return p.info.ExitCode, p.err
}

func (p *basicProcess) RegisterTrigger(_ context.Context, trigger ProcessTrigger) error {
	if trigger == nil {
		return errors.New("cannot register nil trigger")
	}

	p.Lock()
	defer p.Unlock()

	if p.info.Complete {
		return fmt.Errorf("cannot register trigger for '%s': %w", p.id, ErrProcessComplete)
	}

	p.triggers = append(p.triggers, trigger)

	return nil
}
