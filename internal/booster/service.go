package booster

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javapro/tweakctl/internal/fps"
	"github.com/javapro/tweakctl/internal/shell"
)

// Status titles and messages reported by the monitor.
const (
	TitleActive     = "Performance mode on"
	MsgWaiting      = "Waiting for game..."
	msgActivePrefix = "Active: "
)

// Default polling intervals.
const (
	DefaultGameInterval = 3 * time.Second
	DefaultFPSInterval  = time.Second
)

// Status is what the monitor currently reports.
type Status struct {
	Title   string `json:"title"`
	Message string `json:"message"`

	// Package is the focused game, empty while waiting.
	Package string `json:"package,omitempty"`
}

// Options configures a Service.
type Options struct {
	GameInterval time.Duration
	FPSInterval  time.Duration

	// OnStatus is called when the focused game changes.
	OnStatus func(Status)

	// OnFPS is called with each frame rate sample.
	OnFPS func(int)
}

// Service is the in-process monitor. It implements tweak.ServiceController.
type Service struct {
	exec  shell.OutputExecutor
	games *GameList
	fps   *fps.Reader
	opts  Options

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	status  Status
	lastFPS int
}

// NewService creates a stopped monitor.
//
// Parameters:
//   - exec: Executor used for focus and FPS queries
//   - games: Game list consulted on each poll
//   - reader: FPS node reader; nil disables FPS sampling
//   - opts: Intervals and callbacks; zero intervals use the defaults
//
// Returns:
//   - *Service: A monitor that is not yet running
func NewService(exec shell.OutputExecutor, games *GameList, reader *fps.Reader, opts Options) *Service {
	if opts.GameInterval <= 0 {
		opts.GameInterval = DefaultGameInterval
	}
	if opts.FPSInterval <= 0 {
		opts.FPSInterval = DefaultFPSInterval
	}
	return &Service{
		exec:   exec,
		games:  games,
		fps:    reader,
		opts:   opts,
		status: Status{Title: TitleActive, Message: MsgWaiting},
	}
}

// Start launches the polling loops in the background. The loops outlive ctx;
// call Stop to end them. Starting a running service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		s.Run(runCtx)
	}(s.done)
	log.Debug("Monitor started")
	return nil
}

// Stop ends the polling loops and waits for them to return.
func (s *Service) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	log.Debug("Monitor stopped")
	return nil
}

// Running reports whether Start has been called without a matching Stop.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Status returns the last reported status.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// FPS returns the last sampled frame rate.
func (s *Service) FPS() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFPS
}

// Run polls until ctx is done. It blocks; Start runs it in the background.
func (s *Service) Run(ctx context.Context) {
	s.report(Status{Title: TitleActive, Message: MsgWaiting})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.gameLoop(ctx)
	}()
	if s.fps != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.fpsLoop(ctx)
		}()
	}
	wg.Wait()
}

func (s *Service) gameLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.GameInterval)
	defer ticker.Stop()

	// The focused package is re-matched on every poll so game list edits
	// take effect without a focus change.
	lastGame := ""
	for {
		game := TopApp(ctx, s.exec)
		if !s.games.Contains(game) {
			game = ""
		}
		if game != lastGame {
			if game != "" {
				s.report(Status{Title: TitleActive, Message: msgActivePrefix + game, Package: game})
			} else {
				s.report(Status{Title: TitleActive, Message: MsgWaiting})
			}
			lastGame = game
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) fpsLoop(ctx context.Context) {
	if _, ok := s.fps.Probe(ctx); !ok {
		return
	}
	ticker := time.NewTicker(s.opts.FPSInterval)
	defer ticker.Stop()

	for {
		rate := s.fps.Read(ctx)
		s.mu.Lock()
		s.lastFPS = rate
		onFPS := s.opts.OnFPS
		s.mu.Unlock()
		if onFPS != nil {
			onFPS(rate)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) report(st Status) {
	s.mu.Lock()
	s.status = st
	onStatus := s.opts.OnStatus
	s.mu.Unlock()

	log.Debug("Monitor status", "message", st.Message)
	if onStatus != nil {
		onStatus(st)
	}
}
