package simulator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds          int
	Workers         int
	Bet             int
	Strategy        string
	Seed            int64
	StartingBalance int
	Logger          *log.Logger
}

// Result is the outcome of a simulation run
type Result struct {
	Strategy   string
	Rounds     int
	Workers    int
	Bet        int
	Seed       int64
	Rebuys     int // times a worker ran out of chips and started over
	Duration   time.Duration
	Statistics *statistics.Statistics
}

// Simulator plays rounds headlessly with a fixed strategy
type Simulator struct {
	config   Config
	strategy Strategy
	logger   *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	strategy, err := StrategyByName(config.Strategy)
	if err != nil {
		return nil, err
	}
	if config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive: %d", config.Rounds)
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Workers > config.Rounds {
		config.Workers = config.Rounds
	}
	if config.StartingBalance <= 0 {
		config.StartingBalance = game.DefaultStartingBalance
	}
	if err := game.ValidateBet(config.Bet, config.StartingBalance); err != nil {
		return nil, fmt.Errorf("invalid bet: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Simulator{
		config:   config,
		strategy: strategy,
		logger:   logger.WithPrefix("simulator"),
	}, nil
}

type workerResult struct {
	stats  *statistics.Statistics
	rebuys int
}

// Run plays every round across the configured workers. Each worker owns an
// engine seeded from the run seed, so a seed and worker count reproduce a run.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	workers := s.config.Workers
	perWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers
	seeds := randutil.Split(s.config.Seed, workers)

	s.logger.Info("Starting simulation",
		"rounds", s.config.Rounds,
		"workers", workers,
		"strategy", s.strategy.Name(),
		"bet", s.config.Bet,
		"seed", s.config.Seed)

	g, ctx := errgroup.WithContext(ctx)
	results := make([]workerResult, workers)

	for w := 0; w < workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		seed := seeds[w]

		g.Go(func() error {
			res, err := s.runWorker(ctx, w, seed, rounds)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			results[w] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	rebuys := 0
	for _, r := range results {
		total.Merge(r.stats)
		rebuys += r.rebuys
	}

	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	result := &Result{
		Strategy:   s.strategy.Name(),
		Rounds:     total.Rounds,
		Workers:    workers,
		Bet:        s.config.Bet,
		Seed:       s.config.Seed,
		Rebuys:     rebuys,
		Duration:   time.Since(start),
		Statistics: total,
	}
	s.logger.Info("Simulation complete", "rounds", result.Rounds, "mean", total.Mean(), "duration", result.Duration)
	return result, nil
}

// roundCollector turns RoundEndEvents into statistics
type roundCollector struct {
	stats *statistics.Statistics
	seed  int64
}

func (c *roundCollector) OnEvent(event game.GameEvent) {
	if e, ok := event.(game.RoundEndEvent); ok {
		c.stats.Add(statistics.RoundResult{
			Net:         e.Net,
			Bet:         e.Bet,
			Result:      e.Result,
			PlayerValue: e.PlayerValue,
			DealerValue: e.DealerValue,
			Seed:        c.seed,
		})
	}
}

func (s *Simulator) runWorker(ctx context.Context, id int, seed int64, rounds int) (workerResult, error) {
	logger := s.logger.With("worker", id)
	engine := game.NewEngine(
		game.WithRNG(randutil.New(seed)),
		game.WithStartingBalance(s.config.StartingBalance),
		game.WithLogger(logger),
	)

	collector := &roundCollector{stats: &statistics.Statistics{}, seed: seed}
	engine.Subscribe(collector)
	defer engine.Unsubscribe(collector)

	rebuys := 0
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return workerResult{}, err
		}

		if err := s.playRound(engine); err != nil {
			return workerResult{}, fmt.Errorf("round %d: %w", i+1, err)
		}

		if engine.State().PlayerBalance < s.config.Bet {
			engine.ResetGame()
			rebuys++
		} else {
			engine.NewRound()
		}
	}

	logger.Debug("Worker finished", "rounds", rounds, "rebuys", rebuys)
	return workerResult{stats: collector.stats, rebuys: rebuys}, nil
}

// playRound bets and plays the hand out with the strategy
func (s *Simulator) playRound(engine *game.Engine) error {
	engine.PlaceBet(s.config.Bet)

	for {
		state := engine.State()
		switch state.Phase {
		case game.GameOver:
			return nil
		case game.PlayerTurn:
			up, ok := dealerUpCard(state.DealerHand)
			if !ok {
				return fmt.Errorf("dealer has no face-up card")
			}
			if s.strategy.Decide(state.PlayerHand, up) == Hit {
				engine.Hit()
			} else {
				engine.Stand()
			}
		default:
			return fmt.Errorf("unexpected phase %s: %s", state.Phase, state.Message)
		}
	}
}

// Report is the JSON form of a Result
type Report struct {
	Strategy      string  `json:"strategy"`
	Rounds        int     `json:"rounds"`
	Workers       int     `json:"workers"`
	Bet           int     `json:"bet"`
	Seed          int64   `json:"seed"`
	Rebuys        int     `json:"rebuys"`
	DurationMS    int64   `json:"durationMs"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pushes        int     `json:"pushes"`
	Blackjacks    int     `json:"blackjacks"`
	PlayerBusts   int     `json:"playerBusts"`
	DealerBusts   int     `json:"dealerBusts"`
	NetChips      float64 `json:"netChips"`
	MeanPerRound  float64 `json:"meanPerRound"`
	StdDev        float64 `json:"stdDev"`
	CI95Low       float64 `json:"ci95Low"`
	CI95High      float64 `json:"ci95High"`
	ReturnOnWager float64 `json:"returnOnWager"`
}

// Report converts the result for JSON output
func (r *Result) Report() Report {
	st := r.Statistics
	lo, hi := st.ConfidenceInterval95()
	return Report{
		Strategy:      r.Strategy,
		Rounds:        r.Rounds,
		Workers:       r.Workers,
		Bet:           r.Bet,
		Seed:          r.Seed,
		Rebuys:        r.Rebuys,
		DurationMS:    r.Duration.Milliseconds(),
		Wins:          st.Wins,
		Losses:        st.Losses,
		Pushes:        st.Pushes,
		Blackjacks:    st.Blackjacks,
		PlayerBusts:   st.PlayerBusts,
		DealerBusts:   st.DealerBusts,
		NetChips:      st.SumNet,
		MeanPerRound:  st.Mean(),
		StdDev:        st.StdDev(),
		CI95Low:       lo,
		CI95High:      hi,
		ReturnOnWager: st.ReturnOnWager(),
	}
}

// WriteReport writes the JSON report atomically
func (r *Result) WriteReport(path string) error {
	return fileutil.WriteJSONAtomic(path, r.Report())
}

// Summary renders a human-readable summary
func (r *Result) Summary() string {
	st := r.Statistics
	lo, hi := st.ConfidenceInterval95()

	var b strings.Builder
	fmt.Fprintf(&b, "Strategy:   %s (bet %d, seed %d, %d workers)\n", r.Strategy, r.Bet, r.Seed, r.Workers)
	fmt.Fprintf(&b, "Rounds:     %d in %s\n", r.Rounds, r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "Wins:       %d (%.1f%%), %d blackjacks, %d dealer busts\n",
		st.Wins, 100*st.Rate(st.Wins), st.Blackjacks, st.DealerBusts)
	fmt.Fprintf(&b, "Losses:     %d (%.1f%%), %d player busts\n", st.Losses, 100*st.Rate(st.Losses), st.PlayerBusts)
	fmt.Fprintf(&b, "Pushes:     %d (%.1f%%)\n", st.Pushes, 100*st.Rate(st.Pushes))
	fmt.Fprintf(&b, "Net:        %+.0f chips, %+.3f per round (sd %.2f)\n", st.SumNet, st.Mean(), st.StdDev())
	fmt.Fprintf(&b, "95%% CI:     [%+.3f, %+.3f]\n", lo, hi)
	fmt.Fprintf(&b, "Return:     %+.2f%% of wagered\n", 100*st.ReturnOnWager())
	if r.Rebuys > 0 {
		fmt.Fprintf(&b, "Rebuys:     %d\n", r.Rebuys)
	}
	return b.String()
}
