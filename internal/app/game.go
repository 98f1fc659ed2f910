package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"quick-sums/internal/arith"
	"quick-sums/internal/config"
	"quick-sums/internal/console"
	"quick-sums/internal/domain"
	"quick-sums/internal/ranking"

	"github.com/google/uuid"
)

// Recorder receives every finished round (hall of fame, etc).
type Recorder interface {
	RecordRound(ctx context.Context, round domain.RoundResult) error
}

// Settings are the quiz tunables in their parsed form.
type Settings struct {
	Players           int
	QuestionsPerLevel int
	InitialTimeLimit  time.Duration
	TimeLimitStep     time.Duration
	MinTimeLimit      time.Duration
	PointsPerAnswer   int
}

// SettingsFromConfig converts the YAML game section, falling back to the defaults for unset durations.
func SettingsFromConfig(cfg config.GameConfig) Settings {
	return Settings{
		Players:           cfg.Players,
		QuestionsPerLevel: cfg.QuestionsPerLevel,
		InitialTimeLimit:  config.Duration(cfg.InitialTimeLimit, 10*time.Second),
		TimeLimitStep:     config.Duration(cfg.TimeLimitStep, 2*time.Second),
		MinTimeLimit:      config.Duration(cfg.MinTimeLimit, 2*time.Second),
		PointsPerAnswer:   cfg.PointsPerAnswer,
	}
}

// Game runs one round of the quick sums quiz on a console.
type Game struct {
	console  *console.Console
	problems *arith.Generator
	settings Settings
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewGame wires a game. recorder may be nil when no hall of fame is configured.
func NewGame(con *console.Console, problems *arith.Generator, settings Settings, recorder Recorder, logger *slog.Logger) *Game {
	return NewGameWithClock(con, problems, settings, recorder, logger, time.Now)
}

// NewGameWithClock allows deterministic answer timing in tests.
func NewGameWithClock(con *console.Console, problems *arith.Generator, settings Settings, recorder Recorder, logger *slog.Logger, now func() time.Time) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		console:  con,
		problems: problems,
		settings: settings,
		recorder: recorder,
		logger:   logger,
		now:      now,
	}
}

// PlayRound lets every player take a turn, then prints the ranking and the winner.
func (g *Game) PlayRound(ctx context.Context) (domain.RoundResult, error) {
	g.console.Printf("QUICK SUMS - %d PLAYERS\n", g.settings.Players)
	g.console.Println("Each player plays their own turn. Good luck!")
	g.console.Println("")

	standings := ranking.New()
	for seat := 1; seat <= g.settings.Players; seat++ {
		if err := ctx.Err(); err != nil {
			return domain.RoundResult{}, err
		}
		turn, err := g.PlayTurn(ctx, seat)
		if err != nil {
			return domain.RoundResult{}, err
		}
		standings.InsertSorted(turn.Player)
	}
	standings.KeepTop5()

	g.console.Print("\n" + standings.DisplayTop5())
	winner, ok := standings.Winner()
	if ok {
		g.console.Printf("\nTHE WINNER IS: %s with %d points!\n", winner.Name, winner.Score)
	}
	g.console.Println("\nThanks everyone for playing.")

	round := domain.RoundResult{
		ID:        uuid.New(),
		PlayedAt:  g.now().UTC(),
		Standings: standings.Entries(),
		Winner:    winner,
	}
	g.logger.Info("round finished",
		slog.String("round_id", round.ID.String()),
		slog.String("winner", winner.Name),
		slog.Int("winner_score", winner.Score))

	if g.recorder != nil {
		if err := g.recorder.RecordRound(ctx, round); err != nil {
			g.logger.Warn("failed to record round", slog.String("round_id", round.ID.String()), slog.Any("error", err))
		}
	}
	return round, nil
}

// PlayTurn asks the player at seat for a name and runs levels until they fail.
func (g *Game) PlayTurn(ctx context.Context, seat int) (domain.TurnResult, error) {
	g.console.Printf("=== PLAYER %d ===\n", seat)
	name, err := g.console.Prompt("Enter your name: ")
	if err != nil && !console.IsEOF(err) {
		return domain.TurnResult{}, err
	}
	if name == "" {
		name = fmt.Sprintf("Player%d", seat)
		g.console.Printf("Invalid name. Using: %s\n", name)
	}

	turn := domain.TurnResult{Seat: seat, Level: 1}
	limit := g.settings.InitialTimeLimit
	for {
		if err := ctx.Err(); err != nil {
			return domain.TurnResult{}, err
		}
		g.console.Printf("\n--- Level %d ---\n", turn.Level)
		g.console.Printf("You have %s seconds per sum.\n", strconv.FormatFloat(limit.Seconds(), 'f', -1, 64))

		outcome, correct, err := g.playLevel(limit)
		turn.Correct += correct
		if err != nil {
			return domain.TurnResult{}, err
		}
		if outcome != "" {
			turn.Outcome = outcome
			break
		}

		g.console.Printf("\nYou completed level %d!\n", turn.Level)
		turn.Level++
		limit = max(g.settings.MinTimeLimit, limit-g.settings.TimeLimitStep)
	}

	turn.Player = domain.Player{Name: name, Score: turn.Correct * g.settings.PointsPerAnswer}
	g.console.Printf("\n%s's turn is over.\n", name)
	g.console.Printf("Score: %d points.\n\n", turn.Player.Score)

	g.logger.Info("turn finished",
		slog.Int("seat", seat),
		slog.String("player", name),
		slog.Int("score", turn.Player.Score),
		slog.Int("level", turn.Level),
		slog.String("outcome", string(turn.Outcome)))
	return turn, nil
}

// playLevel asks one level's problems. It returns an empty outcome when all were answered correctly.
func (g *Game) playLevel(limit time.Duration) (domain.Outcome, int, error) {
	correct := 0
	for i := 0; i < g.settings.QuestionsPerLevel; i++ {
		problem := g.problems.Next()
		g.console.Printf("\nSum: %s = ?\n", problem)

		start := g.now()
		input, err := g.console.ReadLine()
		elapsed := g.now().Sub(start)
		if err != nil && !console.IsEOF(err) {
			return "", correct, err
		}

		if elapsed > limit {
			g.console.Printf("Time's up! (%.2f seconds)\n", elapsed.Seconds())
			return domain.OutcomeTimeout, correct, nil
		}
		if input == "" {
			g.console.Println("Empty input. Turn over.")
			return domain.OutcomeEmpty, correct, nil
		}
		answer, err := strconv.Atoi(input)
		if err != nil {
			g.console.Println("Invalid input. You must enter a whole number.")
			return domain.OutcomeInvalid, correct, nil
		}
		if answer != problem.Answer() {
			g.console.Printf("Wrong. The correct answer was: %d\n", problem.Answer())
			return domain.OutcomeWrong, correct, nil
		}

		g.console.Println("Correct!")
		correct++
		g.logger.Debug("answer accepted", slog.String("problem", problem.String()), slog.Duration("elapsed", elapsed))
	}
	return "", correct, nil
}
