package shooter

import "errors"

//go:generate go tool stringer -type=Phase -trimprefix=Phase

// Phase is the game state controller's current state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseGameOver
)

var (
	ErrInvalidTransition  = errors.New("invalid phase transition")
	ErrRestartUnsupported = errors.New("restart is not available in the bare variant")
)

// Observer receives score and game-over notifications. The presentation layer
// implements it to keep its score display and end-game panel in sync.
type Observer interface {
	ScoreChanged(score int)
	GameOver(finalScore int)
}

type nopObserver struct{}

func (nopObserver) ScoreChanged(int) {}
func (nopObserver) GameOver(int)     {}
