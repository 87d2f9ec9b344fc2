// file: internal/config/savegame.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"reversi_go/internal/game"
)

var (
	ErrNoSavedGame = errors.New("no saved game")
	ErrCorruptSave = errors.New("saved game is inconsistent")
)

// SavedGame holds one game: the moves in playing order plus who plays what.
// Only one game is kept per file.
type SavedGame struct {
	NumberOfMoves int         `toml:"number_of_moves"`
	State         string      `toml:"state"`
	Interrupted   bool        `toml:"interrupted"`
	Strength      int         `toml:"strength"`
	HumanColor    game.Color  `toml:"human_color"`
	Moves         []game.Move `toml:"moves"`
}

// Capture copies the session into a SavedGame.
func Capture(s *game.Session) SavedGame {
	g := s.Snapshot()
	moves := g.Moves()
	return SavedGame{
		NumberOfMoves: len(moves),
		State:         s.State().String(),
		Interrupted:   s.Interrupted(),
		Strength:      s.Strength(),
		HumanColor:    s.HumanColor(),
		Moves:         moves,
	}
}

// Game replays the stored moves.
func (sg SavedGame) Game() (*game.Game, error) {
	if sg.NumberOfMoves != len(sg.Moves) {
		return nil, fmt.Errorf("%w: %d moves listed, %d recorded", ErrCorruptSave, len(sg.Moves), sg.NumberOfMoves)
	}
	g, err := game.Replay(sg.Moves)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSave, err)
	}
	return g, nil
}

// Restore loads the saved game into s. A game saved while the computer was
// thinking, or after it was interrupted, comes back interrupted; callers
// resume it with s.Continue.
func (sg SavedGame) Restore(s *game.Session) error {
	g, err := sg.Game()
	if err != nil {
		return err
	}
	s.Load(g, sg.HumanColor)
	s.SetStrength(sg.Strength)
	if sg.Interrupted || sg.State == game.Thinking.String() {
		s.MarkInterrupted()
	}
	return nil
}

// SaveGame writes the session to path, replacing any earlier save.
func SaveGame(path string, s *game.Session) error {
	return WriteSavedGame(path, Capture(s))
}

func WriteSavedGame(path string, sg SavedGame) error {
	data, err := toml.Marshal(sg)
	if err != nil {
		return fmt.Errorf("encode saved game: %w", err)
	}
	return writeFile(path, data)
}

// LoadGame reads path. A missing file or an empty game is ErrNoSavedGame.
func LoadGame(path string) (SavedGame, error) {
	var sg SavedGame
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return sg, ErrNoSavedGame
	}
	if err != nil {
		return sg, fmt.Errorf("read saved game: %w", err)
	}
	if err := toml.Unmarshal(data, &sg); err != nil {
		return sg, fmt.Errorf("parse saved game %s: %w", path, err)
	}
	if sg.NumberOfMoves == 0 {
		return sg, ErrNoSavedGame
	}
	return sg, nil
}
