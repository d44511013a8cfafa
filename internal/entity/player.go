package entity

import "github.com/google/uuid"

const (
	KindHuman    = "human"
	KindComputer = "computer"
)

// Player is the identity of a seat: who plays, with which mark and how moves are chosen.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Mark       Mark   `json:"mark"`
	Kind       string `json:"kind"`
	Difficulty string `json:"difficulty,omitempty"`
}

func NewHumanPlayer(name string, mark Mark) *Player {
	return &Player{
		ID:   uuid.NewString(),
		Name: name,
		Mark: mark,
		Kind: KindHuman,
	}
}

func NewComputerPlayer(name string, mark Mark, difficulty string) *Player {
	return &Player{
		ID:         uuid.NewString(),
		Name:       name,
		Mark:       mark,
		Kind:       KindComputer,
		Difficulty: difficulty,
	}
}

func (that *Player) IsComputer() bool {
	return that.Kind == KindComputer
}
