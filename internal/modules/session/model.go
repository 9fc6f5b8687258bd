// README: Session aggregate and its data-loading states.
package session

import (
	"errors"
	"time"

	"farecast/internal/types"
)

type State string

const (
	StateNoDataLoaded State = "no_data_loaded"
	StateDataLoaded   State = "data_loaded"
)

// AllowedTransitions is the session state flow as code. Loading is one-way.
var AllowedTransitions = map[State][]State{
	StateNoDataLoaded: {StateDataLoaded},
}

func CanTransition(from, to State) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var (
	ErrNotFound      = errors.New("session not found")
	ErrAlreadyLoaded = errors.New("dataset already loaded")
	ErrNoData        = errors.New("no dataset loaded")
)

// Info is a point-in-time view of a session.
type Info struct {
	ID        types.ID  `json:"id"`
	State     State     `json:"state"`
	Provider  string    `json:"provider,omitempty"`
	Source    string    `json:"source,omitempty"`
	Records   int       `json:"records"`
	RawRows   int       `json:"raw_rows"`
	Products  []string  `json:"products,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	LoadedAt  time.Time `json:"loaded_at,omitzero"`
}
