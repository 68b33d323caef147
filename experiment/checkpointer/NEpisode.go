package checkpointer

import (
	"fmt"

	ts "github.com/gridq/gridq/timestep"
)

// nEpisode implements checkpointing every N finished episodes
type nEpisode struct {
	interval int
	episodes int
	object   Saver

	// filename returns the name of the file to save the object in.
	// To save each checkpoint in a separate enumerated file (e.g.
	// frame0001.png, frame0002.png, ...) use FilenameEnumerator.
	filename func() string
}

// NewNEpisode returns a checkpointer that saves object every n finished
// episodes
func NewNEpisode(n int, object Saver,
	filename func() string) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newNEpisode: interval %d < 1", n)
	}
	return &nEpisode{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the Checkpointer's object by calling its Save()
// method if t finishes the n-th episode since the last checkpoint
func (n *nEpisode) Checkpoint(t ts.TimeStep) error {
	if !t.Last() {
		return nil
	}

	n.episodes++
	if n.episodes%n.interval == 0 {
		return n.object.Save(n.filename())
	}
	return nil
}
