package queue

// Track represents a single playable item.
// Identity is carried by ID, not by slice position or pointer equality.
type Track struct {
	ID     string // stable identity within a catalog
	Title  string
	Artist string
	Album  string
	Src    string // locator resolvable by the media source
	Cover  string
	Type   string // format hint, e.g. "audio/mpeg"
}

// SameSource reports whether two tracks refer to the same playable source.
// Used to decide whether a reload is needed after a queue reordering.
func (t Track) SameSource(other Track) bool {
	return t.ID == other.ID && t.Src == other.Src
}
