package queue

import "math/rand/v2"

// ShuffleTracks returns a uniformly random permutation of tracks with the
// pinned track forced to index 0. The remaining tracks are a bijection of the
// input: nothing is duplicated or dropped. If pinnedID is not present the
// whole list is shuffled.
// The random source is injected so outcomes are reproducible under test.
func ShuffleTracks(tracks []Track, pinnedID string, rng *rand.Rand) []Track {
	rest := make([]Track, 0, len(tracks))
	var pinned *Track
	for i := range tracks {
		if pinned == nil && tracks[i].ID == pinnedID {
			pinned = &tracks[i]
			continue
		}
		rest = append(rest, tracks[i])
	}

	rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	if pinned == nil {
		return rest
	}
	result := make([]Track, 0, len(tracks))
	result = append(result, *pinned)
	return append(result, rest...)
}

// RestoreOrder returns the original order unchanged along with the index of
// currentID within it. When the track is no longer present (removed since
// shuffling) the index falls back to 0; callers must honor that fallback
// rather than treat it as an error.
func RestoreOrder(original []Track, currentID string) ([]Track, int) {
	restored := make([]Track, len(original))
	copy(restored, original)
	for i, t := range restored {
		if t.ID == currentID {
			return restored, i
		}
	}
	return restored, 0
}

// ToggleShuffle flips shuffle mode.
//
// Enabling captures the current order (if not already captured), pins the
// current track at index 0 and shuffles the rest. Disabling restores the
// captured order, reselects the current track within it, and discards the
// captured order. No-op on an empty queue.
func (q *Queue) ToggleShuffle(rng *rand.Rand) {
	if q.IsEmpty() {
		return
	}

	if !q.shuffle {
		if q.original == nil {
			q.original = make([]Track, len(q.tracks))
			copy(q.original, q.tracks)
		}
		current := *q.Current()
		q.tracks = ShuffleTracks(q.tracks, current.ID, rng)
		q.current = 0
		q.shuffle = true
		return
	}

	var currentID string
	if t := q.Current(); t != nil {
		currentID = t.ID
	}
	q.tracks, q.current = RestoreOrder(q.original, currentID)
	q.original = nil
	q.shuffle = false
}

// Repin re-applies the shuffle pinning for the given index, keeping shuffle
// active. Used when a track is selected on a freshly replaced queue while
// shuffle mode is on: the selected track moves to index 0 and the rest is
// reshuffled.
func (q *Queue) Repin(index int, rng *rand.Rand) {
	if q.IsEmpty() {
		return
	}
	index = clamp(index, 0, len(q.tracks)-1)
	if q.original == nil {
		q.original = make([]Track, len(q.tracks))
		copy(q.original, q.tracks)
	}
	q.tracks = ShuffleTracks(q.tracks, q.tracks[index].ID, rng)
	q.current = 0
	q.shuffle = true
}
