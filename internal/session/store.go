package session

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mpellerin/reel/internal/dbutil"
	"github.com/mpellerin/reel/internal/queue"
)

const (
	appName    = "reel"
	dbFileName = "reel.db"
)

// Store is a sqlite-backed session store.
type Store struct {
	db  *sql.DB
	log *log.Logger
}

// Open opens the session database under the XDG data directory,
// creating it if needed.
func Open(logger *log.Logger) (*Store, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath, logger)
}

// OpenPath opens the session database at the given path.
func OpenPath(dbPath string, logger *log.Logger) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, log: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the saved snapshot, or nil when no session was saved.
// A malformed snapshot is treated as no prior session, never as fatal.
func (s *Store) Load() (*Snapshot, error) {
	snap, err := s.load()
	if err != nil {
		s.log.Warn("discarding unreadable session snapshot", "err", err)
		return nil, nil
	}
	return snap, nil
}

func (s *Store) load() (*Snapshot, error) {
	var (
		currentIndex int
		positionMS   int64
		volume       float64
		shuffle      bool
		repeat       bool
	)
	row := s.db.QueryRow(`
		SELECT current_index, position_ms, volume, shuffle, repeat_mode
		FROM session_state WHERE id = 1
	`)
	err := row.Scan(&currentIndex, &positionMS, &volume, &shuffle, &repeat)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT track_id, title, artist, album, src, cover, type
		FROM session_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []queue.Track
	for rows.Next() {
		var t queue.Track
		var artist, album, cover, typ sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &artist, &album, &t.Src, &cover, &typ); err != nil {
			return nil, err
		}
		t.Artist = dbutil.NullStringValue(artist)
		t.Album = dbutil.NullStringValue(album)
		t.Cover = dbutil.NullStringValue(cover)
		t.Type = dbutil.NullStringValue(typ)
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A state row without tracks is not a usable session.
	if len(tracks) == 0 {
		return nil, nil
	}

	return &Snapshot{
		Tracks:       tracks,
		CurrentIndex: currentIndex,
		Position:     time.Duration(positionMS) * time.Millisecond,
		Volume:       volume,
		Shuffle:      shuffle,
		Repeat:       repeat,
	}, nil
}

// Save overwrites the stored snapshot.
func (s *Store) Save(snap Snapshot) error {
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM session_tracks`); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO session_state (id, current_index, position_ms, volume, shuffle, repeat_mode)
			VALUES (1, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				position_ms = excluded.position_ms,
				volume = excluded.volume,
				shuffle = excluded.shuffle,
				repeat_mode = excluded.repeat_mode
		`, snap.CurrentIndex, snap.Position.Milliseconds(), snap.Volume, snap.Shuffle, snap.Repeat)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO session_tracks (position, track_id, title, artist, album, src, cover, type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range snap.Tracks {
			if _, err := stmt.Exec(i, t.ID, t.Title, t.Artist, t.Album, t.Src, t.Cover, t.Type); err != nil {
				return err
			}
		}
		return nil
	})
}
