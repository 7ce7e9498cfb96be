package sag

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/sag/image"
	_ "github.com/mattn/go-sqlite3"
)

// Animation is a catalogued SAG file.
type Animation struct {
	ID         int64
	Path       string
	SHA1       string
	Version    uint8
	Width      int
	Height     int
	FrameCount int
	FrameDelay int
}

// DB is the sqlite backed catalogue.
type DB struct {
	db *sql.DB
}

// NewDB opens the database in file, creating the schema if required.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS thumbnail (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, png BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS animation (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, version INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, frames INTEGER NOT NULL, delay INTEGER NOT NULL, thumbnail_id INTEGER, FOREIGN KEY(thumbnail_id) REFERENCES thumbnail(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) addThumbnail(sha string, png []byte) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM thumbnail WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO thumbnail (sha1, png) VALUES (?, ?)", sha, png)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// AddAnimation records the animation at path, replacing any previous entry
// for the same path. The thumbnail is shared between identical files and may
// be nil.
func (db *DB) AddAnimation(path, sha string, h *image.Header, png []byte) error {
	var thumbnail sql.NullInt64
	if png != nil {
		id, err := db.addThumbnail(sha, png)
		if err != nil {
			return err
		}
		thumbnail.Int64, thumbnail.Valid = id, true
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO animation (path, sha1, version, width, height, frames, delay, thumbnail_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", path, sha, h.Version, h.Width, h.Height, h.FrameCount, h.FrameDelay, thumbnail); err != nil {
		return err
	}
	return nil
}

// List returns every animation ordered by path.
func (db *DB) List() ([]Animation, error) {
	rows, err := db.db.Query("SELECT id, path, sha1, version, width, height, frames, delay FROM animation ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var animations []Animation
	for rows.Next() {
		var a Animation
		if err := rows.Scan(&a.ID, &a.Path, &a.SHA1, &a.Version, &a.Width, &a.Height, &a.FrameCount, &a.FrameDelay); err != nil {
			return nil, err
		}
		animations = append(animations, a)
	}

	return animations, rows.Err()
}

// FindThumbnailByPath returns the thumbnail for the animation at path, or nil
// if there isn't one.
func (db *DB) FindThumbnailByPath(path string) ([]byte, error) {
	var png []byte
	switch err := db.db.QueryRow("SELECT t.png FROM animation AS a LEFT JOIN thumbnail AS t ON a.thumbnail_id = t.id WHERE a.path = ?", path).Scan(&png); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return png, nil
	default:
		return nil, err
	}
}
