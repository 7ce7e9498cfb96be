/*
Package sag is a library for cataloguing collections of SAG animations.

A Library keeps a sqlite database of every animation found by Scan along
with a small thumbnail of its first frame.
*/
package sag

import "log"

// Library is a catalogue of SAG animations.
type Library struct {
	db     *DB
	logger *log.Logger
}

// New opens, or creates, the catalogue database in file.
func New(file string, logger *log.Logger) (*Library, error) {
	db, err := NewDB(file)
	if err != nil {
		return nil, err
	}
	return &Library{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the underlying database.
func (l *Library) Close() error {
	return l.db.Close()
}

// List returns every catalogued animation ordered by path.
func (l *Library) List() ([]Animation, error) {
	return l.db.List()
}

// Thumbnail returns the PNG thumbnail for the animation at path, or nil if
// the animation is unknown or has no frames.
func (l *Library) Thumbnail(path string) ([]byte, error) {
	return l.db.FindThumbnailByPath(path)
}
