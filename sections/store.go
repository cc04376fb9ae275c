package sections

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/ArvinYang1925/kaiso-meow-backend/models"
)

// Key prefixes inside the catalog database.
const (
	sectionPrefix  = "section:"
	coursePrefix   = "course:"
	orderPrefix    = "order:"    // order:<courseID>:<orderID>
	progressPrefix = "progress:" // progress:<sectionID>:<studentID>
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the pebble-backed catalog holding sections, courses, paid
// orders and viewing progress. The video pipeline writes transcode
// results through it; the endpoints read ownership and publish state
// from it.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the catalog database at the given path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutSection stores a section, stamping UpdatedAt.
func (s *Store) PutSection(sec *models.Section) error {
	if sec.ID == "" {
		return errors.New("section id must not be empty")
	}
	now := time.Now()
	if sec.CreatedAt.IsZero() {
		sec.CreatedAt = now
	}
	sec.UpdatedAt = now
	return s.putJSON(sectionPrefix+sec.ID, sec)
}

// GetSection returns the section with the given id, or ErrNotFound.
func (s *Store) GetSection(id string) (*models.Section, error) {
	var sec models.Section
	if err := s.getJSON(sectionPrefix+id, &sec); err != nil {
		return nil, err
	}
	return &sec, nil
}

// SetVideoResult writes the transcode outcome for a section. This is the
// only write path for the video field; the job that owns a section's
// transcode calls it exactly once per job.
func (s *Store) SetVideoResult(id string, result *models.VideoResult) error {
	sec, err := s.GetSection(id)
	if err != nil {
		return err
	}
	sec.Video = result
	return s.PutSection(sec)
}

// ClearVideo removes a section's transcode outcome.
func (s *Store) ClearVideo(id string) error {
	return s.SetVideoResult(id, nil)
}

// PutCourse stores a course.
func (s *Store) PutCourse(c *models.Course) error {
	if c.ID == "" {
		return errors.New("course id must not be empty")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return s.putJSON(coursePrefix+c.ID, c)
}

// GetCourse returns the course with the given id, or ErrNotFound.
func (s *Store) GetCourse(id string) (*models.Course, error) {
	var c models.Course
	if err := s.getJSON(coursePrefix+id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// RecordPaidOrder marks a paid order against a course. Once a published
// section's course has one, its video becomes immutable.
func (s *Store) RecordPaidOrder(courseID, orderID string) error {
	return s.putJSON(orderPrefix+courseID+":"+orderID, time.Now())
}

// CountPaidOrders returns the number of paid orders recorded for a course.
func (s *Store) CountPaidOrders(courseID string) (int, error) {
	return s.countPrefix(orderPrefix + courseID + ":")
}

// RecordProgress marks that a student has watched part of a section.
func (s *Store) RecordProgress(sectionID, studentID string) error {
	return s.putJSON(progressPrefix+sectionID+":"+studentID, time.Now())
}

// HasProgress reports whether any viewing progress exists for a section.
func (s *Store) HasProgress(sectionID string) (bool, error) {
	n, err := s.countPrefix(progressPrefix + sectionID + ":")
	return n > 0, err
}

func (s *Store) putJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.db.Set([]byte(key), data, pebble.Sync)
}

func (s *Store) getJSON(key string, out interface{}) error {
	data, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	defer closer.Close()
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func (s *Store) countPrefix(prefix string) (int, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: []byte(prefix + "\xff"),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	count := 0
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}
	return count, iter.Error()
}
