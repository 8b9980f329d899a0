package scanserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	scanBucketName       = "scans"
	submissionBucketName = "submissions"
)

// ErrNotFound is returned when a key has no record
var ErrNotFound = errors.New("not found")

// DB defines the interface for database operations
type DB interface {
	// SaveScan caches an extraction under its content hash
	SaveScan(scan *Scan) error

	// GetScan returns the cached extraction for a content hash
	GetScan(hash string) (*Scan, error)

	// SaveSubmission journals a forwarded document
	SaveSubmission(submission *Submission) error

	// ListSubmissions returns the journal, oldest first
	ListSubmissions() ([]*Submission, error)

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{scanBucketName, submissionBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func (b *BoltDB) SaveScan(scan *Scan) error {
	return b.put(scanBucketName, scan.Hash, scan)
}

func (b *BoltDB) GetScan(hash string) (*Scan, error) {
	var scan *Scan
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(scanBucketName)).Get([]byte(hash))
		if data == nil {
			return fmt.Errorf("scan %s: %w", hash, ErrNotFound)
		}
		return json.Unmarshal(data, &scan)
	})
	if err != nil {
		return nil, err
	}
	return scan, nil
}

// SaveSubmission stores a submission under its ID. IDs are time ordered so
// the bucket keeps the journal in submission order.
func (b *BoltDB) SaveSubmission(submission *Submission) error {
	return b.put(submissionBucketName, submission.ID, submission)
}

func (b *BoltDB) ListSubmissions() ([]*Submission, error) {
	submissions := make([]*Submission, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(submissionBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var submission Submission
			if err := json.Unmarshal(v, &submission); err != nil {
				return fmt.Errorf("unmarshaling submission: %w", err)
			}
			submissions = append(submissions, &submission)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (b *BoltDB) put(bucketName, key string, value any) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshaling %s record: %w", bucketName, err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), data)
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
