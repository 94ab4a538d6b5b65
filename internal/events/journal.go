// Package events keeps the durable record of every fault a run reports.
// Entries are appended as JSON lines and never suppressed, so the full
// history survives even while email notifications are in cooldown.
package events

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// Default maximum journal size (50MB)
	DefaultMaxJournalSize = 50 * 1024 * 1024
	JournalFileExtension  = ".jsonl"
	ArchiveDir            = "archive"
)

// FaultEntry is one line of the fault journal.
type FaultEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	FaultID     string    `json:"fault_id"`
	RunID       string    `json:"run_id,omitempty"`
	Kind        string    `json:"kind"`
	Operation   string    `json:"operation,omitempty"`
	Conference  string    `json:"conference,omitempty"`
	Participant string    `json:"participant,omitempty"`
	Message     string    `json:"message"`
	Checksum    string    `json:"checksum,omitempty"`
}

// FaultJournal is an append-only JSONL file with size-based rotation into
// an archive directory next to it.
type FaultJournal struct {
	mu              sync.Mutex
	file            *os.File
	currentSize     int64
	maxSize         int64
	path            string
	checksums       bool
	rotationCounter int
}

func OpenFaultJournal(path string, maxSize int64) (*FaultJournal, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxJournalSize
	}
	j := &FaultJournal{path: path, maxSize: maxSize, checksums: true}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	if err := j.open(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *FaultJournal) open() error {
	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("stat journal: %w", err)
	}
	j.file = file
	j.currentSize = stat.Size()
	return nil
}

// Append writes entry, filling in the timestamp and fault ID when unset.
func (j *FaultJournal) Append(entry FaultEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return fmt.Errorf("journal %s is closed", j.path)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	if entry.FaultID == "" {
		entry.FaultID = uuid.NewString()
	}
	entry.Checksum = ""
	if j.checksums {
		entry.Checksum = checksum(entry)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}
	data = append(data, '\n')

	if j.currentSize+int64(len(data)) > j.maxSize {
		if err := j.rotate(); err != nil {
			return fmt.Errorf("rotate journal: %w", err)
		}
	}

	n, err := j.file.Write(data)
	if err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("sync journal: %w", err)
	}
	j.currentSize += int64(n)
	return nil
}

func (j *FaultJournal) rotate() error {
	if err := j.file.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}

	archiveDir := filepath.Join(filepath.Dir(j.path), ArchiveDir)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	j.rotationCounter++
	base := filepath.Base(j.path)
	stem := base[:len(base)-len(filepath.Ext(base))]
	archiveName := fmt.Sprintf("%s.%s.%d%s", stem, time.Now().Format("20060102_150405"), j.rotationCounter, JournalFileExtension)
	if err := os.Rename(j.path, filepath.Join(archiveDir, archiveName)); err != nil {
		return fmt.Errorf("archive journal: %w", err)
	}
	return j.open()
}

// SetChecksums toggles per-entry checksums (on by default).
func (j *FaultJournal) SetChecksums(enable bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.checksums = enable
}

func (j *FaultJournal) Path() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.path
}

func (j *FaultJournal) Size() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.currentSize
}

func (j *FaultJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}
	f := j.file
	j.file = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadJournal returns every well-formed entry in the journal at path, oldest
// first. Malformed lines are skipped.
func ReadJournal(path string) ([]FaultEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []FaultEntry
	dec := json.NewDecoder(file)
	for dec.More() {
		var e FaultEntry
		if err := dec.Decode(&e); err != nil {
			break
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// VerifyJournal counts the entries in path and how many of them pass their
// checksum. Entries written without a checksum count as valid.
func VerifyJournal(path string) (total, valid int, err error) {
	entries, err := ReadJournal(path)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		total++
		if e.Checksum == "" || checksum(e) == e.Checksum {
			valid++
		}
	}
	return total, valid, nil
}

func checksum(entry FaultEntry) string {
	entry.Checksum = ""
	data, err := json.Marshal(entry)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", djb2(data))
}

func djb2(data []byte) uint64 {
	var hash uint64 = 5381
	for _, b := range data {
		hash = ((hash << 5) + hash) + uint64(b)
	}
	return hash
}
