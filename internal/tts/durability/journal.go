// Package durability makes remote synthesis calls replayable. In live mode
// every remote-write operation is executed and its input and outcome are
// appended to a journal at monotonically increasing sequence positions. In
// replay mode recorded outcomes are served back without touching the
// network, and the journal is verified against the inputs actually seen.
package durability

import (
	"fmt"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is one journaled operation outcome. Either Output or ErrCode is
// set, never both.
type Record struct {
	Seq        uint64
	Operation  string
	Input      []byte
	Output     []byte
	ErrCode    string
	ErrMessage string
}

// Journal is an append-only log of records. Read past the end returns nil.
type Journal interface {
	Append(rec Record) error
	Read(seq uint64) (*Record, error)
	Len() (uint64, error)
}

// MemoryJournal keeps records in memory. Used in tests and as the default
// backend when no journal path is configured.
type MemoryJournal struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Append(rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if rec.Seq != uint64(len(j.records)) {
		return fmt.Errorf("journal append out of order: seq %d at position %d", rec.Seq, len(j.records))
	}
	j.records = append(j.records, rec)
	return nil
}

func (j *MemoryJournal) Read(seq uint64) (*Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if seq >= uint64(len(j.records)) {
		return nil, nil
	}
	rec := j.records[seq]
	return &rec, nil
}

func (j *MemoryJournal) Len() (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return uint64(len(j.records)), nil
}

// journalRow is the gorm model backing SqliteJournal. ExecutionID separates
// journals of distinct runs sharing one database file.
type journalRow struct {
	ID          uint   `gorm:"primaryKey"`
	ExecutionID string `gorm:"index:idx_exec_seq,unique"`
	Seq         uint64 `gorm:"index:idx_exec_seq,unique"`
	Operation   string
	Input       []byte
	Output      []byte
	ErrCode     string
	ErrMessage  string
}

func (journalRow) TableName() string { return "tts_journal" }

// SqliteJournal persists records to a sqlite database.
type SqliteJournal struct {
	db          *gorm.DB
	executionID string
}

func NewSqliteJournal(path, executionID string) (*SqliteJournal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}
	if err := db.AutoMigrate(&journalRow{}); err != nil {
		return nil, fmt.Errorf("migrate journal schema: %w", err)
	}
	return &SqliteJournal{db: db, executionID: executionID}, nil
}

func (j *SqliteJournal) Append(rec Record) error {
	row := journalRow{
		ExecutionID: j.executionID,
		Seq:         rec.Seq,
		Operation:   rec.Operation,
		Input:       rec.Input,
		Output:      rec.Output,
		ErrCode:     rec.ErrCode,
		ErrMessage:  rec.ErrMessage,
	}
	if err := j.db.Create(&row).Error; err != nil {
		return fmt.Errorf("append journal record: %w", err)
	}
	return nil
}

func (j *SqliteJournal) Read(seq uint64) (*Record, error) {
	var row journalRow
	err := j.db.Where("execution_id = ? AND seq = ?", j.executionID, seq).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal record %d: %w", seq, err)
	}
	return &Record{
		Seq:        row.Seq,
		Operation:  row.Operation,
		Input:      row.Input,
		Output:     row.Output,
		ErrCode:    row.ErrCode,
		ErrMessage: row.ErrMessage,
	}, nil
}

func (j *SqliteJournal) Len() (uint64, error) {
	var count int64
	err := j.db.Model(&journalRow{}).Where("execution_id = ?", j.executionID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count journal records: %w", err)
	}
	return uint64(count), nil
}
