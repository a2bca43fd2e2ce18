package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// sessionRecord is one persisted session per API
type sessionRecord struct {
	APIURL    string `gorm:"primaryKey"`
	Token     string `gorm:"not null"`
	User      string `gorm:"type:text"` // JSON encoded models.User
	UpdatedAt time.Time
}

func (sessionRecord) TableName() string {
	return "sessions"
}

// SQLitePersister stores the session as a row in a local SQLite database.
// Save is a single upsert statement.
type SQLitePersister struct {
	db  *gorm.DB
	key string
}

var migrate = func(db *gorm.DB) error {
	return db.AutoMigrate(&sessionRecord{})
}

// NewSQLitePersister opens (and migrates) the database at path
func NewSQLitePersister(path, apiURL string) (*SQLitePersister, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}

	return &SQLitePersister{db: db, key: apiURL}, nil
}

func (p *SQLitePersister) Load() (Session, error) {
	var rec sessionRecord
	err := p.db.Where("api_url = ?", p.key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	s := Session{Token: rec.Token}
	if rec.User != "" {
		if err := json.Unmarshal([]byte(rec.User), &s.User); err != nil {
			return Session{}, fmt.Errorf("failed to parse stored user: %w", err)
		}
	}
	return s, nil
}

func (p *SQLitePersister) Save(s Session) error {
	rec := sessionRecord{APIURL: p.key, Token: s.Token}
	if s.User != nil {
		data, err := json.Marshal(s.User)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		rec.User = string(data)
	}

	err := p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "api_url"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (p *SQLitePersister) Clear() error {
	if err := p.db.Where("api_url = ?", p.key).Delete(&sessionRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close releases the database handle
func (p *SQLitePersister) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
