package storage

import (
	"time"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

// ReplaceRoster swaps the whole cache for a fresh fetch in one
// transaction so readers never see a half-replaced roster.
func (r *sqliteRepository) ReplaceRoster(entries []RosterEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&RosterEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

func (r *sqliteRepository) GetRoster() ([]RosterEntry, error) {
	var entries []RosterEntry
	if err := r.db.Order("handle asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *sqliteRepository) RosterFetchedAt() (time.Time, error) {
	var entry RosterEntry
	err := r.db.Order("fetched_at desc").First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return entry.FetchedAt, nil
}

func (r *sqliteRepository) AddCustomization(c *Customization) error {
	return r.db.Create(c).Error
}

func (r *sqliteRepository) GetCustomizations(handle string) ([]Customization, error) {
	var rows []Customization
	if err := r.db.Where("handle = ?", handle).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sqliteRepository) GetAllCustomizations() ([]Customization, error) {
	var rows []Customization
	if err := r.db.Order("handle asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
