package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/exam-client/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore keeps the credential as one row of the credentials table.
type SQLStore struct {
	db  *gorm.DB
	key string
}

// NewSQLStore migrates the credentials table and returns a store bound to key.
func NewSQLStore(db *gorm.DB, key string) (*SQLStore, error) {
	if err := db.AutoMigrate(&models.StoredCredential{}); err != nil {
		return nil, fmt.Errorf("migrate credentials: %w", err)
	}
	return &SQLStore{db: db, key: key}, nil
}

func (s *SQLStore) Get(ctx context.Context) (Credential, bool, error) {
	var row models.StoredCredential
	err := s.db.WithContext(ctx).Where("key = ?", s.key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load credential: %w", err)
	}
	if row.Token == "" {
		return "", false, nil
	}
	return Credential(row.Token), true, nil
}

func (s *SQLStore) Set(ctx context.Context, cred Credential) error {
	row := models.StoredCredential{Key: s.key, Token: string(cred)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).Where("key = ?", s.key).Delete(&models.StoredCredential{}).Error
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
