package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/pkg/utils"
)

func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return utils.GenerateUUIDv7()
	}
	return id
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	return err
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
