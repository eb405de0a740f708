package logging

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"gorm.io/gorm"
)

// PurgeBefore deletes persisted system logs older than cutoff and returns how
// many rows went.
func PurgeBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
