package services

import (
	"errors"
	"fmt"

	"fitness-ranking-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// SeedBadgeTypes upserts the predefined triggers so awarded badges can
// reference a stable BadgeType row (idempotent, run at startup)
func (s *BadgeService) SeedBadgeTypes() error {
	for _, trigger := range models.BadgeTriggers {
		var existing models.BadgeType
		err := s.DB.Where("code = ?", trigger.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			trigger.ID = uuid.NewString()
			if err := s.DB.Create(&trigger).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// AutoAwardBadges checks all badge triggers against one member's ranking
// snapshot after a ranking run
func (s *BadgeService) AutoAwardBadges(entry *models.RankingEntry) error {
	var awarded []string
	for _, trigger := range models.BadgeTriggers {
		if s.meetsThreshold(entry, trigger.Threshold) {
			var badgeType models.BadgeType
			if err := s.DB.Where("code = ?", trigger.Code).First(&badgeType).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // not seeded — skip rather than fail the ranking run
				}
				return err
			}
			// Check if already awarded
			var count int64
			s.DB.Model(&models.MemberBadge{}).
				Where("member_id = ? AND badge_type_id = ?", entry.MemberID, badgeType.ID).
				Count(&count)
			if count == 0 {
				memberBadge := models.MemberBadge{
					ID:          uuid.NewString(),
					MemberID:    entry.MemberID,
					BadgeTypeID: badgeType.ID,
					Metadata:    fmt.Sprintf(`{"team_id":%q,"rank":%d,"streak_days":%d}`, entry.TeamID, entry.Rank, entry.StreakDays),
				}
				if err := s.DB.Create(&memberBadge).Error; err != nil {
					return err
				}
				awarded = append(awarded, trigger.Name)
				fmt.Printf("🎖️ Badge awarded: %s → %s\n", trigger.Name, entry.MemberID)
			}
		}
	}

	if len(awarded) > 0 {
		// Optional: emit event for push notification
	}
	return nil
}

func (s *BadgeService) meetsThreshold(entry *models.RankingEntry, req map[string]int64) bool {
	for key, required := range req {
		switch key {
		case "workout_count":
			if int64(entry.WorkoutCount) < required {
				return false
			}
		case "streak_days":
			if int64(entry.StreakDays) < required {
				return false
			}
		case "total_minutes":
			if int64(entry.TotalMinutes) < required {
				return false
			}
		case "rank":
			// rank thresholds are "at or better than", and lower is better
			if entry.Rank == 0 || int64(entry.Rank) > required {
				return false
			}
		}
	}
	return true
}
