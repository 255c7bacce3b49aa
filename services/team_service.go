package services

import (
	"errors"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fitness-ranking-system/models"
	"fitness-ranking-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type TeamService struct {
	DB         *gorm.DB
	RankingSvc *RankingService
}

func NewTeamService(db *gorm.DB, rankingSvc *RankingService) *TeamService {
	return &TeamService{DB: db, RankingSvc: rankingSvc}
}

// CreateTeam creates a team with a URL-safe slug derived from its name.
func (s *TeamService) CreateTeam(c *fiber.Ctx) error {
	type Req struct {
		Name  string `json:"name" validate:"required"`
		Sport string `json:"sport,omitempty"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	teamSlug := slug.Make(req.Name)
	var count int64
	s.DB.Model(&models.Team{}).Where("slug = ?", teamSlug).Count(&count)
	if count > 0 {
		// Disambiguate rather than reject — team names collide across clubs
		teamSlug = teamSlug + "-" + uuid.NewString()[:8]
	}

	team := &models.Team{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(req.Name),
		Slug:  teamSlug,
		Sport: req.Sport,
	}
	if err := s.DB.Create(team).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(team)
}

// GetTeam returns one team with its roster.
func (s *TeamService) GetTeam(c *fiber.Ctx) error {
	id := c.Params("id")
	var team models.Team
	err := s.DB.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&team, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "team not found"})
		}
		log.Printf("ERROR fetching team %s: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(team)
}

// GetTeamMembers returns the roster mirror in fetch order.
func (s *TeamService) GetTeamMembers(c *fiber.Ctx) error {
	teamID := c.Params("id")
	var members []models.TeamMember
	if err := s.DB.Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch members"})
	}
	return c.JSON(members)
}

// CreateActivityLog records a workout (multipart: fields + optional photo)
// and triggers an automatic ranking recompute for the team.
func (s *TeamService) CreateActivityLog(c *fiber.Ctx) error {
	teamID := c.Params("id")
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "missing user context"})
	}

	// The member must exist on this team's roster mirror
	var member models.TeamMember
	if err := s.DB.Where("team_id = ? AND external_user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "member not on this team"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching member"})
	}

	activityType := c.FormValue("type")
	durationStr := c.FormValue("duration_minutes")
	intensityStr := c.FormValue("intensity")
	aiStr := c.FormValue("is_generated_by_ai")
	occurredAtStr := c.FormValue("occurred_at") // RFC3339
	rawDate := c.FormValue("date")              // legacy clients: "2006-01-02"
	notes := c.FormValue("notes")

	duration := 0
	if durationStr != "" {
		if n, err := strconv.Atoi(durationStr); err == nil && n >= 0 {
			duration = n
		} else {
			return c.Status(400).JSON(fiber.Map{"error": "duration_minutes must be a non-negative integer"})
		}
	}

	var intensity *int
	if intensityStr != "" {
		n, err := strconv.Atoi(intensityStr)
		if err != nil || n < 1 || n > 10 {
			return c.Status(400).JSON(fiber.Map{"error": "intensity must be an integer 1-10"})
		}
		intensity = &n
	}

	var occurredAt *time.Time
	if occurredAtStr != "" {
		t, err := time.Parse(time.RFC3339, occurredAtStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid occurred_at (use RFC3339)"})
		}
		occurredAt = &t
	}

	// Optional workout photo → R2 (local uploads dir when R2 is not configured)
	var photoURL string
	if photo, err := c.FormFile("photo"); err == nil && photo.Size > 0 {
		ext := filepath.Ext(photo.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := "workouts/photos/" + uuid.NewString() + ext
		url, err := utils.UploadWorkoutPhoto(photo, key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload workout photo"})
		}
		photoURL = url
	}

	logEntry := &models.ActivityLog{
		ID:              uuid.NewString(),
		TeamID:          teamID,
		MemberID:        member.ID,
		Type:            activityType,
		DurationMinutes: duration,
		Intensity:       intensity,
		IsGeneratedByAI: strings.ToLower(aiStr) == "true",
		OccurredAt:      occurredAt,
		RawDate:         rawDate,
		PhotoURL:        photoURL,
		Notes:           notes,
	}
	if err := s.DB.Create(logEntry).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create activity log", "details": err.Error()})
	}

	// A new log makes the persisted ranking stale — recompute now. The run
	// reads its own snapshot, so a failure here never loses the log itself.
	if _, err := s.RankingSvc.RecomputeTeamRanking(teamID, models.CriterionCompositeScore, models.RankingModeAutomatic); err != nil {
		log.Printf("[RANKING] ⚠️ Auto-recompute after log %s failed: %v", logEntry.ID, err)
	}

	return c.Status(201).JSON(logEntry)
}

// GetTeamLogs lists a team's logs, optionally filtered to one member.
func (s *TeamService) GetTeamLogs(c *fiber.Ctx) error {
	teamID := c.Params("id")
	query := s.DB.Where("team_id = ?", teamID)
	if memberID := c.Query("member_id"); memberID != "" {
		query = query.Where("member_id = ?", memberID)
	}

	var logs []models.ActivityLog
	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		log.Printf("ERROR fetching logs for team %s: %v", teamID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch activity logs"})
	}
	return c.JSON(logs)
}

// DeleteTeam removes a team and everything scoped to it.
func (s *TeamService) DeleteTeam(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Delete in dependency order: entries → ranking → logs → members → team
		if err := tx.Where("team_id = ?", id).Unscoped().Delete(&models.RankingEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Unscoped().Delete(&models.Ranking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&models.ActivityLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Team{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}
	if err != nil {
		log.Printf("ERROR deleting team %s: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete team"})
	}
	return c.JSON(fiber.Map{"message": "team deleted", "team_id": id})
}
