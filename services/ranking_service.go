package services

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"fitness-ranking-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RankingService struct {
	DB       *gorm.DB
	Calc     *ScoreCalculator
	BadgeSvc *BadgeService
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{
		DB:       db,
		Calc:     NewScoreCalculator(),
		BadgeSvc: NewBadgeService(db),
	}
}

// GenerateRankings computes a total order over the given roster. Pure — no
// I/O, no persistence. Logs may cover the whole team; they are partitioned by
// member here. Every member appears exactly once; zero-log members land at
// the bottom with score 0. Ties keep roster order (stable sort, no tiebreak
// field exists).
func (s *RankingService) GenerateRankings(members []models.TeamMember, allLogs []models.ActivityLog) []MemberScore {
	logsByMember := make(map[string][]models.ActivityLog, len(members))
	for _, l := range allLogs {
		logsByMember[l.MemberID] = append(logsByMember[l.MemberID], l)
	}

	scores := make([]MemberScore, 0, len(members))
	for i := range members {
		scores = append(scores, s.Calc.ComputeMemberScore(&members[i], logsByMember[members[i].ID]))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TotalScore > scores[j].TotalScore
	})
	return scores
}

// RecomputeTeamRanking runs fetch → compute → persist for one team.
// The persisted ranking is replaced wholesale; there is no incremental
// update and concurrent runs are last-writer-wins.
func (s *RankingService) RecomputeTeamRanking(teamID, criterion, mode string) (*models.Ranking, error) {
	if criterion == "" {
		criterion = models.CriterionCompositeScore
	}
	if !models.ValidCriterion(criterion) {
		return nil, fmt.Errorf("invalid ranking criterion %q", criterion)
	}

	// Roster order is the tiebreak, so keep the fetch order deterministic.
	var members []models.TeamMember
	if err := s.DB.Where("team_id = ? AND role IN ?", teamID, []string{"player", "member"}).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch roster for team %s: %w", teamID, err)
	}

	var logs []models.ActivityLog
	if err := s.DB.Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch activity logs for team %s: %w", teamID, err)
	}

	scores := s.GenerateRankings(members, logs)

	ranking := &models.Ranking{
		ID:            uuid.NewString(),
		TeamID:        teamID,
		Mode:          mode,
		Criterion:     criterion,
		LastUpdatedAt: s.Calc.Now(),
	}
	for i, sc := range scores {
		ranking.Entries = append(ranking.Entries, models.RankingEntry{
			ID:           uuid.NewString(),
			RankingID:    ranking.ID,
			TeamID:       teamID,
			MemberID:     sc.MemberID,
			MemberName:   sc.MemberName,
			Rank:         i + 1,
			TotalScore:   sc.TotalScore,
			BaseScore:    sc.BaseScore,
			StreakDays:   sc.StreakDays,
			StreakBonus:  sc.StreakBonus,
			WeeklyScore:  sc.WeeklyScore,
			WeeklyBonus:  sc.WeeklyBonus,
			WorkoutCount: sc.WorkoutCount,
			TotalMinutes: sc.TotalMinutes,
			AverageScore: sc.AverageScore,
		})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Entries first (FK on ranking), then the ranking row itself.
		if err := tx.Where("team_id = ?", teamID).Unscoped().Delete(&models.RankingEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Unscoped().Delete(&models.Ranking{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Entries").Create(ranking).Error; err != nil {
			return err
		}
		for i := range ranking.Entries {
			if err := tx.Create(&ranking.Entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist ranking for team %s: %w", teamID, err)
	}

	// Badges ride along after a successful run (failures never roll back
	// the ranking, they only make noise)
	s.awardBadges(ranking.Entries)

	log.Printf("[RANKING] ✅ Recomputed team %s: %d members, mode=%s, criterion=%s",
		teamID, len(ranking.Entries), mode, criterion)
	return ranking, nil
}

// awardBadges runs the badge triggers over fresh ranking entries.
func (s *RankingService) awardBadges(entries []models.RankingEntry) {
	for i := range entries {
		if err := s.BadgeSvc.AutoAwardBadges(&entries[i]); err != nil {
			log.Printf("[BADGE] ⚠️ Badge award for member %s failed: %v", entries[i].MemberID, err)
		}
	}
}

// GetTeamRanking returns the current persisted ranking for a team.
func (s *RankingService) GetTeamRanking(c *fiber.Ctx) error {
	teamID := c.Params("id")
	var ranking models.Ranking
	err := s.DB.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"rank\" ASC")
		}).
		First(&ranking, "team_id = ?", teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No run yet — not an error, the team just has no ranking
			return c.JSON(fiber.Map{
				"team_id": teamID,
				"entries": []models.RankingEntry{},
			})
		}
		log.Printf("ERROR fetching ranking for team %s: %v", teamID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch ranking"})
	}
	return c.JSON(ranking)
}

// RecomputeRanking handles the manual-refresh path (settings screen).
func (s *RankingService) RecomputeRanking(c *fiber.Ctx) error {
	teamID := c.Params("id")
	type Req struct {
		Criterion string `json:"criterion,omitempty"`
	}
	var req Req
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
		}
	}
	if req.Criterion != "" && !models.ValidCriterion(req.Criterion) {
		return c.Status(400).JSON(fiber.Map{
			"error": "criterion must be one of totalMinutes, totalWorkouts, thisWeekWorkouts, compositeScore",
		})
	}

	if err := s.ensureTeamExists(teamID); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}

	ranking, err := s.RecomputeTeamRanking(teamID, req.Criterion, models.RankingModeManual)
	if err != nil {
		log.Printf("ERROR recomputing ranking for team %s: %v", teamID, err)
		return c.Status(500).JSON(fiber.Map{"error": "ranking unavailable, retry later"})
	}
	return c.JSON(ranking)
}

// GetMemberScore computes one member's live score without persisting anything.
func (s *RankingService) GetMemberScore(c *fiber.Ctx) error {
	teamID := c.Params("id")
	memberID := c.Params("member_id")

	var member models.TeamMember
	if err := s.DB.First(&member, "id = ? AND team_id = ?", memberID, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "member not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	var logs []models.ActivityLog
	if err := s.DB.Where("team_id = ? AND member_id = ?", teamID, memberID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch logs"})
	}

	return c.JSON(s.Calc.ComputeMemberScore(&member, logs))
}

func (s *RankingService) ensureTeamExists(teamID string) error {
	return s.DB.First(&models.Team{}, "id = ?", teamID).Error
}
