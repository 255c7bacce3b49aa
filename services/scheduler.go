// services/scheduler.go
package services

import (
	"log"
	"time"

	"fitness-ranking-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartStaleRankingScheduler sweeps all teams once a day and recomputes their
// rankings. Scores depend on the wall clock (3-day recency window, 7-day
// weekly window, streaks), so a persisted ranking drifts stale across
// midnight even when nobody logs a workout. On-demand recompute stays the
// primary trigger; this job only re-aligns long-idle teams.
func (s *RankingService) StartStaleRankingScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			var teams []models.Team
			if err := s.DB.Find(&teams).Error; err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, team := range teams {
				if _, err := s.RecomputeTeamRanking(team.ID, models.CriterionCompositeScore, models.RankingModeAutomatic); err != nil {
					log.Printf("[Scheduler] Failed to recompute ranking for team %s: %v", team.ID, err)
				} else {
					log.Printf("✅ Daily ranking refresh: %s", team.Name)
				}
			}
		}),
	)
}
