// handlers/ranking_routes.go
package handlers

import (
	"fitness-ranking-system/middleware"
	"fitness-ranking-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRankingRoutes(app *fiber.App, rankingService *services.RankingService) {
	// 🔓 Reads — the whole team sees the board
	app.Get("/teams/:id/rankings", rankingService.GetTeamRanking)
	app.Get("/teams/:id/members/:member_id/score", rankingService.GetMemberScore)

	// 🔐 Manual refresh (settings screen). Per-route middleware, see
	// SetupTeamRoutes.
	app.Post("/teams/:id/rankings/recompute", middleware.UserContextMiddleware(), rankingService.RecomputeRanking)
}
