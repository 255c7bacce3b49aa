package handlers

import (
	"fitness-ranking-system/middleware"
	"fitness-ranking-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTeamRoutes(app *fiber.App, teamService *services.TeamService) {
	// 🔓 Gateway-authenticated but no user context needed
	app.Get("/teams/:id", teamService.GetTeam)
	app.Get("/teams/:id/members", teamService.GetTeamMembers)

	// 🔐 Routes acting on behalf of a member. Attached per route: a
	// Group("/") hangs the middleware on the root prefix and would catch
	// every route registered after it, including the public reads.
	userCtx := middleware.UserContextMiddleware()

	app.Post("/teams", userCtx, teamService.CreateTeam)
	app.Delete("/teams/:id", userCtx, teamService.DeleteTeam)

	// Activity logs
	app.Post("/teams/:id/logs", userCtx, teamService.CreateActivityLog)
	app.Get("/teams/:id/logs", userCtx, teamService.GetTeamLogs)
}
