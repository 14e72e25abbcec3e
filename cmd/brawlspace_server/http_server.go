package main

import (
	"runtime/pprof"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brawlspace/brawlspace/pkg/log"
)

type HTTPApi struct {
	f    *fiber.App
	addr string
}

func NewHTTPApi(app *App, addr string) *HTTPApi {
	api := &HTTPApi{addr: addr}

	api.f = fiber.New(fiber.Config{EnablePrintRoutes: false, DisableStartupMessage: true})

	api.f.Use(log.NewFiberLogger(&log.LoggerConfig{Name: "api", UserGetter: Username, DoMetrics: true, LogErrorsOnly: true}))

	api.f.Post("/api/auth/register", getRegisterHandler(app))
	api.f.Post("/api/auth/login", getLoginHandler(app))

	api.f.Get("/stack", getStackHandler())
	api.f.Get("/metrics", getMetricsHandler())

	auth := getJWTAuth(app)

	api.f.Get("/api/profile", auth, getProfileHandler(app))
	api.f.Get("/api/brawler/:id", auth, getBrawlerHandler(app))

	api.f.Get("/api/mission", auth, getMissionsHandler(app))
	api.f.Post("/api/mission", auth, getMissionCreateHandler(app))
	api.f.Get("/api/mission/:id", auth, getMissionHandler(app))
	api.f.Put("/api/mission/:id", auth, getMissionEditHandler(app))
	api.f.Delete("/api/mission/:id", auth, getMissionDeleteHandler(app))

	api.f.Post("/api/mission/:id/start", auth, getMissionStartHandler(app))
	api.f.Post("/api/mission/:id/complete", auth, getMissionCompleteHandler(app))
	api.f.Post("/api/mission/:id/fail", auth, getMissionFailHandler(app))

	api.f.Post("/api/mission/:id/join", auth, getJoinHandler(app))
	api.f.Post("/api/mission/:id/leave", auth, getLeaveHandler(app))
	api.f.Post("/api/mission/:id/kick/:brawler_id", auth, getKickHandler(app))
	api.f.Get("/api/mission/:id/crew", auth, getRosterHandler(app))

	api.f.Post("/api/mission/:id/invite/:brawler_id", auth, getInviteHandler(app))
	api.f.Get("/api/invite", auth, getPendingInvitesHandler(app))
	api.f.Post("/api/invite/:id/accept", auth, getInviteAcceptHandler(app))
	api.f.Post("/api/invite/:id/decline", auth, getInviteDeclineHandler(app))

	api.f.Get("/api/mission/:id/message", auth, getHistoryHandler(app))
	api.f.Post("/api/mission/:id/message", auth, getPostMessageHandler(app))

	api.f.Get("/api/achievement", auth, getAchievementsHandler(app))
	api.f.Get("/api/achievement/my", auth, getMyAchievementsHandler(app))

	api.f.Get("/ws/mission/:id", auth, getMissionWsHandler(app))
	api.f.Get("/ws/notifications", auth, getNotificationWsHandler(app))

	return api
}

func (api *HTTPApi) Address() string {
	return api.addr
}

func (api *HTTPApi) Listen() error {
	return api.f.Listen(api.addr)
}

func getStackHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return pprof.Lookup("goroutine").WriteTo(ctx.Response().BodyWriter(), 1)
	}
}

func getMetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{DisableCompression: true},
	))
}
