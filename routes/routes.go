package routes

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/courtside/league-system/handlers"
	"github.com/courtside/league-system/middleware"
	"github.com/courtside/league-system/services"
)

//go:embed openapi.json
var openAPISpec []byte

// SetupRoutes mounts every endpoint on the router. Reads are public, writes
// need a session token, and league-office routes sit behind the admin gate.
func SetupRoutes(
	router *chi.Mux,
	sessionService services.SessionService,
	sessionHandler *handlers.SessionHandler,
	matchHandler *handlers.MatchHandler,
	standingsHandler *handlers.StandingsHandler,
	teamHandler *handlers.TeamHandler,
	attendanceHandler *handlers.AttendanceHandler,
	announcementHandler *handlers.AnnouncementHandler,
	sponsorHandler *handlers.SponsorHandler,
	photoHandler *handlers.PhotoHandler,
	adminHandler *handlers.AdminHandler,
	liveHandler *handlers.LiveHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Authenticate(sessionService))

	router.Route("/session", func(r chi.Router) {
		r.Post("/", sessionHandler.StartSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Get("/", sessionHandler.CurrentSession)
			r.Put("/identity", sessionHandler.UpdateIdentity)
			r.Post("/admin", sessionHandler.ElevateAdmin)
		})
	})

	router.Get("/standings", standingsHandler.GetStandings)
	router.Get("/settings", adminHandler.GetSettings)

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.ListMatches)
		r.Get("/{matchID}", matchHandler.GetMatch)
		r.Get("/{matchID}/score", matchHandler.GetScore)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Put("/{matchID}/score", matchHandler.SaveScore)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", matchHandler.CreateMatch)
			r.Put("/{matchID}", matchHandler.UpdateMatch)
			r.Delete("/{matchID}", matchHandler.DeleteMatch)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		r.Get("/{teamID}", teamHandler.GetTeam)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", teamHandler.CreateTeam)
			r.Put("/{teamID}", teamHandler.UpdateTeam)
			r.Delete("/{teamID}", teamHandler.DeleteTeam)
		})
	})

	router.Route("/attendance", func(r chi.Router) {
		r.Get("/", attendanceHandler.ListAttendance)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Put("/", attendanceHandler.MarkAttendance)
		})
	})

	router.Route("/announcements", func(r chi.Router) {
		r.Get("/", announcementHandler.ListAnnouncements)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Post("/", announcementHandler.PostAnnouncement)
			r.Post("/{announcementID}/replies", announcementHandler.PostReply)
			r.Delete("/{announcementID}", announcementHandler.DeleteAnnouncement)
			r.Delete("/{announcementID}/replies/{replyID}", announcementHandler.DeleteReply)
		})
	})

	router.Route("/sponsors", func(r chi.Router) {
		r.Get("/", sponsorHandler.ListSponsors)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", sponsorHandler.CreateSponsor)
			r.Put("/{sponsorID}", sponsorHandler.UpdateSponsor)
			r.Delete("/{sponsorID}", sponsorHandler.DeleteSponsor)
			r.Post("/{sponsorID}/logo", sponsorHandler.UploadLogo)
		})
	})

	router.Route("/photos", func(r chi.Router) {
		r.Get("/", photoHandler.ListPhotos)
		r.Get("/folders", photoHandler.ListFolders)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Post("/", photoHandler.UploadPhoto)
			r.Delete("/{photoID}", photoHandler.DeletePhoto)
		})
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Get("/moves", adminHandler.ListMoves)
		r.Post("/moves", adminHandler.AddMove)
		r.Delete("/moves/{moveID}", adminHandler.DeleteMove)

		r.Get("/pairings", adminHandler.SuggestPairings)

		r.Get("/baseline", adminHandler.GetBaseline)
		r.Put("/baseline", adminHandler.ReplaceBaseline)

		r.Put("/settings/week", adminHandler.SetCurrentWeek)

		r.Get("/photo-admins", adminHandler.ListPhotoAdmins)
		r.Post("/photo-admins", adminHandler.AddPhotoAdmin)
		r.Delete("/photo-admins/{photoAdminID}", adminHandler.RemovePhotoAdmin)

		r.Get("/photos/orphans", photoHandler.ListOrphans)
	})

	router.Get("/live/{channel}", liveHandler.ServeLive)

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(openAPISpec)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
