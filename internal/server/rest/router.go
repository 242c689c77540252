package rest

import (
	"net/http"

	"github.com/dmitrijs2005/bvchub/internal/server/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestFields)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(NewIPRateLimiter(s.opts.RequestsPerMinute).Handler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("BVC Digital Hub API is running"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(g chi.Router) {
			g.Post("/signup", s.signup)
			g.Post("/verify-otp", s.verifyOTP)
			g.Post("/login", s.login)
			g.Post("/admin/login", s.adminLogin)
		})

		// ---------------- Public info ----------------
		api.Get("/info/stats", s.stats)
		api.Get("/info/events/{id}", s.event)
		api.Post("/info/jobs/{id}/apply", s.applyForJob)

		// ---------------- Any signed-in identity ----------------
		api.Group(func(g chi.Router) {
			g.Use(s.authenticate)

			g.Get("/info/staff", s.staffList)
			g.Get("/info/staff/{id}", s.staffMember)
			g.Get("/info/events", s.events)
			g.Get("/info/jobs", s.jobs)

			g.Get("/projects", s.listProjects)
			g.Get("/projects/{id}", s.getProject)
			g.Delete("/projects/{id}", s.deleteProject)

			g.Get("/users/{id}", s.getProfile)
		})

		// ---------------- Students ----------------
		api.Group(func(g chi.Router) {
			g.Use(s.authenticate, requireUser)

			g.Get("/users/me", s.getMe)
			g.Put("/users/onboarding", s.completeOnboarding)
			g.Put("/users/profile", s.updateProfile)
			g.Post("/users/{id}/follow", s.toggleFollow)

			g.Post("/projects", s.createProject)
			g.Get("/projects/mine", s.myProjects)
			g.Post("/projects/{id}/like", s.likeProject)
		})

		// ---------------- Admin console ----------------
		api.Route("/admin", func(g chi.Router) {
			g.Use(s.authenticate, requireAdmin)

			g.Get("/users", s.adminUsers)
			g.Put("/users/{id}", s.adminUpdateUser)
			g.Delete("/users/{id}", s.adminDeleteUser)
			g.Get("/users/{id}/projects", s.adminUserProjects)
			g.Delete("/projects/{id}", s.adminDeleteProject)

			g.Get("/staff", s.adminStaff)
			g.Post("/staff", s.adminCreateStaff)
			g.Put("/staff/{id}", s.adminUpdateStaff)
			g.Delete("/staff/{id}", s.adminDeleteStaff)

			g.Get("/events", s.adminEvents)
			g.Post("/events", s.adminCreateEvent)
			g.Put("/events/{id}", s.adminUpdateEvent)
			g.Delete("/events/{id}", s.adminDeleteEvent)

			g.Get("/jobs", s.adminJobs)
			g.Post("/jobs", s.adminCreateJob)
			g.Put("/jobs/{id}", s.adminUpdateJob)
			g.Delete("/jobs/{id}", s.adminDeleteJob)
		})
	})

	return r
}
