package httpserver

import (
	"net/http"
	"time"

	"babycare-go/internal/config"
	"babycare-go/internal/transport/httpserver/handler"
	authmw "babycare-go/internal/transport/httpserver/middleware"
	"babycare-go/pkg/token"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens *token.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(authmw.NewMetrics().Middleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		auth := authmw.NewJWTAuth(tokens)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Me)
			r.Patch("/auth/me", handlers.UpdateProfile)
			r.Post("/auth/password", handlers.ChangePassword)

			r.Get("/families", handlers.ListMyFamilies)
			r.Post("/families", handlers.CreateFamily)
			r.Post("/families/join", handlers.JoinFamily)
			r.Get("/families/{family_id}", handlers.GetFamily)
			r.Patch("/families/{family_id}", handlers.UpdateFamily)
			r.Get("/families/{family_id}/members", handlers.ListFamilyMembers)
			r.Delete("/families/{family_id}/members/{user_id}", handlers.DeactivateFamilyMember)

			r.Post("/babies", handlers.CreateBaby)
			r.Get("/families/{family_id}/babies", handlers.ListBabies)
			r.Get("/babies/{baby_id}", handlers.GetBaby)
			r.Patch("/babies/{baby_id}", handlers.UpdateBaby)

			r.Post("/tasks", handlers.CreateTask)
			r.Get("/families/{family_id}/tasks", handlers.ListFamilyTasks)
			r.Get("/tasks/mine", handlers.ListMyTasks)
			r.Post("/tasks/{task_id}/start", handlers.StartTask)
			r.Post("/tasks/{task_id}/complete", handlers.CompleteTask)
			r.Post("/tasks/{task_id}/cancel", handlers.CancelTask)
			r.Delete("/tasks/{task_id}", handlers.DeleteTask)

			r.Post("/posts", handlers.CreatePost)
			r.Get("/families/{family_id}/posts", handlers.ListFamilyPosts)
			r.Post("/posts/{post_id}/like", handlers.ToggleLike)
			r.Delete("/posts/{post_id}", handlers.DeletePost)

			r.Post("/records", handlers.CreateRecord)
			r.Get("/babies/{baby_id}/records", handlers.ListRecords)
			r.Delete("/records/{record_id}", handlers.DeleteRecord)

			r.Post("/plans", handlers.CreatePlan)
			r.Get("/babies/{baby_id}/plans", handlers.ListPlans)
			r.Patch("/plans/{plan_id}", handlers.UpdatePlan)
			r.Delete("/plans/{plan_id}", handlers.DeletePlan)
			r.Post("/plans/{plan_id}/start", handlers.StartPlan)
			r.Post("/plans/{plan_id}/complete", handlers.CompletePlan)
			r.Post("/plans/{plan_id}/activities", handlers.CreateActivity)
			r.Get("/plans/{plan_id}/activities", handlers.ListActivities)
			r.Post("/activities/{activity_id}/complete", handlers.CompleteActivity)
		})
	})

	return r
}
