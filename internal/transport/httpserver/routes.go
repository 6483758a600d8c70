package httpserver

import (
	"net/http"
	"time"

	"family-tree-go/internal/config"
	"family-tree-go/internal/transport/httpserver/handler"
	corsmw "family-tree-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(corsmw.NewCORS(cfg.AllowedOrigins))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Route("/trees", func(r chi.Router) {
			r.Get("/", handlers.ListTrees)
			r.Post("/", handlers.CreateTree)
			r.Get("/{tree_id}", handlers.GetTree)
			r.Patch("/{tree_id}", handlers.UpdateTree)
			r.Delete("/{tree_id}", handlers.DeleteTree)

			r.Get("/{tree_id}/people", handlers.ListPeople)
			r.Get("/{tree_id}/relationships", handlers.ListTreeRelationships)
			r.Get("/{tree_id}/relationships/statistics", handlers.TreeStatistics)
			r.Get("/{tree_id}/relationships/infer", handlers.InferRelationships)
		})

		r.Route("/people", func(r chi.Router) {
			r.Post("/", handlers.CreatePerson)
			r.Get("/{person_id}", handlers.GetPerson)
			r.Patch("/{person_id}", handlers.UpdatePerson)
			r.Delete("/{person_id}", handlers.DeletePerson)
			r.Get("/{person_id}/age", handlers.PersonAge)

			r.Get("/{person_id}/relationships", handlers.ListPersonRelationships)
			r.Get("/{person_id}/relationships/display", handlers.ListPersonRelationshipsDisplay)
			r.Get("/{person_id}/family-line", handlers.PersonFamilyLine)
			r.Get("/{person_id}/partners", handlers.PersonPartners)
			r.Get("/{person_id}/siblings", handlers.PersonSiblings)
			r.Get("/{person_id}/ancestors", handlers.PersonAncestors)
			r.Get("/{person_id}/descendants", handlers.PersonDescendants)
			r.Get("/{person_id}/path/{other_person_id}", handlers.FindPath)
		})

		r.Route("/relationships", func(r chi.Router) {
			r.Post("/", handlers.CreateRelationship)
			r.Post("/validate", handlers.ValidateRelationship)
			r.Get("/categories", handlers.RelationshipCategories)
			r.Get("/{relationship_id}", handlers.GetRelationship)
			r.Patch("/{relationship_id}", handlers.UpdateRelationship)
			r.Delete("/{relationship_id}", handlers.DeleteRelationship)
		})
	})

	return r
}
