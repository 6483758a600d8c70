package handler

import (
	"errors"
	"net/http"

	persondomain "family-tree-go/internal/domain/person"
	reldomain "family-tree-go/internal/domain/relationship"
	treedomain "family-tree-go/internal/domain/tree"
	"family-tree-go/pkg/logger"
)

type Handlers struct {
	Trees         *treedomain.Service
	People        *persondomain.Service
	Relationships *reldomain.Service

	log logger.Logger
}

func New(trees *treedomain.Service, people *persondomain.Service, relationships *reldomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Trees:         trees,
		People:        people,
		Relationships: relationships,
		log:           log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeDomainError maps domain sentinels onto HTTP status codes; anything
// unrecognized is an internal error.
func (h *Handlers) writeDomainError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, treedomain.ErrTreeNotFound):
		h.log.BusinessError(op+": tree not found", err, args...)
		writeError(w, http.StatusNotFound, "tree_not_found", err.Error())
	case errors.Is(err, persondomain.ErrPersonNotFound):
		h.log.BusinessError(op+": person not found", err, args...)
		writeError(w, http.StatusNotFound, "person_not_found", err.Error())
	case errors.Is(err, reldomain.ErrRelationshipNotFound):
		h.log.BusinessError(op+": relationship not found", err, args...)
		writeError(w, http.StatusNotFound, "relationship_not_found", err.Error())
	case errors.Is(err, persondomain.ErrInvalidDates):
		h.log.BusinessError(op+": invalid dates", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_dates", err.Error())
	case errors.Is(err, reldomain.ErrConflict):
		h.log.BusinessError(op+": concurrent conflict", err, args...)
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case reldomain.IsValidationError(err):
		h.log.BusinessError(op+": validation failed", err, args...)
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
