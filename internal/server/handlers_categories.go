package server

import (
	"log"
	"net/http"

	"github.com/mellon2025/sinjin/internal/db"
)

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req createCategoryRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "category payload is invalid")
		return
	}
	name, err := validateCategoryName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	category := &db.Category{Name: name}
	if err := s.store.CreateCategory(r.Context(), category); err != nil {
		writeStoreError(w, err, "category name")
		return
	}
	log.Printf("category created category_id=%d name=%s user_id=%d", category.ID, category.Name, user.ID)
	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		writeStoreError(w, err, "category")
		return
	}
	log.Printf("category deleted category_id=%d user_id=%d", id, user.ID)
	w.WriteHeader(http.StatusNoContent)
}
