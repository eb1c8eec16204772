package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/mellon2025/sinjin/internal/db"
	"github.com/mellon2025/sinjin/internal/store"
)

type createQuestionRequest struct {
	Content    string `json:"content"`
	CategoryID int    `json:"categoryId"`
	Points     *int   `json:"points"`
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	var categoryID *int
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "categoryId must be an integer")
			return
		}
		categoryID = &value
	}
	questions, err := s.store.ListQuestions(r.Context(), categoryID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req createQuestionRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "question payload is invalid")
		return
	}
	content, err := validateQuestionContent(req.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.lookupCategory(r, req.CategoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	points := 10
	if req.Points != nil {
		if *req.Points <= 0 {
			writeError(w, http.StatusBadRequest, "points must be positive")
			return
		}
		points = *req.Points
	}
	question := &db.Question{
		Content:    content,
		CategoryID: req.CategoryID,
		Points:     points,
	}
	if err := s.store.CreateQuestion(r.Context(), question); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create question")
		return
	}
	log.Printf("question created question_id=%d category_id=%d user_id=%d", question.ID, question.CategoryID, user.ID)
	writeJSON(w, http.StatusCreated, question)
}

func (s *Server) lookupCategory(r *http.Request, id int) (*db.Category, error) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	if err := s.store.DeleteQuestion(r.Context(), id); err != nil {
		writeStoreError(w, err, "question")
		return
	}
	log.Printf("question deleted question_id=%d user_id=%d", id, user.ID)
	w.WriteHeader(http.StatusNoContent)
}
