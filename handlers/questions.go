// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/expert-qa/cliparse"
	"github.com/danielhkuo/expert-qa/db"
	"github.com/danielhkuo/expert-qa/middleware"
	"github.com/danielhkuo/expert-qa/models"
	"github.com/danielhkuo/expert-qa/session"
	"github.com/danielhkuo/expert-qa/store"
)

type QuestionHandler struct {
	gate *session.Gate
}

func NewQuestionHandler(cfg cliparse.Config) *QuestionHandler {
	return &QuestionHandler{gate: session.NewGate(cfg)}
}

// Home handles GET /
// Lists answered questions only.
func (h *QuestionHandler) Home(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, ok := currentUser(w, r, q, h.gate)
	if !ok {
		return
	}

	questions, err := store.NewQuestionStore(q).ListAnswered(r.Context())
	if err != nil {
		databaseError(w, "failed to list answered questions", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HomeView{User: user, Questions: questions})
}

// Question handles GET /question/{id}
func (h *QuestionHandler) Question(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, ok := currentUser(w, r, q, h.gate)
	if !ok {
		return
	}
	if user == nil {
		middleware.Redirect(w, r, "/login")
		return
	}

	view := models.QuestionView{User: user}

	id, valid := middleware.PathID(r, "id")
	if !valid {
		middleware.JSONResponse(w, http.StatusOK, view)
		return
	}

	detail, err := store.NewQuestionStore(q).Detail(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusOK, view)
		return
	}
	if err != nil {
		databaseError(w, "failed to load question", err, "question_id", id)
		return
	}

	view.Found = true
	view.QuestionDetail = *detail
	middleware.JSONResponse(w, http.StatusOK, view)
}

// Unanswered handles GET /unanswered
// An expert sees only their own queue.
func (h *QuestionHandler) Unanswered(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, ok := currentUser(w, r, q, h.gate)
	if !ok {
		return
	}
	if !user.IsExpert() {
		middleware.Redirect(w, r, "/")
		return
	}

	questions, err := store.NewQuestionStore(q).ListPending(r.Context(), user.ID)
	if err != nil {
		databaseError(w, "failed to list pending questions", err, "user_id", user.ID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UnansweredView{User: user, Questions: questions})
}

// loadForAnswer resolves the user and the still-unanswered question named
// in the path. question is nil when it is absent or already answered.
// ok is false when a response has already been written.
func (h *QuestionHandler) loadForAnswer(w http.ResponseWriter, r *http.Request, q db.DBTX) (user *models.User, question *models.Question, ok bool) {
	user, ok = currentUser(w, r, q, h.gate)
	if !ok {
		return nil, nil, false
	}
	if user == nil {
		middleware.Redirect(w, r, "/")
		return nil, nil, false
	}

	id, valid := middleware.PathID(r, "id")
	if !valid {
		return user, nil, true
	}

	question, err := store.NewQuestionStore(q).GetUnanswered(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return user, nil, true
	}
	if err != nil {
		databaseError(w, "failed to load question", err, "question_id", id)
		return nil, nil, false
	}

	if !user.CanAnswer(question) {
		slog.Warn("answer attempt by another user", "question_id", id, "user_id", user.ID)
		middleware.Redirect(w, r, "/login")
		return nil, nil, false
	}

	return user, question, true
}

// ShowAnswer handles GET /answer/{id}
func (h *QuestionHandler) ShowAnswer(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, question, ok := h.loadForAnswer(w, r, q)
	if !ok {
		return
	}

	if question == nil {
		id, _ := middleware.PathID(r, "id")
		middleware.JSONResponse(w, http.StatusOK, models.AnswerView{
			User:         user,
			QuestionID:   id,
			QuestionText: models.MsgAlreadyAnswered,
		})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AnswerView{
		User:         user,
		QuestionID:   question.ID,
		Found:        true,
		QuestionText: question.QuestionText,
	})
}

// Answer handles POST /answer/{id}
func (h *QuestionHandler) Answer(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, question, ok := h.loadForAnswer(w, r, q)
	if !ok {
		return
	}
	if question == nil {
		middleware.Redirect(w, r, "/")
		return
	}

	form := models.AnswerForm{Answer: middleware.FormString(r, "answer_by_expert")}
	if err := middleware.ValidateForm(&form); err != nil {
		middleware.JSONResponse(w, http.StatusOK, models.AnswerView{
			User:         user,
			QuestionID:   question.ID,
			Found:        true,
			QuestionText: question.QuestionText,
			Warning:      models.WarnEmptyAnswer,
		})
		return
	}

	err := store.NewQuestionStore(q).Answer(r.Context(), question.ID, user.ID, form.Answer)
	if errors.Is(err, store.ErrNotFound) {
		// answered by a concurrent request since it was loaded
		middleware.Redirect(w, r, "/")
		return
	}
	if err != nil {
		databaseError(w, "failed to answer question", err, "question_id", question.ID)
		return
	}

	slog.Info("question answered", "question_id", question.ID, "expert_id", user.ID)
	middleware.Redirect(w, r, "/")
}

// loadForAsk resolves a user allowed to ask along with the current experts.
func (h *QuestionHandler) loadForAsk(w http.ResponseWriter, r *http.Request, q db.DBTX) (user *models.User, experts []models.User, ok bool) {
	user, ok = currentUser(w, r, q, h.gate)
	if !ok {
		return nil, nil, false
	}
	if !user.CanAsk() {
		middleware.Redirect(w, r, "/")
		return nil, nil, false
	}

	experts, err := store.NewUserStore(q).ListExperts(r.Context())
	if err != nil {
		databaseError(w, "failed to list experts", err)
		return nil, nil, false
	}

	return user, experts, true
}

// ShowAsk handles GET /ask
func (h *QuestionHandler) ShowAsk(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, experts, ok := h.loadForAsk(w, r, q)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AskView{User: user, Experts: experts})
}

// Ask handles POST /ask
func (h *QuestionHandler) Ask(w http.ResponseWriter, r *http.Request, q db.DBTX) {
	user, experts, ok := h.loadForAsk(w, r, q)
	if !ok {
		return
	}

	view := models.AskView{User: user, Experts: experts}

	form := models.AskForm{
		ExpertID: middleware.FormInt64(r, "selection"),
		Question: middleware.FormString(r, "question"),
	}
	if err := middleware.ValidateForm(&form); err != nil {
		view.Warning = models.WarnEmptyQuestion
		if middleware.InvalidField(err) == "ExpertID" {
			view.Warning = models.WarnChooseExpert
		}
		middleware.JSONResponse(w, http.StatusOK, view)
		return
	}

	if !containsUser(experts, form.ExpertID) {
		view.Warning = models.WarnChooseExpert
		middleware.JSONResponse(w, http.StatusOK, view)
		return
	}

	id, err := store.NewQuestionStore(q).Create(r.Context(), form.Question, user.ID, form.ExpertID)
	if err != nil {
		databaseError(w, "failed to create question", err, "user_id", user.ID)
		return
	}

	slog.Info("question submitted", "question_id", id, "asked_by", user.ID, "expert_id", form.ExpertID)

	view.QuestionID = id
	view.Message = models.MsgQuestionSubmitted
	middleware.JSONResponse(w, http.StatusOK, view)
}

func containsUser(users []models.User, id int64) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
