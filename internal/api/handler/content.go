package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordquiz/internal/api/request"
	"github.com/mcoot/wordquiz/internal/api/response"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/services/content"
)

// ContentHandler handles subjects and words
type ContentHandler struct {
	errorWriter
	content *content.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(content *content.Service, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		errorWriter: newErrorWriter(logger),
		content:     content,
	}
}

// ListSubjects handles GET /subjects
func (h *ContentHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.content.ListSubjects(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SubjectsFromModel(subjects))
}

// ListWords handles GET /subjects/{id}/words
func (h *ContentHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.content.ListWords(r.Context(), subjectIDVar(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.WordsFromModel(words))
}

// RandomWord handles GET /subjects/{id}/words/random
func (h *ContentHandler) RandomWord(w http.ResponseWriter, r *http.Request) {
	word, err := h.content.RandomWord(r.Context(), subjectIDVar(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.WordFromModel(word))
}

// CreateSubject handles POST /admin/subjects
func (h *ContentHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSubjectRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	subject, err := h.content.CreateSubject(r.Context(), req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.SubjectFromModel(subject))
}

// DeleteSubject handles DELETE /admin/subjects/{id}
func (h *ContentHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteSubject(r.Context(), subjectIDVar(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}

// CreateWord handles POST /admin/words
func (h *ContentHandler) CreateWord(w http.ResponseWriter, r *http.Request) {
	var req request.CreateWordRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.SubjectID == "" {
		h.fail(w, r, NewInvalidRequestError("subject_id is required"))
		return
	}

	word, err := h.content.AddWord(r.Context(), model.SubjectID(req.SubjectID), req.Text, req.Hint)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.WordFromModel(word))
}

// DeleteWord handles DELETE /admin/words/{id}
func (h *ContentHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteWord(r.Context(), model.WordID(mux.Vars(r)["id"])); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}

func subjectIDVar(r *http.Request) model.SubjectID {
	return model.SubjectID(mux.Vars(r)["id"])
}
