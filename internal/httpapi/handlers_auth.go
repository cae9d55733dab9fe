package httpapi

import (
	"errors"
	"net/http"

	"strategy-studio/internal/auth"
	"strategy-studio/internal/domain"
	"strategy-studio/internal/survey"
	"strategy-studio/internal/templates"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "email and password are required")
			return
		}
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), requestToken(r)); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, requestSession(r))
}

func (s *Server) handleSurveyQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, survey.Questions())
}

type surveySubmitRequest struct {
	Answers domain.SurveyAnswers `json:"answers"`
}

// handleSurveySubmit validates and stores the survey answers on the caller's
// session, then returns the recommended templates.
func (s *Server) handleSurveySubmit(w http.ResponseWriter, r *http.Request) {
	var req surveySubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if err := survey.Validate(req.Answers); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_answers", err.Error())
		return
	}

	sess := requestSession(r)
	sess.SurveyAnswers = req.Answers
	if err := s.sessions.Put(r.Context(), sess); err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendationsResponse{
		Templates: templateViews(survey.Recommend(req.Answers)),
	})
}

// handleRecommendations re-scores the catalog against the answers already on
// the session. With no answers the full catalog comes back in display order.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	sess := requestSession(r)
	writeJSON(w, http.StatusOK, recommendationsResponse{
		Templates: templateViews(survey.Recommend(sess.SurveyAnswers)),
	})
}

type recommendationsResponse struct {
	Templates []templateView `json:"templates"`
}

// templateView is the JSON shape of one catalog entry. The Build closure is
// replaced with the built config so clients get something serializable.
type templateView struct {
	Slug        string                 `json:"slug"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Risk        templates.RiskLevel    `json:"risk"`
	Experience  domain.ExperienceLevel `json:"experience"`
	Strategy    domain.StrategyConfig  `json:"strategy"`
}

func templateViews(list []templates.Template) []templateView {
	views := make([]templateView, 0, len(list))
	for _, t := range list {
		views = append(views, templateView{
			Slug:        t.Slug,
			Name:        t.Name,
			Description: t.Description,
			Risk:        t.Risk,
			Experience:  t.Experience,
			Strategy:    t.Build(),
		})
	}
	return views
}

func (s *Server) handleTemplateList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, templateViews(templates.All()))
}

func (s *Server) handleTemplateGet(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := templates.BySlug(r.PathValue("slug"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown template")
		return
	}
	writeJSON(w, http.StatusOK, templateViews([]templates.Template{tmpl})[0])
}
