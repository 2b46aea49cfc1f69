package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/forumlab/webforum/internal/common"
)

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, common.ErrValidation
	}
	return id, nil
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	OTP        string `json:"otp"`
	AdminLogin bool   `json:"admin_login"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, common.ErrValidation)
		return
	}

	session, view, err := s.auth.Login(r.Context(), req.Email, req.Password, req.OTP, req.AdminLogin)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		token = cookie.Value
	}

	view, err := s.auth.Current(r.Context(), token)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		s.auth.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	list, err := s.posts.List(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type createPostRequest struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	MaxComments *int   `json:"max_comments"`
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, common.ErrValidation)
		return
	}

	post, err := s.posts.Create(r.Context(), callerFrom(r), req.Title, req.Text, req.MaxComments)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if err := s.posts.Delete(r.Context(), callerFrom(r), id); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	list, err := s.comments.ListForPost(r.Context(), callerFrom(r), id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCommentCount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	count, err := s.comments.Count(r.Context(), id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

type commentTextRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	var req commentTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, common.ErrValidation)
		return
	}

	comment, err := s.comments.Create(r.Context(), callerFrom(r), id, req.Text)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleEditComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	var req commentTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, common.ErrValidation)
		return
	}

	if err := s.comments.Edit(r.Context(), callerFrom(r), id, req.Text); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if err := s.comments.Delete(r.Context(), callerFrom(r), id); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddFlag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if err := s.flags.Add(r.Context(), callerFrom(r), id); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFlag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if err := s.flags.Remove(r.Context(), callerFrom(r), id); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMyFlags(w http.ResponseWriter, r *http.Request) {
	ids, err := s.flags.ListMine(r.Context(), callerFrom(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}
