package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/venus/internal/common"
	"github.com/dmitrijs2005/venus/internal/server/services"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	res, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	s.writeAuth(w, res)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	res, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	s.writeAuth(w, res)
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, s.tokenCookie("", -1))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Current(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// writeAuth answers with {user, token} and also sets the token cookie so
// browser image requests are authenticated.
func (s *Server) writeAuth(w http.ResponseWriter, res *services.AuthResult) {
	http.SetCookie(w, s.tokenCookie(res.Token, int(s.opts.TokenTTL/time.Second)))
	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(res.User), Token: res.Token})
}

func (s *Server) tokenCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
