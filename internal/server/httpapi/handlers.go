package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionRequest struct {
	RefreshToken string `json:"refreshToken"`
}

var errBadBody = &common.ValidationError{Message: "invalid request body"}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errBadBody)
		return
	}

	res, err := s.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "User registered successfully", res)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errBadBody)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, &common.ValidationError{Message: "email and password are required"})
		return
	}

	res, err := s.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Login successful", res)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := s.sessionToken(w, r)
	if !ok {
		return
	}

	res, err := s.svc.Renew(r.Context(), token)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Token refreshed successfully", res)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := s.sessionToken(w, r)
	if !ok {
		return
	}

	if err := s.svc.Logout(r.Context(), token); err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Logout successful", nil)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := AccountIDFromContext(r.Context())
	if !ok {
		writeError(w, common.NewAuthError(common.AuthMissingCredential))
		return
	}

	acc, err := s.svc.Me(r.Context(), accountID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", map[string]any{"user": acc})
}

// sessionToken reads {refreshToken} from the body, answering 400 itself
// when it is absent.
func (s *Server) sessionToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req sessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errBadBody)
		return "", false
	}
	if req.RefreshToken == "" {
		writeError(w, &common.ValidationError{Message: "Refresh token is required"})
		return "", false
	}
	return req.RefreshToken, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _, _ := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, err)
}
