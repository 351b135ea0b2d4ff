package api

// Handlers for the eBay OAuth2 flow and session management.

import (
	"log"
	"net/http"
	"time"
)

// handleAuthLogin redirects the user to the eBay consent page.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	authURL := s.app.EbayClient().BuildAuthURL(s.app.Config().Ebay.RuName)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleAuthCallback completes the OAuth flow: it exchanges the
// authorization code for tokens, persists them server side and hands
// the browser an opaque session cookie.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	if errCode := r.URL.Query().Get("error"); errCode != "" {
		log.Printf("OAuth callback returned error: %s", errCode)
		RespondWithError(w, http.StatusBadRequest, "Authorization was denied")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	token, err := s.app.EbayClient().ExchangeCode(r.Context(), code, s.app.Config().Ebay.RuName)
	if err != nil {
		log.Printf("OAuth code exchange failed: %v", err)
		RespondWithError(w, http.StatusBadGateway, "Token exchange failed")
		return
	}

	sessionToken, err := s.store.CreateSession(token.AccessToken, token.RefreshToken, token.TokenType, token.ExpiresIn, false)
	if err != nil {
		log.Printf("Failed to create session: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	})

	log.Println("OAuth authentication successful")
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleAuthLogout removes the session on both ends.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session_token"); err == nil {
		if err := s.store.DeleteSession(cookie.Value); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleAuthStatus reports whether the caller holds a usable session.
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	session := s.resolveSession(r)
	if session == nil {
		RespondWithJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"debug_mode":    session.DebugMode,
	})
}
