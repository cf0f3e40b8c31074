package rest

import (
	"net/http"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/gorilla/mux"
)

type registerRequest struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addFavoriteRequest struct {
	CountryCode string `json:"countryCode"`
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	res, err := s.accounts.Register(r.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	res, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		s.writeError(r.Context(), w, common.ErrorUnauthenticated)
		return
	}

	u, err := s.accounts.Profile(r.Context(), userID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Public())
}

func (s *HTTPServer) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		s.writeError(r.Context(), w, common.ErrorUnauthenticated)
		return
	}

	codes, err := s.favorites.List(r.Context(), userID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

func (s *HTTPServer) addFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		s.writeError(r.Context(), w, common.ErrorUnauthenticated)
		return
	}

	var req addFavoriteRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	codes, err := s.favorites.Add(r.Context(), userID, req.CountryCode)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Message: "Country added to favorites", Favorites: codes})
}

func (s *HTTPServer) removeFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		s.writeError(r.Context(), w, common.ErrorUnauthenticated)
		return
	}

	codes, err := s.favorites.Remove(r.Context(), userID, mux.Vars(r)["code"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Message: "Country removed from favorites", Favorites: codes})
}

func (s *HTTPServer) favoriteCountries(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		s.writeError(r.Context(), w, common.ErrorUnauthenticated)
		return
	}

	list, err := s.favorites.Countries(r.Context(), userID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
