package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *HTTPServer) listCountries(w http.ResponseWriter, r *http.Request) {
	list, err := s.countries.ListAll(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) getCountry(w http.ResponseWriter, r *http.Request) {
	c, err := s.countries.GetByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *HTTPServer) searchCountries(w http.ResponseWriter, r *http.Request) {
	list, err := s.countries.SearchByName(r.Context(), mux.Vars(r)["term"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) countriesByRegion(w http.ResponseWriter, r *http.Request) {
	list, err := s.countries.ListByRegion(r.Context(), mux.Vars(r)["region"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) countriesBySubregion(w http.ResponseWriter, r *http.Request) {
	list, err := s.countries.ListBySubregion(r.Context(), mux.Vars(r)["subregion"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
