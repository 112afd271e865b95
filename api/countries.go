package api

import (
	"net/http"

	"github.com/nexthome/backend/internal/countries"
)

type CountriesHandler struct{}

func (h *CountriesHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := countries.All()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, all)
}
