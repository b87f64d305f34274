package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blackwell-systems/cardctl/internal/backup"
	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/updater"
)

type versionResponse struct {
	Version string         `json:"version,omitempty"`
	Synced  bool           `json:"synced"`
	Counts  catalog.Counts `json:"counts"`
}

type cardResponse struct {
	catalog.Card
	Sets []catalog.SetContent   `json:"sets"`
	Bans []catalog.BanlistEntry `json:"bans"`
}

type setResponse struct {
	catalog.CardSet
	Cards []catalog.Card `json:"cards"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"empty":  s.cache.Empty(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	resp := versionResponse{Counts: s.cache.Snapshot().Counts()}
	if s.updater != nil {
		token, ok, err := s.updater.LocalVersion()
		if err != nil {
			respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		resp.Version, resp.Synced = token, ok
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateAvailable(w http.ResponseWriter, r *http.Request) {
	if s.updater == nil {
		respondError(w, r, errUpdatesDisabled, http.StatusNotImplemented)
		return
	}
	avail, err := s.updater.NewVersionAvailable(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"available": avail})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.updater == nil {
		respondError(w, r, errUpdatesDisabled, http.StatusNotImplemented)
		return
	}
	res := s.updater.Update(r.Context())

	code := http.StatusOK
	switch {
	case res.Status == updater.Complete:
	case errors.Is(res.Err, backup.ErrUpdateInProgress):
		code = http.StatusConflict
	default:
		code = http.StatusBadGateway
	}
	respondJSON(w, code, struct {
		updater.Result
		Error string `json:"error,omitempty"`
	}{res, res.Error()})
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		Search:    q.Get("q"),
		Type:      q.Get("type"),
		Attribute: q.Get("attribute"),
		Race:      q.Get("race"),
		Archetype: q.Get("archetype"),
		Set:       q.Get("set"),
		Limit:     parseIntParam(r, "limit", 0),
	}
	cards := f.Apply(s.cache.Snapshot())
	if cards == nil {
		cards = []catalog.Card{}
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, errBadID, http.StatusBadRequest)
		return
	}
	snap := s.cache.Snapshot()
	card := snap.CardByID(id)
	if card == nil {
		respondError(w, r, errNotFound, http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, cardResponse{
		Card: *card,
		Sets: orEmpty(snap.SetsForCard(id)),
		Bans: orEmpty(snap.BanStatus(*card)),
	})
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, orEmpty(s.cache.Snapshot().Sets))
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	snap := s.cache.Snapshot()
	set := snap.SetByName(chi.URLParam(r, "name"))
	if set == nil {
		respondError(w, r, errNotFound, http.StatusNotFound)
		return
	}
	cards := make([]catalog.Card, 0, len(set.CardIDs))
	for _, id := range set.CardIDs {
		if c := snap.CardByID(id); c != nil {
			cards = append(cards, *c)
		}
	}
	respondJSON(w, http.StatusOK, setResponse{CardSet: *set, Cards: cards})
}

func (s *Server) handleBanlists(w http.ResponseWriter, r *http.Request) {
	snap := s.cache.Snapshot()
	if name := r.URL.Query().Get("list"); name != "" {
		respondJSON(w, http.StatusOK, orEmpty(snap.Banlist(name)))
		return
	}
	respondJSON(w, http.StatusOK, orEmpty(snap.BanlistNames()))
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// orEmpty keeps JSON arrays from rendering as null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
