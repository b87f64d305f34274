package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blackwell-systems/cardctl/internal/api"
	"github.com/blackwell-systems/cardctl/internal/backup"
	"github.com/blackwell-systems/cardctl/internal/cache"
	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/updater"
)

type fakeUpdater struct {
	available bool
	local     string
	result    updater.Result
	calls     int
}

func (f *fakeUpdater) NewVersionAvailable(ctx context.Context) (bool, error) {
	return f.available, nil
}

func (f *fakeUpdater) LocalVersion() (string, bool, error) {
	return f.local, f.local != "", nil
}

func (f *fakeUpdater) Update(ctx context.Context) updater.Result {
	f.calls++
	return f.result
}

func testCache() *cache.Cache {
	c := cache.New()
	c.Replace(&catalog.Catalog{
		Cards: []catalog.Card{
			{ID: 89631139, Name: "Blue-Eyes White Dragon", Type: "Normal Monster", Attribute: "LIGHT", Atk: catalog.Int32(3000)},
			{ID: 55144522, Name: "Pot of Greed", Type: "Spell Card"},
		},
		SetContents: []catalog.SetContent{
			{CardID: 89631139, SetName: "Legend of Blue Eyes White Dragon", Rarity: "Ultra Rare"},
		},
		Sets: []catalog.CardSet{
			{Name: "Legend of Blue Eyes White Dragon", Code: "LOB", CardIDs: []int64{89631139}},
		},
		Banlists: []catalog.BanlistEntry{
			{List: "2024.01 TCG", Card: "55144522", CardID: 55144522, Limit: 0, Line: "55144522 0 --Pot of Greed"},
		},
	})
	return c
}

func do(t *testing.T, s *api.Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	s := api.NewServer(cache.New(), nil)
	rec := do(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	decode(t, rec, &body)
	if body["empty"] != true {
		t.Errorf("empty = %v, want true", body["empty"])
	}
	if rec.Header().Get("X-Catalog-Generation") != "0" {
		t.Errorf("generation header = %q", rec.Header().Get("X-Catalog-Generation"))
	}
}

func TestListCards_Filter(t *testing.T) {
	s := api.NewServer(testCache(), nil)
	rec := do(t, s, http.MethodGet, "/api/cards?type=spell")
	var cards []catalog.Card
	decode(t, rec, &cards)
	if len(cards) != 1 || cards[0].ID != 55144522 {
		t.Errorf("cards = %+v", cards)
	}

	rec = do(t, s, http.MethodGet, "/api/cards?q=nothing-matches")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty result = %q, want []", rec.Body.String())
	}
}

func TestCard(t *testing.T) {
	s := api.NewServer(testCache(), nil)

	rec := do(t, s, http.MethodGet, "/api/cards/89631139")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		ID   int64                `json:"id"`
		Name string               `json:"name"`
		Sets []catalog.SetContent `json:"sets"`
	}
	decode(t, rec, &body)
	if body.Name != "Blue-Eyes White Dragon" || len(body.Sets) != 1 {
		t.Errorf("body = %+v", body)
	}

	rec = do(t, s, http.MethodGet, "/api/cards/55144522")
	var banned struct {
		Bans []catalog.BanlistEntry `json:"bans"`
	}
	decode(t, rec, &banned)
	if len(banned.Bans) != 1 || banned.Bans[0].Limit != 0 {
		t.Errorf("bans = %+v", banned.Bans)
	}

	if rec := do(t, s, http.MethodGet, "/api/cards/1"); rec.Code != http.StatusNotFound {
		t.Errorf("missing card status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/cards/abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestSet(t *testing.T) {
	s := api.NewServer(testCache(), nil)
	rec := do(t, s, http.MethodGet, "/api/sets/legend%20of%20blue%20eyes%20white%20dragon")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Code  string         `json:"code"`
		Cards []catalog.Card `json:"cards"`
	}
	decode(t, rec, &body)
	if body.Code != "LOB" || len(body.Cards) != 1 {
		t.Errorf("body = %+v", body)
	}

	if rec := do(t, s, http.MethodGet, "/api/sets/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("missing set status = %d", rec.Code)
	}
}

func TestBanlists(t *testing.T) {
	s := api.NewServer(testCache(), nil)
	var names []string
	decode(t, do(t, s, http.MethodGet, "/api/banlists"), &names)
	if len(names) != 1 || names[0] != "2024.01 TCG" {
		t.Errorf("names = %v", names)
	}

	var entries []catalog.BanlistEntry
	decode(t, do(t, s, http.MethodGet, "/api/banlists?list=2024.01%20TCG"), &entries)
	if len(entries) != 1 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestVersionAndUpdateAvailable(t *testing.T) {
	u := &fakeUpdater{available: true, local: "1.0"}
	s := api.NewServer(testCache(), u)

	var v struct {
		Version string         `json:"version"`
		Synced  bool           `json:"synced"`
		Counts  catalog.Counts `json:"counts"`
	}
	decode(t, do(t, s, http.MethodGet, "/api/version"), &v)
	if v.Version != "1.0" || !v.Synced || v.Counts.Cards != 2 {
		t.Errorf("version = %+v", v)
	}

	var avail map[string]bool
	decode(t, do(t, s, http.MethodGet, "/api/update"), &avail)
	if !avail["available"] {
		t.Errorf("available = %v", avail)
	}
}

func TestPostUpdate(t *testing.T) {
	cases := []struct {
		name   string
		result updater.Result
		code   int
		status string
	}{
		{"complete", updater.Result{Status: updater.Complete, Version: "2.0"}, http.StatusOK, "complete"},
		{"in progress", updater.Result{Status: updater.Failed, Err: backup.ErrUpdateInProgress}, http.StatusConflict, "failed"},
		{"incomplete", updater.Result{Status: updater.Incomplete, Err: context.DeadlineExceeded}, http.StatusBadGateway, "incomplete"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u := &fakeUpdater{result: c.result}
			s := api.NewServer(cache.New(), u)
			rec := do(t, s, http.MethodPost, "/api/update")
			if rec.Code != c.code {
				t.Errorf("code = %d, want %d", rec.Code, c.code)
			}
			var body map[string]any
			decode(t, rec, &body)
			if body["status"] != c.status {
				t.Errorf("status = %v, want %s", body["status"], c.status)
			}
			if c.result.Err != nil && body["error"] == nil {
				t.Error("error message missing")
			}
			if u.calls != 1 {
				t.Errorf("Update calls = %d", u.calls)
			}
		})
	}
}

func TestUpdateRoutesDisabled(t *testing.T) {
	s := api.NewServer(cache.New(), nil)
	if rec := do(t, s, http.MethodPost, "/api/update"); rec.Code != http.StatusNotImplemented {
		t.Errorf("code = %d, want 501", rec.Code)
	}
}

func TestErrorLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	rec := do(t, api.NewServer(testCache(), nil), http.MethodGet, "/api/cards/1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.RequestID == "" {
		t.Fatal("error body has no request_id")
	}

	found := false
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var line map[string]any
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			continue
		}
		if line["msg"] != "request error" {
			continue
		}
		found = true
		if line["request_id"] != body.RequestID {
			t.Errorf("logged request_id = %v, want %q", line["request_id"], body.RequestID)
		}
	}
	if !found {
		t.Errorf("no request error logged:\n%s", buf.String())
	}
}
