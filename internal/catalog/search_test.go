package catalog_test

import (
	"testing"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

func sampleCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Banlists: []catalog.BanlistEntry{
			{List: "2024.01 TCG", Card: "14558127", CardID: 14558127, Limit: 3, Line: "14558127 3"},
			{List: "2024.01 TCG", Card: "Dark Magician", Limit: 1, Line: "Dark Magician 1"},
			{List: "2023.10 TCG", Card: "14558127", CardID: 14558127, Limit: 1, Line: "14558127 1"},
		},
		Cards: []catalog.Card{
			{ID: 89631139, Name: "Blue-Eyes White Dragon", Type: "Normal Monster", Desc: "This legendary dragon", Race: "Dragon", Attribute: "LIGHT", Archetype: "Blue-Eyes"},
			{ID: 46986414, Name: "Dark Magician", Type: "Normal Monster", Desc: "The ultimate wizard", Race: "Spellcaster", Attribute: "DARK", Archetype: "Dark Magician"},
			{ID: 14558127, Name: "Ash Blossom & Joyous Spring", Type: "Effect Monster", Desc: "negate", Race: "Zombie", Attribute: "FIRE"},
			{ID: 83764718, Name: "Monster Reborn", Type: "Spell Card", Desc: "Target 1 monster in either GY", Race: "Normal"},
		},
		SetContents: []catalog.SetContent{
			{CardID: 89631139, SetName: "Legend of Blue Eyes White Dragon", Rarity: "Ultra Rare"},
			{CardID: 46986414, SetName: "Legend of Blue Eyes White Dragon", Rarity: "Ultra Rare"},
			{CardID: 83764718, SetName: "Legend of Blue Eyes White Dragon", Rarity: "Ultra Rare"},
			{CardID: 83764718, SetName: "Starter Deck: Yugi", Rarity: "Common"},
		},
		Sets: []catalog.CardSet{
			{Name: "Legend of Blue Eyes White Dragon", Code: "LOB", CardIDs: []int64{89631139, 46986414, 83764718}},
			{Name: "Starter Deck: Yugi", Code: "SDY", CardIDs: []int64{83764718}},
		},
	}
}

func ids(cards []catalog.Card) []int64 {
	out := make([]int64, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestFilter_Empty(t *testing.T) {
	got := catalog.Filter{}.Apply(sampleCatalog())
	if len(got) != 4 {
		t.Errorf("empty filter should return all cards, got %v", ids(got))
	}
}

func TestFilter_Search(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"name", "blue-eyes", 1},
		{"case folded", "DARK MAGICIAN", 1},
		{"description", "wizard", 1},
		{"archetype", "blue", 1},
		{"no match", "zzznomatch", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.Filter{Search: tt.search}.Apply(sampleCatalog())
			if len(got) != tt.want {
				t.Errorf("Search %q: got %v, want %d results", tt.search, ids(got), tt.want)
			}
		})
	}
}

func TestFilter_TypeSubstring(t *testing.T) {
	got := catalog.Filter{Type: "monster"}.Apply(sampleCatalog())
	if len(got) != 3 {
		t.Errorf("type filter: got %v", ids(got))
	}
}

func TestFilter_Set(t *testing.T) {
	got := catalog.Filter{Set: "starter deck: yugi"}.Apply(sampleCatalog())
	if len(got) != 1 || got[0].ID != 83764718 {
		t.Errorf("set filter: got %v", ids(got))
	}
}

func TestFilter_Combined(t *testing.T) {
	f := catalog.Filter{Set: "Legend of Blue Eyes White Dragon", Attribute: "dark"}
	got := f.Apply(sampleCatalog())
	if len(got) != 1 || got[0].ID != 46986414 {
		t.Errorf("combined filter: got %v", ids(got))
	}
}

func TestFilter_Limit(t *testing.T) {
	got := catalog.Filter{Limit: 2}.Apply(sampleCatalog())
	if len(got) != 2 {
		t.Errorf("limit: got %d results", len(got))
	}
}

func TestFilter_NilCatalog(t *testing.T) {
	if got := (catalog.Filter{Search: "x"}).Apply(nil); got != nil {
		t.Errorf("nil catalog should yield nil, got %v", got)
	}
}

func TestCardByID(t *testing.T) {
	c := sampleCatalog()
	if card := c.CardByID(46986414); card == nil || card.Name != "Dark Magician" {
		t.Errorf("CardByID = %+v", card)
	}
	if c.CardByID(1) != nil {
		t.Error("CardByID should be nil for missing id")
	}
}

func TestSetByName(t *testing.T) {
	c := sampleCatalog()
	if s := c.SetByName("starter deck: yugi"); s == nil || s.Code != "SDY" {
		t.Errorf("SetByName = %+v", s)
	}
	if c.SetByName("nope") != nil {
		t.Error("SetByName should be nil for missing set")
	}
}

func TestSetsForCard(t *testing.T) {
	got := sampleCatalog().SetsForCard(83764718)
	if len(got) != 2 {
		t.Errorf("SetsForCard = %+v, want 2 entries", got)
	}
}

func TestBanStatus(t *testing.T) {
	c := sampleCatalog()
	ash := *c.CardByID(14558127)
	if got := c.BanStatus(ash); len(got) != 2 {
		t.Errorf("BanStatus(ash) = %+v, want 2 entries (by id)", got)
	}
	dm := *c.CardByID(46986414)
	if got := c.BanStatus(dm); len(got) != 1 || got[0].Limit != 1 {
		t.Errorf("BanStatus(dm) = %+v, want 1 entry (by name)", got)
	}
}

func TestBanlistNames(t *testing.T) {
	c := sampleCatalog()
	names := c.BanlistNames()
	if len(names) != 2 || names[0] != "2024.01 TCG" || names[1] != "2023.10 TCG" {
		t.Errorf("BanlistNames = %v", names)
	}
	if got := c.Banlist("2023.10 TCG"); len(got) != 1 {
		t.Errorf("Banlist = %+v", got)
	}
}
