package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// foldString case-folds s. A Caser is stateful, so each call gets its own.
func foldString(s string) string {
	return cases.Fold().String(s)
}

// Filter applies all non-empty criteria and returns matching cards.
// Comparisons are case-folded.
type Filter struct {
	Search    string // matches name, archetype or description
	Type      string // substring of the card type, e.g. "spell"
	Attribute string
	Race      string
	Archetype string
	Set       string // exact set name
	Limit     int    // 0 = no limit
}

// Apply returns the cards of c matching all non-empty filter fields,
// in catalog order.
func (f Filter) Apply(c *Catalog) []Card {
	if c == nil {
		return nil
	}

	var inSet map[int64]bool
	if f.Set != "" {
		inSet = make(map[int64]bool)
		for _, sc := range c.SetContents {
			if equalFold(sc.SetName, f.Set) {
				inSet[sc.CardID] = true
			}
		}
	}

	search := foldString(f.Search)
	cardType := foldString(f.Type)

	var out []Card
	for _, card := range c.Cards {
		if inSet != nil && !inSet[card.ID] {
			continue
		}
		if f.Type != "" && !strings.Contains(foldString(card.Type), cardType) {
			continue
		}
		if f.Attribute != "" && !equalFold(card.Attribute, f.Attribute) {
			continue
		}
		if f.Race != "" && !equalFold(card.Race, f.Race) {
			continue
		}
		if f.Archetype != "" && !equalFold(card.Archetype, f.Archetype) {
			continue
		}
		if search != "" && !matchesSearch(card, search) {
			continue
		}
		out = append(out, card)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

// CardByID returns the card with the given id, or nil.
func (c *Catalog) CardByID(id int64) *Card {
	if c == nil {
		return nil
	}
	for i := range c.Cards {
		if c.Cards[i].ID == id {
			return &c.Cards[i]
		}
	}
	return nil
}

// SetByName returns the set with the given name (case-folded), or nil.
func (c *Catalog) SetByName(name string) *CardSet {
	if c == nil {
		return nil
	}
	for i := range c.Sets {
		if equalFold(c.Sets[i].Name, name) {
			return &c.Sets[i]
		}
	}
	return nil
}

// SetsForCard returns the set memberships of a card.
func (c *Catalog) SetsForCard(id int64) []SetContent {
	if c == nil {
		return nil
	}
	var out []SetContent
	for _, sc := range c.SetContents {
		if sc.CardID == id {
			out = append(out, sc)
		}
	}
	return out
}

// BanStatus returns the ban list entries that restrict card, matched by id
// or by name.
func (c *Catalog) BanStatus(card Card) []BanlistEntry {
	if c == nil {
		return nil
	}
	var out []BanlistEntry
	for _, e := range c.Banlists {
		if (e.CardID != 0 && e.CardID == card.ID) || (e.CardID == 0 && equalFold(e.Card, card.Name)) {
			out = append(out, e)
		}
	}
	return out
}

// BanlistNames returns the distinct list names in first-seen order.
func (c *Catalog) BanlistNames() []string {
	if c == nil {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for _, e := range c.Banlists {
		if !seen[e.List] {
			seen[e.List] = true
			names = append(names, e.List)
		}
	}
	return names
}

// Banlist returns the entries of the named list.
func (c *Catalog) Banlist(name string) []BanlistEntry {
	if c == nil {
		return nil
	}
	var out []BanlistEntry
	for _, e := range c.Banlists {
		if e.List == name {
			out = append(out, e)
		}
	}
	return out
}

func equalFold(a, b string) bool {
	return foldString(a) == foldString(b)
}

func matchesSearch(card Card, q string) bool {
	if strings.Contains(foldString(card.Name), q) {
		return true
	}
	if strings.Contains(foldString(card.Archetype), q) {
		return true
	}
	return strings.Contains(foldString(card.Desc), q)
}
