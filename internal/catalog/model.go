package catalog

// Card is one entry of the provider's card-info payload.
// Nullable numeric stats are nil when the provider omits them.
type Card struct {
	ID         int64  `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Desc       string `json:"desc" yaml:"desc"`
	Atk        *int32 `json:"atk,omitempty" yaml:"atk,omitempty"`
	Def        *int32 `json:"def,omitempty" yaml:"def,omitempty"`
	Level      *int32 `json:"level,omitempty" yaml:"level,omitempty"`
	Race       string `json:"race,omitempty" yaml:"race,omitempty"`
	Attribute  string `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Archetype  string `json:"archetype,omitempty" yaml:"archetype,omitempty"`
	Scale      *int32 `json:"scale,omitempty" yaml:"scale,omitempty"`
	LinkRating *int32 `json:"linkval,omitempty" yaml:"linkval,omitempty"`
}

// CardSet is one product/set record. Name is the unique key.
type CardSet struct {
	Name      string  `json:"set_name" yaml:"set_name"`
	Date      string  `json:"tcg_date,omitempty" yaml:"tcg_date,omitempty"`
	Code      string  `json:"set_code,omitempty" yaml:"set_code,omitempty"`
	CardCount *int32  `json:"num_of_cards,omitempty" yaml:"num_of_cards,omitempty"`
	CardIDs   []int64 `json:"card_ids,omitempty" yaml:"card_ids,omitempty"`
}

// SetContent links a card to a set it was printed in.
type SetContent struct {
	CardID  int64  `json:"card_id" yaml:"card_id"`
	SetName string `json:"set_name" yaml:"set_name"`
	Rarity  string `json:"rarity" yaml:"rarity"`
}

// BanlistEntry is one restriction line of a ban list.
//
// Card is the card token as written (an id or a name). CardID is set when
// that token is numeric and zero otherwise.
type BanlistEntry struct {
	List   string `json:"list,omitempty" yaml:"list,omitempty"`
	Card   string `json:"card" yaml:"card"`
	CardID int64  `json:"card_id,omitempty" yaml:"card_id,omitempty"`
	Limit  int32  `json:"limit" yaml:"limit"`
	Note   string `json:"note,omitempty" yaml:"note,omitempty"`
	Line   string `json:"line" yaml:"line"`
}

// Catalog is one synchronized generation of the card database.
// A Catalog handed out by the cache must be treated as read-only.
type Catalog struct {
	Banlists    []BanlistEntry `json:"banlists" yaml:"banlists"`
	Cards       []Card         `json:"cards" yaml:"cards"`
	SetContents []SetContent   `json:"set_contents" yaml:"set_contents"`
	Sets        []CardSet      `json:"sets" yaml:"sets"`
}

// Counts summarizes record totals per collection.
type Counts struct {
	Banlists    int `json:"banlists"`
	Cards       int `json:"cards"`
	SetContents int `json:"set_contents"`
	Sets        int `json:"sets"`
}

// Counts returns the number of records in each collection.
func (c *Catalog) Counts() Counts {
	if c == nil {
		return Counts{}
	}
	return Counts{
		Banlists:    len(c.Banlists),
		Cards:       len(c.Cards),
		SetContents: len(c.SetContents),
		Sets:        len(c.Sets),
	}
}

// Empty reports whether the catalog holds no records at all.
func (c *Catalog) Empty() bool {
	return c.Counts() == Counts{}
}

// Clone returns a deep copy that callers may modify freely.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}
	out := &Catalog{
		Banlists:    append([]BanlistEntry(nil), c.Banlists...),
		SetContents: append([]SetContent(nil), c.SetContents...),
	}
	if c.Cards != nil {
		out.Cards = make([]Card, len(c.Cards))
		for i, card := range c.Cards {
			card.Atk = cloneInt(card.Atk)
			card.Def = cloneInt(card.Def)
			card.Level = cloneInt(card.Level)
			card.Scale = cloneInt(card.Scale)
			card.LinkRating = cloneInt(card.LinkRating)
			out.Cards[i] = card
		}
	}
	if c.Sets != nil {
		out.Sets = make([]CardSet, len(c.Sets))
		for i, s := range c.Sets {
			s.CardCount = cloneInt(s.CardCount)
			s.CardIDs = append([]int64(nil), s.CardIDs...)
			out.Sets[i] = s
		}
	}
	return out
}

// Equal reports whether a and b hold the same records in the same order.
// Nil and empty collections compare equal.
func Equal(a, b *Catalog) bool {
	if a == nil || b == nil {
		return a.Empty() && b.Empty()
	}
	if a.Counts() != b.Counts() {
		return false
	}
	for i := range a.Banlists {
		if a.Banlists[i] != b.Banlists[i] {
			return false
		}
	}
	for i := range a.SetContents {
		if a.SetContents[i] != b.SetContents[i] {
			return false
		}
	}
	for i := range a.Cards {
		if !cardEqual(a.Cards[i], b.Cards[i]) {
			return false
		}
	}
	for i := range a.Sets {
		if !setEqual(a.Sets[i], b.Sets[i]) {
			return false
		}
	}
	return true
}

func cardEqual(a, b Card) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Type == b.Type &&
		a.Desc == b.Desc &&
		a.Race == b.Race &&
		a.Attribute == b.Attribute &&
		a.Archetype == b.Archetype &&
		intEqual(a.Atk, b.Atk) &&
		intEqual(a.Def, b.Def) &&
		intEqual(a.Level, b.Level) &&
		intEqual(a.Scale, b.Scale) &&
		intEqual(a.LinkRating, b.LinkRating)
}

func setEqual(a, b CardSet) bool {
	if a.Name != b.Name || a.Date != b.Date || a.Code != b.Code || !intEqual(a.CardCount, b.CardCount) {
		return false
	}
	if len(a.CardIDs) != len(b.CardIDs) {
		return false
	}
	for i := range a.CardIDs {
		if a.CardIDs[i] != b.CardIDs[i] {
			return false
		}
	}
	return true
}

func intEqual(a, b *int32) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneInt(p *int32) *int32 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Int32 returns a pointer to v, for building nullable fields.
func Int32(v int32) *int32 {
	return &v
}
