package catalog

import (
	"errors"
	"slices"
)

var errTrailing = errors.New("unexpected data after JSON document")

// SetMembers maps a set name to the ids of cards printed in it, in
// first-seen order without duplicates.
type SetMembers map[string][]int64

func (m SetMembers) add(set string, id int64) {
	if slices.Contains(m[set], id) {
		return
	}
	m[set] = append(m[set], id)
}

// CardInfo is the normalized result of a card-info payload.
type CardInfo struct {
	Cards       []Card
	SetContents []SetContent
	Members     SetMembers
}

// ParseCards normalizes the card-info payload: an object whose "data"
// array holds card records, each with a nested "card_sets" array.
//
// Missing or mistyped fields become zero/nil values. A card without an id
// is an error, since the id is its key. Later duplicates of an id are
// dropped together with their set memberships.
func ParseCards(raw []byte) (*CardInfo, error) {
	var v any
	if err := decodeJSON(raw, &v); err != nil {
		return nil, &ParseError{Kind: KindCards, Index: -1, Msg: "invalid JSON document", Err: err}
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseError{Kind: KindCards, Index: -1, Msg: "expected an object with a data array"}
	}
	items, ok := doc["data"].([]any)
	if !ok {
		return nil, &ParseError{Kind: KindCards, Index: -1, Msg: `missing "data" array`}
	}
	recs, bad := records(items)
	if bad >= 0 {
		return nil, &ParseError{Kind: KindCards, Index: bad, Msg: "card is not an object"}
	}

	info := &CardInfo{Members: SetMembers{}}
	seen := make(map[int64]bool, len(recs))

	for i, r := range recs {
		id, ok := r.integer("id")
		if !ok {
			return nil, &ParseError{Kind: KindCards, Index: i, Msg: "card has no numeric id"}
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		info.Cards = append(info.Cards, Card{
			ID:         id,
			Name:       r.str("name"),
			Type:       r.str("type"),
			Desc:       r.str("desc"),
			Atk:        r.int32Ptr("atk"),
			Def:        r.int32Ptr("def"),
			Level:      r.int32Ptr("level"),
			Race:       r.str("race"),
			Attribute:  r.str("attribute"),
			Archetype:  r.str("archetype"),
			Scale:      r.int32Ptr("scale"),
			LinkRating: r.int32Ptr("linkval"),
		})

		sets, _ := r["card_sets"].([]any)
		for _, s := range sets {
			sm, ok := s.(map[string]any)
			if !ok {
				continue
			}
			sr := record(sm)
			name := sr.str("set_name")
			info.SetContents = append(info.SetContents, SetContent{
				CardID:  id,
				SetName: name,
				Rarity:  sr.str("set_rarity"),
			})
			if name != "" {
				info.Members.add(name, id)
			}
		}
	}

	return info, nil
}

// ParseSets normalizes the card-set list payload, a top-level array of
// set records. members, when non-nil, supplies each set's card ids.
//
// Missing fields never fail the parse. A set without a name cannot be
// keyed and is skipped; later duplicates of a name are dropped.
func ParseSets(raw []byte, members SetMembers) ([]CardSet, error) {
	var v any
	if err := decodeJSON(raw, &v); err != nil {
		return nil, &ParseError{Kind: KindSets, Index: -1, Msg: "invalid JSON document", Err: err}
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &ParseError{Kind: KindSets, Index: -1, Msg: "expected a JSON array"}
	}
	recs, bad := records(items)
	if bad >= 0 {
		return nil, &ParseError{Kind: KindSets, Index: bad, Msg: "set is not an object"}
	}

	var sets []CardSet
	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		name := r.str("set_name")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		set := CardSet{
			Name:      name,
			Date:      r.str("tcg_date"),
			Code:      r.str("set_code"),
			CardCount: r.int32Ptr("num_of_cards"),
		}
		if ids := members[name]; len(ids) > 0 {
			set.CardIDs = append([]int64(nil), ids...)
		}
		sets = append(sets, set)
	}
	return sets, nil
}
