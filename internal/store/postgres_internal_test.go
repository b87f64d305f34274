package store

import (
	"testing"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

func TestSetRows_Nulls(t *testing.T) {
	rows := setRows([]catalog.CardSet{
		{Name: "LOB", Date: "2002-03-08", Code: "LOB", CardCount: catalog.Int32(126)},
		{Name: "Bare"},
	})
	if len(rows) != 2 || len(rows[0]) != len(setColumns) {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][3] != int32(126) {
		t.Errorf("card count = %#v, want int32(126)", rows[0][3])
	}
	for i := 1; i < len(setColumns); i++ {
		if rows[1][i] != nil {
			t.Errorf("column %s = %#v, want nil", setColumns[i], rows[1][i])
		}
	}
}

func TestCardRows_ColumnOrder(t *testing.T) {
	rows := cardRows([]catalog.Card{{
		ID: 7, Name: "N", Type: "T", Desc: "D",
		Atk: catalog.Int32(1), Def: catalog.Int32(2), Level: catalog.Int32(3),
		Race: "R", Attribute: "A", Archetype: "AR",
		Scale: catalog.Int32(4), LinkRating: catalog.Int32(5),
	}})
	want := []any{int64(7), "N", "T", "D", int32(1), int32(2), int32(3), "R", "A", "AR", int32(4), int32(5)}
	if len(rows) != 1 || len(rows[0]) != len(cardColumns) {
		t.Fatalf("rows = %v", rows)
	}
	for i := range want {
		if rows[0][i] != want[i] {
			t.Errorf("column %s = %#v, want %#v", cardColumns[i], rows[0][i], want[i])
		}
	}
}

func TestSetContentRows(t *testing.T) {
	rows := setContentRows([]catalog.SetContent{{CardID: 1, SetName: "SET1"}})
	if rows[0][0] != int64(1) || rows[0][1] != "SET1" || rows[0][2] != nil {
		t.Errorf("row = %#v", rows[0])
	}
}

func TestSchema_DropsBeforeCreate(t *testing.T) {
	seenCreate := false
	for _, stmt := range schema {
		switch {
		case len(stmt) >= 4 && stmt[:4] == "DROP":
			if seenCreate {
				t.Error("DROP after CREATE in schema")
			}
		case len(stmt) >= 6 && stmt[:6] == "CREATE":
			seenCreate = true
		}
	}
	if !seenCreate {
		t.Error("schema creates no tables")
	}
}
