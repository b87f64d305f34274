package codec_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/codec"
)

func fullCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Banlists: []catalog.BanlistEntry{
			{List: "2024.01 TCG", Card: "89631139", CardID: 89631139, Limit: 0, Note: "Blue-Eyes", Line: "89631139 0 --Blue-Eyes"},
			{Card: "CardA", Limit: 1, Line: "CardA 1"},
		},
		Cards: []catalog.Card{
			{ID: 89631139, Name: "Blue-Eyes White Dragon", Type: "Normal Monster", Desc: "This legendary dragon",
				Atk: catalog.Int32(3000), Def: catalog.Int32(2500), Level: catalog.Int32(8),
				Race: "Dragon", Attribute: "LIGHT", Archetype: "Blue-Eyes"},
			{ID: 83764718, Name: "Monster Reborn", Type: "Spell Card", Desc: "Target 1 monster"},
			{ID: 5043010, Name: "Firewall Dragon", Type: "Link Monster", Atk: catalog.Int32(0), LinkRating: catalog.Int32(4)},
		},
		SetContents: []catalog.SetContent{
			{CardID: 89631139, SetName: "LOB", Rarity: "Ultra Rare"},
			{CardID: 83764718, SetName: "LOB", Rarity: "Ultra Rare"},
		},
		Sets: []catalog.CardSet{
			{Name: "LOB", Date: "2002-03-08", Code: "LOB", CardCount: catalog.Int32(126), CardIDs: []int64{89631139, 83764718}},
			{Name: "Empty"},
		},
	}
}

func maxWidthCatalog() *catalog.Catalog {
	long := strings.Repeat("ü", 70000)
	return &catalog.Catalog{
		Banlists: []catalog.BanlistEntry{
			{List: long, Card: long, CardID: math.MaxInt64, Limit: math.MaxInt32, Note: long, Line: long},
			{CardID: math.MinInt64, Limit: math.MinInt32},
		},
		Cards: []catalog.Card{{
			ID: math.MaxInt64, Name: long, Type: long, Desc: long,
			Atk: catalog.Int32(math.MaxInt32), Def: catalog.Int32(math.MinInt32), Level: catalog.Int32(-1),
			Race: long, Attribute: long, Archetype: long,
			Scale: catalog.Int32(math.MaxInt32), LinkRating: catalog.Int32(math.MinInt32),
		}},
		SetContents: []catalog.SetContent{{CardID: math.MinInt64, SetName: long, Rarity: long}},
		Sets: []catalog.CardSet{{
			Name: long, Date: long, Code: long, CardCount: catalog.Int32(math.MaxInt32),
			CardIDs: []int64{math.MaxInt64, math.MinInt64, 0},
		}},
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cat  *catalog.Catalog
	}{
		{"empty", &catalog.Catalog{}},
		{"empty slices", &catalog.Catalog{Cards: []catalog.Card{}, Sets: []catalog.CardSet{}}},
		{"full", fullCatalog()},
		{"max width", maxWidthCatalog()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Decode(codec.Encode(tt.cat))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !catalog.Equal(got, tt.cat) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, tt.cat)
			}
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a := codec.Encode(fullCatalog())
	b := codec.Encode(fullCatalog())
	if !bytes.Equal(a, b) {
		t.Error("Encode is not deterministic")
	}

	decoded, err := codec.Decode(a)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(codec.Encode(decoded), a) {
		t.Error("re-encoding a decoded catalog changed the bytes")
	}
}

func TestEncode_NilCatalog(t *testing.T) {
	if !bytes.Equal(codec.Encode(nil), codec.Encode(&catalog.Catalog{})) {
		t.Error("nil catalog should encode like an empty catalog")
	}
}

func TestEncode_Header(t *testing.T) {
	b := codec.Encode(&catalog.Catalog{})
	want := []byte{'C', 'C', 'A', 'T', 0, 1}
	if !bytes.HasPrefix(b, want) {
		t.Errorf("header = %v, want prefix %v", b[:6], want)
	}
	// Header + four zero counts.
	if len(b) != 6+4*8 {
		t.Errorf("empty encoding length = %d, want %d", len(b), 6+4*8)
	}
}

func TestEncode_BigEndianFixedWidth(t *testing.T) {
	c := &catalog.Catalog{SetContents: []catalog.SetContent{{CardID: 1}}}
	b := codec.Encode(c)
	// header(6) + banlists count(8) + cards count(8) + set contents count(8)
	off := 6 + 8 + 8
	if got := b[off : off+8]; !bytes.Equal(got, []byte{0, 0, 0, 0, 0, 0, 0, 1}) {
		t.Errorf("set contents count bytes = %v", got)
	}
	off += 8
	if got := b[off : off+8]; !bytes.Equal(got, []byte{0, 0, 0, 0, 0, 0, 0, 1}) {
		t.Errorf("card id bytes = %v", got)
	}
}

func TestDecode_EveryTruncationFails(t *testing.T) {
	data := codec.Encode(fullCatalog())
	for n := 0; n < len(data); n++ {
		c, err := codec.Decode(data[:n])
		if err == nil {
			t.Fatalf("Decode of %d/%d bytes succeeded", n, len(data))
		}
		if c != nil {
			t.Fatalf("Decode of %d bytes returned a partial catalog", n)
		}
		var de *codec.DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("Decode of %d bytes: expected *DecodeError, got %T", n, err)
		}
		if n >= 6 && !errors.Is(err, codec.ErrTruncated) {
			t.Fatalf("Decode of %d bytes: expected ErrTruncated, got %v", n, err)
		}
	}
}

func TestDecode_BadMagic(t *testing.T) {
	data := codec.Encode(&catalog.Catalog{})
	data[0] = 'X'
	if _, err := codec.Decode(data); !errors.Is(err, codec.ErrBadMagic) {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	data := codec.Encode(&catalog.Catalog{})
	data[5] = 9
	if _, err := codec.Decode(data); !errors.Is(err, codec.ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDecode_TrailingData(t *testing.T) {
	data := append(codec.Encode(fullCatalog()), 0)
	if _, err := codec.Decode(data); !errors.Is(err, codec.ErrTrailingData) {
		t.Errorf("expected ErrTrailingData, got %v", err)
	}
}

func TestDecode_InvalidPresenceTag(t *testing.T) {
	c := &catalog.Catalog{Sets: []catalog.CardSet{{Name: "S", CardCount: catalog.Int32(1)}}}
	data := codec.Encode(c)
	// Sets section: 4 counts before the set, then name(8+1), date(8), code(8).
	off := 6 + 4*8 + 9 + 8 + 8
	if data[off] != 1 {
		t.Fatalf("test offset wrong: byte %d = %d", off, data[off])
	}
	data[off] = 7
	if _, err := codec.Decode(data); !errors.Is(err, codec.ErrInvalidTag) {
		t.Errorf("expected ErrInvalidTag, got %v", err)
	}
}

func TestDecode_HugeCountRejected(t *testing.T) {
	data := codec.Encode(&catalog.Catalog{})
	// Overwrite the banlist count with a huge value.
	for i := 6; i < 14; i++ {
		data[i] = 0xff
	}
	if _, err := codec.Decode(data); !errors.Is(err, codec.ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}
