// Package codec serializes a catalog into a compact binary cache.
//
// Layout (all integers big-endian, fixed width):
//
//	magic "CCAT" | u16 format version
//	u64 n, n × banlist entry
//	u64 n, n × card
//	u64 n, n × set content
//	u64 n, n × card set
//
// Strings are u64 length + bytes. Nullable int32 fields are a u8 presence
// tag followed by four bytes, zero when absent, so every record of a kind
// has a fixed shape. The same catalog always encodes to the same bytes.
package codec

import (
	"encoding/binary"
	"math"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

// FormatVersion is written after the magic; Decode rejects other versions.
const FormatVersion uint16 = 1

var magic = [4]byte{'C', 'C', 'A', 'T'}

// Encode serializes c. A nil catalog encodes as an empty one.
func Encode(c *catalog.Catalog) []byte {
	if c == nil {
		c = &catalog.Catalog{}
	}
	w := &writer{buf: make([]byte, 0, estimate(c))}
	w.buf = append(w.buf, magic[:]...)
	w.u16(FormatVersion)

	w.u64(uint64(len(c.Banlists)))
	for _, e := range c.Banlists {
		w.str(e.List)
		w.str(e.Card)
		w.i64(e.CardID)
		w.i32(e.Limit)
		w.str(e.Note)
		w.str(e.Line)
	}

	w.u64(uint64(len(c.Cards)))
	for _, card := range c.Cards {
		w.i64(card.ID)
		w.str(card.Name)
		w.str(card.Type)
		w.str(card.Desc)
		w.optI32(card.Atk)
		w.optI32(card.Def)
		w.optI32(card.Level)
		w.str(card.Race)
		w.str(card.Attribute)
		w.str(card.Archetype)
		w.optI32(card.Scale)
		w.optI32(card.LinkRating)
	}

	w.u64(uint64(len(c.SetContents)))
	for _, sc := range c.SetContents {
		w.i64(sc.CardID)
		w.str(sc.SetName)
		w.str(sc.Rarity)
	}

	w.u64(uint64(len(c.Sets)))
	for _, s := range c.Sets {
		w.str(s.Name)
		w.str(s.Date)
		w.str(s.Code)
		w.optI32(s.CardCount)
		w.u64(uint64(len(s.CardIDs)))
		for _, id := range s.CardIDs {
			w.i64(id)
		}
	}

	return w.buf
}

// Minimum encoded sizes, used to reject impossible counts before allocating.
const (
	minBanlistSize    = 8 + 8 + 8 + 4 + 8 + 8
	minCardSize       = 8 + 3*8 + 3*5 + 3*8 + 2*5
	minSetContentSize = 8 + 8 + 8
	minSetSize        = 3*8 + 5 + 8
)

// Decode parses a cache produced by Encode. On any error it returns a
// *DecodeError and no catalog.
func Decode(data []byte) (*catalog.Catalog, error) {
	r := &reader{data: data, section: "header"}

	var m [4]byte
	copy(m[:], r.take(4))
	if r.err != nil {
		return nil, r.fail()
	}
	if m != magic {
		r.err = ErrBadMagic
		r.off = 0
		return nil, r.fail()
	}
	if v := r.u16(); r.err == nil && v != FormatVersion {
		r.err = ErrUnsupportedVersion
	}
	if r.err != nil {
		return nil, r.fail()
	}

	c := &catalog.Catalog{}

	r.section = "banlists"
	if n := r.count(minBanlistSize); n > 0 {
		c.Banlists = make([]catalog.BanlistEntry, n)
		for i := range c.Banlists {
			c.Banlists[i] = catalog.BanlistEntry{
				List:   r.str(),
				Card:   r.str(),
				CardID: r.i64(),
				Limit:  r.i32(),
				Note:   r.str(),
				Line:   r.str(),
			}
		}
	}

	r.section = "cards"
	if n := r.count(minCardSize); n > 0 {
		c.Cards = make([]catalog.Card, n)
		for i := range c.Cards {
			c.Cards[i] = catalog.Card{
				ID:         r.i64(),
				Name:       r.str(),
				Type:       r.str(),
				Desc:       r.str(),
				Atk:        r.optI32(),
				Def:        r.optI32(),
				Level:      r.optI32(),
				Race:       r.str(),
				Attribute:  r.str(),
				Archetype:  r.str(),
				Scale:      r.optI32(),
				LinkRating: r.optI32(),
			}
		}
	}

	r.section = "set contents"
	if n := r.count(minSetContentSize); n > 0 {
		c.SetContents = make([]catalog.SetContent, n)
		for i := range c.SetContents {
			c.SetContents[i] = catalog.SetContent{
				CardID:  r.i64(),
				SetName: r.str(),
				Rarity:  r.str(),
			}
		}
	}

	r.section = "sets"
	if n := r.count(minSetSize); n > 0 {
		c.Sets = make([]catalog.CardSet, n)
		for i := range c.Sets {
			s := catalog.CardSet{
				Name:      r.str(),
				Date:      r.str(),
				Code:      r.str(),
				CardCount: r.optI32(),
			}
			if k := r.count(8); k > 0 {
				s.CardIDs = make([]int64, k)
				for j := range s.CardIDs {
					s.CardIDs[j] = r.i64()
				}
			}
			c.Sets[i] = s
		}
	}

	if r.err == nil && r.off != len(r.data) {
		r.section = "trailer"
		r.err = ErrTrailingData
	}
	if r.err != nil {
		return nil, r.fail()
	}
	return c, nil
}

func estimate(c *catalog.Catalog) int {
	n := 6 + 4*8
	n += len(c.Banlists) * 64
	n += len(c.Cards) * 256
	n += len(c.SetContents) * 48
	n += len(c.Sets) * 64
	return n
}

type writer struct {
	buf []byte
}

func (w *writer) u16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *writer) u64(v uint64) { w.buf = binary.BigEndian.AppendUint64(w.buf, v) }
func (w *writer) i64(v int64)  { w.u64(uint64(v)) }
func (w *writer) i32(v int32)  { w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v)) }

func (w *writer) str(s string) {
	w.u64(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) optI32(p *int32) {
	if p == nil {
		w.buf = append(w.buf, 0)
		w.i32(0)
		return
	}
	w.buf = append(w.buf, 1)
	w.i32(*p)
}

// reader records the first error and turns every later read into a no-op,
// so Decode can check once per section.
type reader struct {
	data    []byte
	off     int
	err     error
	errOff  int
	section string
	failSec string
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.data)-r.off {
		r.setErr(ErrTruncated)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) setErr(err error) {
	if r.err == nil {
		r.err = err
		r.errOff = r.off
		r.failSec = r.section
	}
}

func (r *reader) fail() error {
	off, sec := r.errOff, r.failSec
	if sec == "" {
		off, sec = r.off, r.section
	}
	return &DecodeError{Offset: off, Section: sec, Err: r.err}
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *reader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (r *reader) i64() int64 { return int64(r.u64()) }

func (r *reader) i32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

func (r *reader) str() string {
	n := r.u64()
	if r.err != nil {
		return ""
	}
	if n > uint64(len(r.data)-r.off) {
		r.setErr(ErrTruncated)
		return ""
	}
	return string(r.take(int(n)))
}

func (r *reader) optI32() *int32 {
	tag := r.take(1)
	v := r.i32()
	if r.err != nil {
		return nil
	}
	switch tag[0] {
	case 0:
		return nil
	case 1:
		return &v
	default:
		r.setErr(ErrInvalidTag)
		return nil
	}
}

// count reads a collection length and rejects values that could not fit
// in the remaining input at minSize bytes per element.
func (r *reader) count(minSize int) int {
	n := r.u64()
	if r.err != nil {
		return 0
	}
	remaining := uint64(len(r.data) - r.off)
	if n > math.MaxInt32 || n*uint64(minSize) > remaining {
		r.setErr(ErrTruncated)
		return 0
	}
	return int(n)
}
