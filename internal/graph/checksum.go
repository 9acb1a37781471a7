package graph

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Checksum hashes everything Step application can change: node order,
// values, states, positions, and edge structure. Edges are hashed sorted
// by id so that remove/re-add cycles (parent relinking) cannot disturb
// the digest. Styles are cosmetic and excluded.
func (d *Dataset) Checksum() uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeF := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	writeS := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.WriteString(s)
	}
	for _, n := range d.nodes {
		writeS(n.ID)
		writeS(n.Label)
		writeF(n.Value)
		writeF(n.Position.X)
		writeF(n.Position.Y)
		writeF(n.Position.Z)
		h.Write([]byte{byte(n.State)})
	}
	ids := make([]string, len(d.edges))
	for i, e := range d.edges {
		ids[i] = e.ID
	}
	sort.Strings(ids)
	for _, id := range ids {
		e, _ := d.edgeIdx.Get(id)
		writeS(e.ID)
		writeS(e.Source)
		writeS(e.Target)
		writeF(e.Weight)
		dir := byte(0)
		if e.Directed {
			dir = 1
		}
		h.Write([]byte{dir, byte(e.State)})
	}
	return h.Sum64()
}
