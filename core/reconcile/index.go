package reconcile

import (
	"npi-linker/core/normalize"
	"npi-linker/core/reference"
)

type nameKey struct {
	first, last string
}

// chunkIndex holds the lookups of a single chunk. It is built once per
// chunk and dropped with it.
type chunkIndex struct {
	// licenses maps a normalized license number to the first row carrying it.
	licenses map[string]int
	// names maps a normalized (first, last) pair to its rows in order.
	names map[nameKey][]int
	// phones caches normalized row phones by row position.
	phones map[int][]string
}

func buildIndex(rows []reference.Row, licenses normalize.LicenseNormalizer) *chunkIndex {
	idx := &chunkIndex{
		licenses: make(map[string]int),
		names:    make(map[nameKey][]int),
		phones:   make(map[int][]string),
	}
	for pos := range rows {
		row := &rows[pos]
		for i := range row.LicenseNumbers {
			f := row.LicenseNumbers[i]
			if f.Blank() {
				continue
			}
			n := licenses.Normalize(f.Value)
			if n == "" {
				continue
			}
			if _, ok := idx.licenses[n]; !ok {
				idx.licenses[n] = pos
			}
		}

		first := normalize.Name(row.FirstName.Value)
		last := normalize.Name(row.LastName.Value)
		if first == "" || last == "" {
			continue
		}
		key := nameKey{first: first, last: last}
		idx.names[key] = append(idx.names[key], pos)
	}
	return idx
}

func (idx *chunkIndex) rowPhones(rows []reference.Row, pos int) []string {
	if p, ok := idx.phones[pos]; ok {
		return p
	}
	p := rows[pos].Phones()
	idx.phones[pos] = p
	return p
}
