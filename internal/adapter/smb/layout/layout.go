// Package layout resolves where the variable-length sections of an SMB1
// message land on the wire.
//
// SMB1 transactions state the position of their parameter and data payloads
// as absolute offsets from the first header byte, and require each payload to
// start on a 4-byte boundary. The padding in front of a payload is never
// transmitted as a count: it is implied by where the previous field ended.
// Encoder and decoder therefore have to agree on one left-to-right cursor
// walk, which is what Resolve implements.
//
//	placements := layout.Resolve(nameOffset+1,
//	    layout.Region{Length: len(params)},
//	    layout.Region{Length: len(data)},
//	)
//	// placements[0].Pad is pad1, placements[0].Offset is ParameterOffset
//	// placements[1].Pad is pad2, placements[1].Offset is DataOffset
package layout

// Alignment is the boundary every transaction payload starts on.
const Alignment = 4

// Region is a variable-length byte section to be placed after a cursor.
type Region struct {
	// Length is the number of content bytes in the region.
	Length int
}

// Placement is where a Region landed.
type Placement struct {
	// Pad is the number of zero bytes written before the region (0..Alignment-1).
	Pad int

	// Offset is the absolute offset of the first content byte.
	Offset int

	// Length echoes the region's content length.
	Length int
}

// End returns the offset one past the last content byte.
func (p Placement) End() int {
	return p.Offset + p.Length
}

// PadTo returns the number of bytes needed to advance offset to the next
// multiple of alignment. It returns 0 when offset is already aligned.
func PadTo(offset, alignment int) int {
	return (alignment - offset%alignment) % alignment
}

// Aligned reports whether offset is a multiple of Alignment.
func Aligned(offset int) bool {
	return offset%Alignment == 0
}

// Resolve walks a cursor from base across the regions in order. For each
// region it inserts the minimal padding that puts the region on an Alignment
// boundary, records the resulting offset, then advances past the content.
//
// A region's placement depends only on base and the lengths of the regions
// before it. Negative bases or lengths are treated as zero.
func Resolve(base int, regions ...Region) []Placement {
	cursor := max(base, 0)
	placements := make([]Placement, len(regions))
	for i, region := range regions {
		pad := PadTo(cursor, Alignment)
		cursor += pad
		length := max(region.Length, 0)
		placements[i] = Placement{Pad: pad, Offset: cursor, Length: length}
		cursor += length
	}
	return placements
}

// End returns the cursor after the last placement, or base when there are
// none.
func End(base int, placements []Placement) int {
	if len(placements) == 0 {
		return base
	}
	return placements[len(placements)-1].End()
}
