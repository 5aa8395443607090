package gt1z

// Segment is a maximal run of present cells within a single 256-byte
// page: 1 <= Length <= 256 and Addr+Length never crosses a page
// boundary (spec.md §3).
type Segment struct {
	Addr   int
	Length int
}

// Segments enumerates img's segments in ascending-address order: for
// each page, the maximal runs of present cells (spec.md §4.2).
func (img *Image) Segments() []Segment {
	var segs []Segment
	for page := 0; page < 65536; page += 256 {
		al := 0
		for al < 256 {
			for al < 256 && img.cells[page+al] == absent {
				al++
			}
			s := al
			if al < 256 {
				for al < 256 && img.cells[page+al] != absent {
					al++
				}
				segs = append(segs, Segment{Addr: page + s, Length: al - s})
			}
		}
	}
	return segs
}
