package domain

type Page struct {
	Number int
	Size   int
}

func NewPage(pageNumber, pageSize int) Page {
	pNumber := 1
	if pageNumber > 0 {
		pNumber = pageNumber
	}

	pSize := 10
	if pageSize > 0 {
		pSize = pageSize
	}

	return Page{
		Number: pNumber,
		Size:   pSize,
	}
}

// Bounds returns the [start, end) indexes of the page within a list of
// length n. A nil page selects the whole list.
func (p *Page) Bounds(n int) (int, int) {
	if p == nil {
		return 0, n
	}
	start := (p.Number - 1) * p.Size
	if start > n {
		start = n
	}
	end := start + p.Size
	if end > n {
		end = n
	}
	return start, end
}
