package filter

// Pager tracks how many filtered reports are visible.
// After k calls to LoadMore the visible count is min(P + k*P, N).
type Pager struct {
	pageSize int
	pages    int
	total    int
}

// NewPager creates a pager; sizes below one are treated as one.
func NewPager(pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Pager{pageSize: pageSize, pages: 1}
}

// SetTotal updates the filtered result length without resetting.
func (p *Pager) SetTotal(n int) {
	if n < 0 {
		n = 0
	}
	p.total = n
}

// Visible returns the number of reports to show.
func (p *Pager) Visible() int {
	v := p.pages * p.pageSize
	if v > p.total {
		return p.total
	}
	return v
}

// HasMore reports whether LoadMore would reveal anything.
func (p *Pager) HasMore() bool {
	return p.pages*p.pageSize < p.total
}

// LoadMore reveals one more page, capped at the total.
func (p *Pager) LoadMore() {
	if p.HasMore() {
		p.pages++
	}
}

// Reset returns the visible count to one page.
func (p *Pager) Reset() {
	p.pages = 1
}
