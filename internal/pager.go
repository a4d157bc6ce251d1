package internal

// Pager walks the messages of one conversation (or all of them) page by
// page in creation order. A short page ends the walk.
type Pager struct {
	storage        *Storage
	conversationID string
	pageSize       int
	offset         int
	done           bool
}

// NewPager creates a Pager; pageSize <= 0 uses DefaultPageSize
func NewPager(storage *Storage, conversationID string, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{storage: storage, conversationID: conversationID, pageSize: pageSize}
}

// Next returns the next page of raw rows. It returns an empty slice once
// the walk is done.
func (p *Pager) Next() ([]MessageRow, error) {
	if p.done {
		return []MessageRow{}, nil
	}
	rows, err := p.storage.ListRows(p.conversationID, p.offset, p.pageSize)
	if err != nil {
		return nil, err
	}
	p.offset += len(rows)
	if len(rows) < p.pageSize {
		p.done = true
	}
	return rows, nil
}

// Done reports whether the last page has been returned
func (p *Pager) Done() bool {
	return p.done
}

// Offset returns how many rows have been fetched so far
func (p *Pager) Offset() int {
	return p.offset
}

// Each calls fn with every non-empty page until the walk is done or fn
// returns an error
func (p *Pager) Each(fn func([]MessageRow) error) error {
	for !p.done {
		rows, err := p.Next()
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}
		if err := fn(rows); err != nil {
			return err
		}
	}
	return nil
}
