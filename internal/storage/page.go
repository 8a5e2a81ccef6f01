package storage

const (
	PageSize      = 4096
	TableMaxPages = 100

	RowsPerPage  = PageSize / RowSize
	TableMaxRows = RowsPerPage * TableMaxPages
)

// Page holds the row slots of one PageSize region of the file.
// A nil slot has not been materialized yet
type Page struct {
	ID    int
	Slots [RowsPerPage][]byte
}

func NewPage(id int) *Page {
	return &Page{ID: id}
}

// Slot returns the buffer for slot i, allocating a zero-filled one if needed
func (p *Page) Slot(i int) []byte {
	if p.Slots[i] == nil {
		p.Slots[i] = make([]byte, RowSize)
	}
	return p.Slots[i]
}

func (p *Page) Materialized(i int) bool {
	return p.Slots[i] != nil
}

// encode lays the slots out back to back in a PageSize buffer.
// Unmaterialized slots and the tail padding stay zero
func (p *Page) encode() []byte {
	buf := make([]byte, PageSize)
	for i, slot := range p.Slots {
		if slot != nil {
			copy(buf[i*RowSize:(i+1)*RowSize], slot)
		}
	}
	return buf
}

// decode materializes every chunk of buf that is not all zero bytes
func (p *Page) decode(buf []byte) {
	for i := 0; i < RowsPerPage; i++ {
		chunk := buf[i*RowSize : (i+1)*RowSize]
		if isZero(chunk) {
			continue
		}
		slot := make([]byte, RowSize)
		copy(slot, chunk)
		p.Slots[i] = slot
	}
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
