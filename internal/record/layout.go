package record

const (
	// IDSize is the on-disk width of Row.ID.
	IDSize = 4

	DefaultUsernameCap = 32
	DefaultEmailCap    = 255
)

// DefaultLayout gives a 293 byte row: 4 + (32+1) + (255+1).
var DefaultLayout = Layout{UsernameCap: DefaultUsernameCap, EmailCap: DefaultEmailCap}

// Layout describes the fixed-width row format.
// Each string field reserves one extra byte for the NUL terminator.
type Layout struct {
	UsernameCap int
	EmailCap    int
}

func (l Layout) IDOffset() int       { return 0 }
func (l Layout) UsernameOffset() int { return IDSize }
func (l Layout) UsernameSize() int   { return l.UsernameCap + 1 }
func (l Layout) EmailOffset() int    { return l.UsernameOffset() + l.UsernameSize() }
func (l Layout) EmailSize() int      { return l.EmailCap + 1 }

// RowSize is the row stride: bytes occupied by one encoded row.
func (l Layout) RowSize() int {
	return IDSize + l.UsernameSize() + l.EmailSize()
}
