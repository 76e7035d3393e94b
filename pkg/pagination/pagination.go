package pagination

const (
	// DefaultLimit is the page size when a limit is not provided.
	DefaultLimit = 9
	// MaxLimit caps how many rows any page may request.
	MaxLimit = 50
)

// Params holds offset pagination inputs; Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps page to >= 1 and limit to [1, MaxLimit], defaulting both.
func Normalize(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset is the number of rows to skip for the page.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages rounds total/limit up; zero rows still yields zero pages.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
