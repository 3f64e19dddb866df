package page

const (
	// DefaultSize is used when a request does not specify a page size
	DefaultSize = 20
	// MaxSize caps the page size a client may request
	MaxSize = 100
)

// Request describes a zero-based page of results and an optional sort.
type Request struct {
	Page int    // Page number, zero-based
	Size int    // Number of records per page
	Sort string // Field to sort by; empty means the repository default
	Desc bool   // Sort direction
}

// NewRequest normalizes page and size into a valid Request.
func NewRequest(page, size int) Request {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Request{Page: page, Size: size}
}

// Offset returns the number of records to skip.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Page is one page of results with navigation metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

// New creates a Page with calculated navigation fields.
func New[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return Page[T]{
		Content:       content,
		PageNumber:    req.Page,
		PageSize:      req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page >= totalPages-1,
		HasNext:       req.Page < totalPages-1,
		HasPrevious:   req.Page > 0,
	}
}

// Map converts the content of a page while keeping its metadata.
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	out := make([]U, len(p.Content))
	for i, v := range p.Content {
		out[i] = f(v)
	}
	return Page[U]{
		Content:       out,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
		HasNext:       p.HasNext,
		HasPrevious:   p.HasPrevious,
	}
}
