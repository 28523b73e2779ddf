package dto

// ViewData is the paginated payload the console returns for every list view.
type ViewData[P any] struct {
	Data        P      `json:"data"`
	Length      int    `json:"length"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	Limit       int    `json:"pageSize"`
	Loaded      bool   `json:"loaded"`
	Error       string `json:"error,omitempty"`
}
