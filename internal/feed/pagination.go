package feed

// DefaultPageSize is the page size the UI paginates a user's doro history
// with when the request does not specify one.
const DefaultPageSize = 20

// PageForPosition returns the 1-indexed page number containing the item at
// the given 1-indexed position when the collection is paginated with
// pageSize items per page. Positions and page sizes below 1 are clamped so
// the result is always >= 1.
func PageForPosition(position, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if position < 1 {
		position = 1
	}
	return (position-1)/pageSize + 1
}

// PageForNewerCount locates the page of a doro that has newerCount doros
// ahead of it in the descending-by-recency ordering. A doro with zero newer
// doros is always on page 1.
func PageForNewerCount(newerCount int64, pageSize int) int {
	if newerCount < 0 {
		newerCount = 0
	}
	return PageForPosition(int(newerCount)+1, pageSize)
}
