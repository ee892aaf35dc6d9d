package response

// List converts domain values with fn and never returns nil,
// so empty collections encode as [] instead of null.
func List[S any, T any](src []S, fn func(S) T) []T {
	items := make([]T, 0, len(src))
	for _, s := range src {
		items = append(items, fn(s))
	}
	return items
}
