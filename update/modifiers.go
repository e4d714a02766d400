package update

// Each wraps values in a {"$each": [...]} modifier so a single $push appends
// all of them.
func Each(values ...any) map[string]any {
	return map[string]any{"$each": nonNil(values)}
}

// In wraps values in a {"$in": [...]} condition so a single $pull removes
// every element equal to one of them.
func In(values ...any) map[string]any {
	return map[string]any{"$in": nonNil(values)}
}

// nonNil keeps an empty modifier encoding as [] rather than null.
func nonNil(values []any) []any {
	if values == nil {
		return []any{}
	}

	return values
}
