package repository

import "time"

// Collection names in the document store.
const (
	CollectionShowrooms = "showrooms"
	CollectionUsers     = "users"
	CollectionLookbooks = "lookbooks"
	CollectionEvents    = "events"
	CollectionFavorites = "favorites"
)

// Field readers tolerant of absent keys and store-typed values. Document
// data comes back as map[string]any; these keep the mapping code flat.

func docString(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func docBool(data map[string]any, key string) bool {
	b, _ := data[key].(bool)
	return b
}

func docInt(data map[string]any, key string) int {
	switch n := data[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func docTime(data map[string]any, key string) *time.Time {
	if t, ok := data[key].(time.Time); ok {
		u := t.UTC()
		return &u
	}
	return nil
}

func docStringSlice(data map[string]any, key string) []string {
	raw, ok := data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func docMap(data map[string]any, key string) map[string]any {
	m, _ := data[key].(map[string]any)
	return m
}
