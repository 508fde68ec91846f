package leaderboard

import (
	"fmt"
	"strconv"
)

// CacheKey returns a stable serialization of every parameter that affects
// the result of q. All fields are always serialized in a fixed order;
// unset month/year normalize to "-" so keys never collide across scope
// types that do or do not use time bucketing.
func CacheKey(q Query) string {
	month, year := "-", "-"
	if q.Month != 0 {
		month = strconv.Itoa(q.Month)
	}

	if q.Year != 0 {
		year = strconv.Itoa(q.Year)
	}

	return fmt.Sprintf("lb:v1:scope=%s:sort=%s:order=%s:limit=%d:month=%s:year=%s",
		q.Scope, q.SortBy, q.Order, q.Limit, month, year)
}
