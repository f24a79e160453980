package enums

import "fmt"

// SortKey identifies the ordering applied to the derived product view.
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

var validSortKeys = map[SortKey]struct{}{
	SortDefault:   {},
	SortPriceAsc:  {},
	SortPriceDesc: {},
	SortNameAsc:   {},
	SortNameDesc:  {},
}

// ParseSortKey validates a raw sort value; the empty string maps to SortDefault.
func ParseSortKey(value string) (SortKey, error) {
	if value == "" {
		return SortDefault, nil
	}
	key := SortKey(value)
	if _, ok := validSortKeys[key]; !ok {
		return "", fmt.Errorf("invalid sort key %q", value)
	}
	return key, nil
}

func (s SortKey) String() string {
	return string(s)
}
