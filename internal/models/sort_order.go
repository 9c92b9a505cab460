package models

import (
	"errors"
	"fmt"
	"strings"
)

// SortOrder is a server-side ordering of the coin listing, a
// {field}_{direction} pair from a fixed set.
type SortOrder string

const (
	SortMarketCapDesc        SortOrder = "market_cap_desc"
	SortMarketCapAsc         SortOrder = "market_cap_asc"
	SortVolumeDesc           SortOrder = "volume_desc"
	SortVolumeAsc            SortOrder = "volume_asc"
	SortIDAsc                SortOrder = "id_asc"
	SortIDDesc               SortOrder = "id_desc"
	SortPriceDesc            SortOrder = "price_desc"
	SortPriceAsc             SortOrder = "price_asc"
	SortPercentChange24hDesc SortOrder = "percent_change_24h_desc"
	SortPercentChange24hAsc  SortOrder = "percent_change_24h_asc"
)

const (
	descSuffix = "_desc"
	ascSuffix  = "_asc"
)

// ErrInvalidSortOrder is returned for any value outside the enumeration.
var ErrInvalidSortOrder = errors.New("invalid sort order")

// SortOrders lists every accepted sort order.
func SortOrders() []SortOrder {
	return []SortOrder{
		SortMarketCapDesc, SortMarketCapAsc,
		SortVolumeDesc, SortVolumeAsc,
		SortIDAsc, SortIDDesc,
		SortPriceDesc, SortPriceAsc,
		SortPercentChange24hDesc, SortPercentChange24hAsc,
	}
}

// Valid reports whether s is one of the enumerated sort orders.
func (s SortOrder) Valid() bool {
	for _, o := range SortOrders() {
		if s == o {
			return true
		}
	}
	return false
}

// ParseSortOrder validates raw. Unknown values are rejected, never defaulted.
func ParseSortOrder(raw string) (SortOrder, error) {
	s := SortOrder(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, raw)
	}
	return s, nil
}

// NewSortOrder builds the sort order for field in the given direction.
func NewSortOrder(field string, descending bool) (SortOrder, error) {
	suffix := ascSuffix
	if descending {
		suffix = descSuffix
	}
	return ParseSortOrder(field + suffix)
}

// Field returns the field part, e.g. "percent_change_24h".
func (s SortOrder) Field() string {
	if strings.HasSuffix(string(s), descSuffix) {
		return strings.TrimSuffix(string(s), descSuffix)
	}
	return strings.TrimSuffix(string(s), ascSuffix)
}

// Descending reports whether s sorts high to low.
func (s SortOrder) Descending() bool {
	return strings.HasSuffix(string(s), descSuffix)
}

// Reversed returns the same field in the opposite direction.
func (s SortOrder) Reversed() SortOrder {
	if s.Descending() {
		return SortOrder(s.Field() + ascSuffix)
	}
	return SortOrder(s.Field() + descSuffix)
}
