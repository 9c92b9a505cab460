package view

import (
	"errors"
	"fmt"

	"coin-dashboard-go/internal/models"
)

// Column is a header of the coin table.
type Column string

const (
	ColumnRank      Column = "rank"
	ColumnName      Column = "name"
	ColumnPrice     Column = "price"
	ColumnChange1h  Column = "1h"
	ColumnChange24h Column = "24h"
	ColumnChange7d  Column = "7d"
	ColumnVolume    Column = "volume"
	ColumnMarketCap Column = "market_cap"
)

var (
	ErrUnknownColumn    = errors.New("unknown column")
	ErrUnsortableColumn = errors.New("column is not sortable")
)

// sortFields maps a column to the server-side sort field. The API has no
// order for 1h and 7d changes. Rank follows market cap.
var sortFields = map[Column]string{
	ColumnRank:      "market_cap",
	ColumnName:      "id",
	ColumnPrice:     "price",
	ColumnChange24h: "percent_change_24h",
	ColumnVolume:    "volume",
	ColumnMarketCap: "market_cap",
}

// Columns lists the coin table headers in display order.
func Columns() []Column {
	return []Column{
		ColumnRank, ColumnName, ColumnPrice,
		ColumnChange1h, ColumnChange24h, ColumnChange7d,
		ColumnVolume, ColumnMarketCap,
	}
}

// Sortable reports whether clicking c changes the sort order.
func (c Column) Sortable() bool {
	_, ok := sortFields[c]
	return ok
}

// Active reports whether current sorts by c.
func (c Column) Active(current models.SortOrder) bool {
	field, ok := sortFields[c]
	return ok && current.Field() == field
}

// ToggleSort is the sort order after clicking column c: the same field
// flips direction, a new field starts descending.
func ToggleSort(current models.SortOrder, c Column) (models.SortOrder, error) {
	field, ok := sortFields[c]
	if !ok {
		for _, known := range Columns() {
			if known == c {
				return "", fmt.Errorf("%w: %s", ErrUnsortableColumn, c)
			}
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, c)
	}
	if current.Valid() && current.Field() == field {
		return current.Reversed(), nil
	}
	return models.NewSortOrder(field, true)
}
