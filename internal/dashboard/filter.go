package dashboard

import (
	"strings"

	"coin-dashboard-go/internal/models"
)

// FilterCoins keeps the coins whose name or symbol contains term,
// case-insensitively, preserving order. An empty term keeps everything.
func FilterCoins(coins []models.Coin, term string) []models.Coin {
	needle := strings.ToLower(term)
	if needle == "" {
		return coins
	}
	out := make([]models.Coin, 0, len(coins))
	for _, c := range coins {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.Symbol), needle) {
			out = append(out, c)
		}
	}
	return out
}
