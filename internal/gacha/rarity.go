package gacha

import "strings"

// Rarity is the display tier of a card.
type Rarity string

const (
	RarityR   Rarity = "R"
	RaritySR  Rarity = "SR"
	RaritySSR Rarity = "SSR"
	RarityUR  Rarity = "UR"
)

// AllRarities returns all rarities in order from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{RarityR, RaritySR, RaritySSR, RarityUR}
}

// ParseRarity maps a bank value to a Rarity. Unknown or empty values are R.
func ParseRarity(s string) Rarity {
	switch r := Rarity(strings.ToUpper(strings.TrimSpace(s))); r {
	case RaritySR, RaritySSR, RarityUR:
		return r
	default:
		return RarityR
	}
}

// DisplayName returns a human-readable label for the rarity.
func (r Rarity) DisplayName() string {
	switch r {
	case RarityR:
		return "Rare"
	case RaritySR:
		return "Super Rare"
	case RaritySSR:
		return "Specially Super Rare"
	case RarityUR:
		return "Ultra Rare"
	default:
		return string(r)
	}
}

// Color returns the accent color for the rarity as a hex string.
func (r Rarity) Color() string {
	switch r {
	case RarityUR:
		return "#FFD700"
	case RaritySSR:
		return "#FF0080"
	case RaritySR:
		return "#00BFFF"
	default:
		return "#666666"
	}
}
