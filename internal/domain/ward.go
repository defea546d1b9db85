// Package domain provides the core property-market domain types.
//
// The ward is the coarsest location unit used by the price estimator. It is
// modeled as a tagged string over a closed enumeration of Tokyo's 23 special
// wards so that an unknown district is a validation error at the boundary,
// never a silent runtime behavior inside the valuation core.
package domain

import "fmt"

// Ward identifies one of Tokyo's 23 special wards.
type Ward string

const (
	WardChiyoda    Ward = "chiyoda"
	WardChuo       Ward = "chuo"
	WardMinato     Ward = "minato"
	WardShinjuku   Ward = "shinjuku"
	WardBunkyo     Ward = "bunkyo"
	WardTaito      Ward = "taito"
	WardSumida     Ward = "sumida"
	WardKoto       Ward = "koto"
	WardShinagawa  Ward = "shinagawa"
	WardMeguro     Ward = "meguro"
	WardOta        Ward = "ota"
	WardSetagaya   Ward = "setagaya"
	WardShibuya    Ward = "shibuya"
	WardNakano     Ward = "nakano"
	WardSuginami   Ward = "suginami"
	WardToshima    Ward = "toshima"
	WardKita       Ward = "kita"
	WardArakawa    Ward = "arakawa"
	WardItabashi   Ward = "itabashi"
	WardNerima     Ward = "nerima"
	WardAdachi     Ward = "adachi"
	WardKatsushika Ward = "katsushika"
	WardEdogawa    Ward = "edogawa"
)

// AllWards lists the 23 special wards in the conventional ward-number order.
// The order is significant for form rendering and must stay stable.
var AllWards = []Ward{
	WardChiyoda, WardChuo, WardMinato, WardShinjuku, WardBunkyo,
	WardTaito, WardSumida, WardKoto, WardShinagawa, WardMeguro,
	WardOta, WardSetagaya, WardShibuya, WardNakano, WardSuginami,
	WardToshima, WardKita, WardArakawa, WardItabashi, WardNerima,
	WardAdachi, WardKatsushika, WardEdogawa,
}

// wardInfo holds the static reference data for one ward.
type wardInfo struct {
	JapaneseName string
	RentFactor   float64 // multiplier on the base per-square-meter rent
	Profile      string  // short descriptive text for the report
}

// wardTable is the fixed reference table keyed by the closed ward enumeration.
// Rent factors scale the base unit rent (see config.ValuationConfig.BaseUnitRent)
// and reflect relative rental demand per ward. Loaded once, read-only afterwards.
var wardTable = map[Ward]wardInfo{
	WardChiyoda:    {"千代田区", 1.90, "Political and business core. Thin supply keeps resale and rent levels firm."},
	WardChuo:       {"中央区", 1.75, "Bay-side redevelopment area with strong new-build supply around Harumi and Kachidoki."},
	WardMinato:     {"港区", 1.85, "Premium brand wards with the deepest rental demand from corporate tenants."},
	WardShinjuku:   {"新宿区", 1.55, "Terminal-station ward. Large rental market, volatile by micro-location."},
	WardBunkyo:     {"文京区", 1.45, "Stable owner-occupier demand around the universities and hospitals."},
	WardTaito:      {"台東区", 1.30, "Ueno and Asakusa. Compact units dominate the transaction mix."},
	WardSumida:     {"墨田区", 1.20, "Skytree redevelopment lifted the western districts."},
	WardKoto:       {"江東区", 1.35, "Tower condo belt along the waterfront. Supply-heavy but liquid."},
	WardShinagawa:  {"品川区", 1.50, "Linear-chukansen expectations support the station-front market."},
	WardMeguro:     {"目黒区", 1.60, "Residential brand ward. Low vacancy, slow depreciation."},
	WardOta:        {"大田区", 1.20, "Haneda access. Wide quality spread between north and south."},
	WardSetagaya:   {"世田谷区", 1.35, "Largest ward by stock. Family demand, long holding periods."},
	WardShibuya:    {"渋谷区", 1.80, "IT-sector tenant demand keeps compact units at premium rents."},
	WardNakano:     {"中野区", 1.30, "Station redevelopment in progress, rents trending up."},
	WardSuginami:   {"杉並区", 1.25, "Chuo-line residential belt. Steady single-tenant demand."},
	WardToshima:    {"豊島区", 1.35, "Ikebukuro terminal demand, compact investor units common."},
	WardKita:       {"北区", 1.15, "Undervalued relative to JR access. Aging stock."},
	WardArakawa:    {"荒川区", 1.10, "Small market, thin transaction volume."},
	WardItabashi:   {"板橋区", 1.10, "Volume zone pricing, rent ceiling is low."},
	WardNerima:     {"練馬区", 1.10, "Suburban character, family rentals dominate."},
	WardAdachi:     {"足立区", 1.00, "Lowest price band of the 23 wards, yields run high."},
	WardKatsushika: {"葛飾区", 1.00, "Commuter ward, demand tracks the JR Joban line."},
	WardEdogawa:    {"江戸川区", 1.05, "Family-oriented, large units relative to price."},
}

// japaneseIndex maps Japanese ward names back to the enum, for form input
// and for CSV imports that carry native names.
var japaneseIndex = func() map[string]Ward {
	m := make(map[string]Ward, len(wardTable))
	for w, info := range wardTable {
		m[info.JapaneseName] = w
	}
	return m
}()

// ParseWard converts a user-supplied district token into a Ward.
// Both the romaji enum value and the Japanese name are accepted.
// Unknown districts are an error, never coerced.
func ParseWard(s string) (Ward, error) {
	if w, ok := japaneseIndex[s]; ok {
		return w, nil
	}
	w := Ward(s)
	if _, ok := wardTable[w]; ok {
		return w, nil
	}
	return "", fmt.Errorf("unknown ward %q: expected one of the 23 special wards", s)
}

// Valid reports whether the ward is one of the 23 special wards.
func (w Ward) Valid() bool {
	_, ok := wardTable[w]
	return ok
}

// JapaneseName returns the native name of the ward (e.g. "港区").
func (w Ward) JapaneseName() string {
	return wardTable[w].JapaneseName
}

// RentFactor returns the ward's rent multiplier on the base unit rent.
// Returns 0 for an invalid ward, which callers must treat as an error.
func (w Ward) RentFactor() float64 {
	return wardTable[w].RentFactor
}

// Profile returns the ward's short descriptive text block.
func (w Ward) Profile() string {
	return wardTable[w].Profile
}
