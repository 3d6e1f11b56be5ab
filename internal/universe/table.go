// Package universe holds the static id-to-name tables for the major trade
// regions and hub systems. The tables are built once at package init and are
// read-only afterwards; dynamic lookups for everything else go through ESI.
package universe

// Entry pairs an id with its display name.
type Entry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Well-known region ids.
const (
	TheForge   int64 = 10000002
	Domain     int64 = 10000043
	SinqLaison int64 = 10000032
	Heimatar   int64 = 10000030
	Metropolis int64 = 10000042
)

// Well-known trade hub system ids.
const (
	Jita      int64 = 30000142
	Perimeter int64 = 30000144
	Amarr     int64 = 30002187
	Dodixie   int64 = 30002659
	Rens      int64 = 30002510
)

var regionNames = map[int64]string{
	TheForge:   "The Forge",
	Domain:     "Domain",
	SinqLaison: "Sinq Laison",
	Heimatar:   "Heimatar",
	Metropolis: "Metropolis",
}

var systemNames = map[int64]string{
	Jita:      "Jita",
	Perimeter: "Perimeter",
	Amarr:     "Amarr",
	Dodixie:   "Dodixie",
	Rens:      "Rens",
}

// RegionName returns the static display name for a known region id.
func RegionName(id int64) (string, bool) {
	name, ok := regionNames[id]
	return name, ok
}

// SystemName returns the static display name for a known hub system id.
func SystemName(id int64) (string, bool) {
	name, ok := systemNames[id]
	return name, ok
}

// Regions returns the known trade regions in a stable order.
func Regions() []Entry {
	return []Entry{
		{TheForge, "The Forge"},
		{Domain, "Domain"},
		{SinqLaison, "Sinq Laison"},
		{Heimatar, "Heimatar"},
		{Metropolis, "Metropolis"},
	}
}

// Systems returns the known trade hub systems in a stable order.
func Systems() []Entry {
	return []Entry{
		{Jita, "Jita"},
		{Perimeter, "Perimeter"},
		{Amarr, "Amarr"},
		{Dodixie, "Dodixie"},
		{Rens, "Rens"},
	}
}
