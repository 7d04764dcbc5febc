package domain

// Region splits Washington counties across the Cascade crest. The eastern
// counties carry most of the state's wildfire exposure; the regional
// analysis endpoints group composite scores by this split.
type Region string

const (
	RegionEastern Region = "eastern"
	RegionWestern Region = "western"
)

// easternCounties lists the 20 counties east of the Cascades, keyed by
// canonical name.
var easternCounties = map[string]struct{}{
	"SPOKANE": {}, "YAKIMA": {}, "BENTON": {}, "FRANKLIN": {}, "WALLA WALLA": {},
	"GRANT": {}, "CHELAN": {}, "DOUGLAS": {}, "OKANOGAN": {}, "ADAMS": {}, "WHITMAN": {},
	"KITTITAS": {}, "KLICKITAT": {}, "COLUMBIA": {}, "GARFIELD": {}, "ASOTIN": {},
	"FERRY": {}, "STEVENS": {}, "PEND OREILLE": {}, "LINCOLN": {},
}

// CountyRegion returns the region for a county name in any casing.
func CountyRegion(name string) Region {
	if _, ok := easternCounties[CanonicalCountyName(name)]; ok {
		return RegionEastern
	}
	return RegionWestern
}
