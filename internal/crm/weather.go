package crm

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// WeatherPattern is the typical seasonal weather for a location.
type WeatherPattern struct {
	TempRangeC          [2]int
	Conditions          []string
	PrecipitationChance float64
}

// Location is one covered destination.
type Location struct {
	ID       string
	Name     string
	Aliases  []string
	Region   string
	Country  string
	Terrain  string
	Latitude float64

	// Weather and Activities are keyed by season plus "year_round"
	// for Activities.
	Weather    map[string]WeatherPattern
	Activities map[string][]string
}

// LocationSummary is the shape returned in alternatives lists.
type LocationSummary struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Country    string              `json:"country"`
	Activities map[string][]string `json:"activities"`
}

// TripConditions is the tool result for a covered destination, or the
// alternatives payload when the destination is not covered.
type TripConditions struct {
	Covered bool `json:"covered"`

	Location            map[string]string `json:"location,omitempty"`
	Confidence          float64           `json:"confidence,omitempty"`
	Season              string            `json:"season,omitempty"`
	Activities          []string          `json:"activities,omitempty"`
	YearRoundActivities []string          `json:"year_round_activities,omitempty"`
	Weather             string            `json:"weather,omitempty"`
	MinTempF            int               `json:"min_temp_f,omitempty"`
	MaxTempF            int               `json:"max_temp_f,omitempty"`
	RoadAlert           string            `json:"road_alert,omitempty"`
	PrecipitationChance float64           `json:"precipitation_chance,omitempty"`
	Recommendations     []string          `json:"recommendations,omitempty"`

	QueriedLocation string            `json:"queried_location,omitempty"`
	LikelyRegion    string            `json:"likely_region,omitempty"`
	Message         string            `json:"message,omitempty"`
	Alternatives    []LocationSummary `json:"alternatives,omitempty"`
	Suggestion      string            `json:"suggestion,omitempty"`
}

const matchThreshold = 0.6

// Conditions reports the expected conditions for a trip. Uncovered
// destinations get a friendly refusal plus regional alternatives
// instead of an error.
func Conditions(location, dates string) TripConditions {
	month := parseMonth(dates, time.Now())

	matched, confidence := matchLocation(location)
	if matched == nil {
		region := detectRegion(location)
		alternatives := regionAlternatives(region, "")
		if len(alternatives) == 0 {
			alternatives = popularAlternatives()
		}
		return TripConditions{
			Covered:         false,
			QueriedLocation: location,
			LikelyRegion:    region,
			Message: fmt.Sprintf("Wayfinder doesn't have detailed coverage for %q yet, "+
				"but we're constantly expanding!", location),
			Alternatives: alternatives,
			Suggestion: "Would you like me to help plan for one of these covered destinations " +
				"instead? Or I can provide general guidance based on typical conditions.",
		}
	}

	hemisphere := "northern"
	if matched.Latitude < 0 {
		hemisphere = "southern"
	}
	season := seasonFor(month, hemisphere)
	weather := conditionsFromPattern(matched, season)

	weather.Covered = true
	weather.Location = map[string]string{
		"id":      matched.ID,
		"name":    matched.Name,
		"region":  matched.Region,
		"country": matched.Country,
		"terrain": matched.Terrain,
	}
	weather.Confidence = confidence
	weather.Season = season
	weather.Activities = matched.Activities[season]
	weather.YearRoundActivities = matched.Activities["year_round"]
	return weather
}

// CoveredLocations lists every destination with detailed coverage.
func CoveredLocations() []LocationSummary {
	out := make([]LocationSummary, 0, len(locations))
	for _, loc := range locations {
		out = append(out, LocationSummary{
			ID:         loc.ID,
			Name:       loc.Name,
			Country:    loc.Country,
			Activities: loc.Activities,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// seasonFor maps a month to a season; the southern hemisphere runs
// reversed.
func seasonFor(month int, hemisphere string) string {
	var season string
	switch {
	case month == 12 || month <= 2:
		season = "winter"
	case month <= 5:
		season = "spring"
	case month <= 8:
		season = "summer"
	default:
		season = "fall"
	}
	if hemisphere != "southern" {
		return season
	}
	switch season {
	case "winter":
		return "summer"
	case "spring":
		return "fall"
	case "summer":
		return "winter"
	default:
		return "spring"
	}
}

// matchLocation finds the best covered destination for a free-text
// query. Exact alias matches win outright; everything else scores by
// similarity with partial-containment boosts, gated by matchThreshold.
func matchLocation(query string) (*Location, float64) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, 0
	}

	var best *Location
	bestScore := 0.0

	for i := range locations {
		loc := &locations[i]

		for _, alias := range loc.Aliases {
			a := strings.ToLower(alias)
			if a == q {
				return loc, 1.0
			}
			if strings.Contains(q, a) || strings.Contains(a, q) {
				if score := max(similarity(q, a), 0.85); score > bestScore {
					bestScore, best = score, loc
				}
			} else if score := similarity(q, a); score > bestScore && score > matchThreshold {
				bestScore, best = score, loc
			}
		}

		name := strings.ToLower(loc.Name)
		if strings.Contains(q, name) || strings.Contains(name, q) {
			if score := max(similarity(q, name), 0.8); score > bestScore {
				bestScore, best = score, loc
			}
		} else if score := similarity(q, name); score > bestScore && score > matchThreshold {
			bestScore, best = score, loc
		}
	}

	if bestScore >= matchThreshold {
		return best, bestScore
	}
	return nil, 0
}

// similarity is a longest-common-subsequence ratio in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return 2 * float64(prev[len(b)]) / float64(len(a)+len(b))
}

var regionKeywords = map[string][]string{
	"North America":   {"usa", "united states", "america", "canada", "canadian", "alaska", "california", "colorado", "utah", "arizona", "montana", "wyoming"},
	"South America":   {"south america", "brazil", "argentina", "chile", "peru", "bolivia", "patagonia", "amazon", "andes"},
	"Central America": {"central america", "costa rica", "panama", "belize", "guatemala", "mexico"},
	"Europe":          {"europe", "european", "switzerland", "swiss", "france", "french", "italy", "italian", "spain", "spanish", "germany", "german", "uk", "scotland", "england", "norway", "norwegian", "sweden", "iceland", "alps"},
	"Africa":          {"africa", "african", "kenya", "tanzania", "south africa", "morocco", "egypt", "kilimanjaro", "sahara", "safari"},
	"Asia":            {"asia", "asian", "japan", "japanese", "nepal", "himalaya", "china", "chinese", "india", "indian", "thailand", "vietnam", "indonesia", "bali", "singapore"},
	"Oceania":         {"australia", "australian", "new zealand", "nz", "kiwi", "fiji", "pacific", "outback", "queensland"},
	"Middle East":     {"middle east", "jordan", "israel", "dubai", "uae", "emirates", "saudi", "oman", "qatar"},
}

func detectRegion(query string) string {
	q := strings.ToLower(query)
	for region, keywords := range regionKeywords {
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				return region
			}
		}
	}
	return ""
}

func regionAlternatives(region, excludeID string) []LocationSummary {
	if region == "" {
		return nil
	}
	var out []LocationSummary
	for _, loc := range locations {
		if loc.ID == excludeID || loc.Region != region {
			continue
		}
		out = append(out, LocationSummary{
			ID:         loc.ID,
			Name:       loc.Name,
			Country:    loc.Country,
			Activities: loc.Activities,
		})
		if len(out) == 5 {
			break
		}
	}
	return out
}

var popularIDs = []string{"yosemite", "banff", "swiss-alps", "nz-south-island", "costa-rica"}

func popularAlternatives() []LocationSummary {
	var out []LocationSummary
	for _, id := range popularIDs {
		for _, loc := range locations {
			if loc.ID == id {
				out = append(out, LocationSummary{
					ID:         loc.ID,
					Name:       loc.Name,
					Country:    loc.Country,
					Activities: loc.Activities,
				})
			}
		}
	}
	return out
}

var isoDatePattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)

var monthNames = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may":  5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sept": 9, "sep": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

// parseMonth pulls a month out of a free-text dates string, falling
// back to the current month for things like "this weekend".
func parseMonth(dates string, now time.Time) int {
	if m := isoDatePattern.FindStringSubmatch(dates); m != nil {
		if month, err := strconv.Atoi(m[2]); err == nil && month >= 1 && month <= 12 {
			return month
		}
	}
	lower := strings.ToLower(dates)
	for name, month := range monthNames {
		if strings.Contains(lower, name) {
			return month
		}
	}
	return int(now.Month())
}

func celsiusToFahrenheit(c int) int {
	return c*9/5 + 32
}

// conditionsFromPattern expands a location's seasonal pattern into the
// weather fields of a TripConditions.
func conditionsFromPattern(loc *Location, season string) TripConditions {
	pattern, ok := loc.Weather[season]
	if !ok {
		pattern = WeatherPattern{
			TempRangeC:          [2]int{10, 25},
			Conditions:          []string{"variable"},
			PrecipitationChance: 0.3,
		}
	}

	desc := "variable"
	if len(pattern.Conditions) > 0 {
		desc = pattern.Conditions[0]
	}

	roadAlert := "none"
	switch {
	case hasCondition(pattern.Conditions, "snow"):
		roadAlert = "snow_possible"
	case hasCondition(pattern.Conditions, "extreme heat"):
		roadAlert = "heat_advisory"
	case hasCondition(pattern.Conditions, "monsoon") || hasCondition(pattern.Conditions, "rain"):
		roadAlert = "wet_conditions"
	case hasCondition(pattern.Conditions, "wind") || hasCondition(pattern.Conditions, "windy"):
		roadAlert = "high_winds"
	}

	var recs []string
	if hasCondition(pattern.Conditions, "snow") || hasCondition(pattern.Conditions, "cold") {
		recs = append(recs, "Pack cold-weather gear and layers")
	}
	if hasCondition(pattern.Conditions, "rain") || pattern.PrecipitationChance > 0.4 {
		recs = append(recs, "Waterproof gear essential")
	}
	if hasCondition(pattern.Conditions, "hot") || hasCondition(pattern.Conditions, "extreme heat") {
		recs = append(recs, "Carry extra water and sun protection")
		recs = append(recs, "Plan activities for early morning or evening")
	}
	if hasCondition(pattern.Conditions, "wind") || hasCondition(pattern.Conditions, "windy") {
		recs = append(recs, "Secure tent and gear for high winds")
	}
	if seasonActivities := loc.Activities[season]; len(seasonActivities) > 0 {
		top := seasonActivities
		if len(top) > 3 {
			top = top[:3]
		}
		recs = append(recs, "Popular activities: "+strings.Join(top, ", "))
	}
	if len(recs) == 0 {
		recs = append(recs, "Check local conditions before departure")
	}

	return TripConditions{
		Weather:             desc,
		MinTempF:            celsiusToFahrenheit(pattern.TempRangeC[0]),
		MaxTempF:            celsiusToFahrenheit(pattern.TempRangeC[1]),
		RoadAlert:           roadAlert,
		PrecipitationChance: pattern.PrecipitationChance,
		Recommendations:     recs,
	}
}

func hasCondition(conditions []string, want string) bool {
	for _, c := range conditions {
		if c == want {
			return true
		}
	}
	return false
}
