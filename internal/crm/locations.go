package crm

// locations is the demo's covered-destination dataset. Temperatures are
// Celsius; seasons are named for the northern hemisphere and resolved
// per location latitude at query time.
var locations = []Location{
	{
		ID:       "yosemite",
		Name:     "Yosemite National Park",
		Aliases:  []string{"yosemite", "yosemite valley", "half dome"},
		Region:   "North America",
		Country:  "USA",
		Terrain:  "granite valleys, alpine high country",
		Latitude: 37.8,
		Weather: map[string]WeatherPattern{
			"winter": {TempRangeC: [2]int{-4, 9}, Conditions: []string{"snow", "cold"}, PrecipitationChance: 0.5},
			"spring": {TempRangeC: [2]int{4, 18}, Conditions: []string{"rain", "mild"}, PrecipitationChance: 0.45},
			"summer": {TempRangeC: [2]int{12, 31}, Conditions: []string{"hot", "dry"}, PrecipitationChance: 0.1},
			"fall":   {TempRangeC: [2]int{3, 21}, Conditions: []string{"mild", "clear"}, PrecipitationChance: 0.2},
		},
		Activities: map[string][]string{
			"winter":     {"snowshoeing", "winter photography"},
			"spring":     {"waterfall hikes", "valley cycling"},
			"summer":     {"backpacking", "rock climbing", "swimming"},
			"fall":       {"day hiking", "climbing"},
			"year_round": {"photography", "wildlife watching"},
		},
	},
	{
		ID:       "banff",
		Name:     "Banff National Park",
		Aliases:  []string{"banff", "lake louise", "canadian rockies"},
		Region:   "North America",
		Country:  "Canada",
		Terrain:  "glaciated peaks, turquoise lakes",
		Latitude: 51.2,
		Weather: map[string]WeatherPattern{
			"winter": {TempRangeC: [2]int{-15, -3}, Conditions: []string{"snow", "cold"}, PrecipitationChance: 0.6},
			"spring": {TempRangeC: [2]int{-3, 10}, Conditions: []string{"snow", "variable"}, PrecipitationChance: 0.5},
			"summer": {TempRangeC: [2]int{7, 22}, Conditions: []string{"mild", "rain"}, PrecipitationChance: 0.4},
			"fall":   {TempRangeC: [2]int{-2, 12}, Conditions: []string{"cold", "windy"}, PrecipitationChance: 0.35},
		},
		Activities: map[string][]string{
			"winter":     {"skiing", "ice climbing", "ice skating"},
			"spring":     {"ski touring", "wildlife watching"},
			"summer":     {"hiking", "canoeing", "scrambling"},
			"fall":       {"larch hikes", "photography"},
			"year_round": {"hot springs", "sightseeing"},
		},
	},
	{
		ID:       "moab",
		Name:     "Moab",
		Aliases:  []string{"moab", "arches", "canyonlands"},
		Region:   "North America",
		Country:  "USA",
		Terrain:  "red rock desert, slickrock canyons",
		Latitude: 38.6,
		Weather: map[string]WeatherPattern{
			"winter": {TempRangeC: [2]int{-6, 7}, Conditions: []string{"cold", "clear"}, PrecipitationChance: 0.15},
			"spring": {TempRangeC: [2]int{5, 25}, Conditions: []string{"windy", "mild"}, PrecipitationChance: 0.2},
			"summer": {TempRangeC: [2]int{20, 39}, Conditions: []string{"extreme heat", "dry"}, PrecipitationChance: 0.15},
			"fall":   {TempRangeC: [2]int{4, 25}, Conditions: []string{"mild", "clear"}, PrecipitationChance: 0.15},
		},
		Activities: map[string][]string{
			"winter":     {"canyon hiking", "photography"},
			"spring":     {"mountain biking", "climbing", "rafting"},
			"summer":     {"early-morning hikes", "rafting"},
			"fall":       {"mountain biking", "climbing"},
			"year_round": {"scenic drives", "stargazing"},
		},
	},
	{
		ID:       "swiss-alps",
		Name:     "Swiss Alps",
		Aliases:  []string{"swiss alps", "zermatt", "interlaken", "matterhorn"},
		Region:   "Europe",
		Country:  "Switzerland",
		Terrain:  "high alpine peaks, glacier valleys",
		Latitude: 46.0,
		Weather: map[string]WeatherPattern{
			"winter": {TempRangeC: [2]int{-12, -1}, Conditions: []string{"snow", "cold"}, PrecipitationChance: 0.55},
			"spring": {TempRangeC: [2]int{0, 13}, Conditions: []string{"variable", "rain"}, PrecipitationChance: 0.5},
			"summer": {TempRangeC: [2]int{8, 24}, Conditions: []string{"mild", "rain"}, PrecipitationChance: 0.45},
			"fall":   {TempRangeC: [2]int{1, 14}, Conditions: []string{"cold", "windy"}, PrecipitationChance: 0.4},
		},
		Activities: map[string][]string{
			"winter":     {"skiing", "snowboarding", "winter hiking"},
			"spring":     {"ski touring", "valley hikes"},
			"summer":     {"via ferrata", "alpine hiking", "paragliding"},
			"fall":       {"hiking", "photography"},
			"year_round": {"cable cars", "mountain railways"},
		},
	},
	{
		ID:       "scottish-highlands",
		Name:     "Scottish Highlands",
		Aliases:  []string{"scottish highlands", "scotland", "ben nevis", "isle of skye"},
		Region:   "Europe",
		Country:  "United Kingdom",
		Terrain:  "moorland, sea lochs, exposed munros",
		Latitude: 57.1,
		Weather: map[string]WeatherPattern{
			"winter": {TempRangeC: [2]int{-2, 6}, Conditions: []string{"rain", "windy", "snow"}, PrecipitationChance: 0.7},
			"spring": {TempRangeC: [2]int{2, 12}, Conditions: []string{"rain", "windy"}, PrecipitationChance: 0.6},
			"summer": {TempRangeC: [2]int{9, 18}, Conditions: []string{"rain", "mild"}, PrecipitationChance: 0.55},
			"fall":   {TempRangeC: [2]int{4, 13}, Conditions: []string{"rain", "windy"}, PrecipitationChance: 0.65},
		},
		Activities: map[string][]string{
			"winter":     {"winter mountaineering", "whisky tours"},
			"spring":     {"munro bagging", "cycling"},
			"summer":     {"hiking", "sea kayaking", "wild camping"},
			"fall":       {"hillwalking", "stag watching"},
			"year_round": {"photography", "castle visits"},
		},
	},
	{
		ID:       "patagonia-torres",
		Name:     "Torres del Paine",
		Aliases:  []string{"torres del paine", "patagonia", "w trek"},
		Region:   "South America",
		Country:  "Chile",
		Terrain:  "granite towers, windswept steppe",
		Latitude: -51.0,
		Weather: map[string]WeatherPattern{
			"winter": {TempRangeC: [2]int{-3, 6}, Conditions: []string{"snow", "windy"}, PrecipitationChance: 0.5},
			"spring": {TempRangeC: [2]int{2, 13}, Conditions: []string{"windy", "variable"}, PrecipitationChance: 0.45},
			"summer": {TempRangeC: [2]int{6, 18}, Conditions: []string{"windy", "mild"}, PrecipitationChance: 0.4},
			"fall":   {TempRangeC: [2]int{1, 11}, Conditions: []string{"windy", "rain"}, PrecipitationChance: 0.5},
		},
		Activities: map[string][]string{
			"winter":     {"guided winter treks"},
			"spring":     {"day hikes", "wildlife watching"},
			"summer":     {"w trek", "o circuit", "kayaking"},
			"fall":       {"photography", "short treks"},
			"year_round": {"guanaco spotting"},
		},
	},
	{
		ID:       "nz-south-island",
		Name:     "New Zealand South Island",
		Aliases:  []string{"new zealand", "south island", "queenstown", "milford sound", "nz"},
		Region:   "Oceania",
		Country:  "New Zealand",
		Terrain:  "fiords, braided rivers, southern alps",
		Latitude: -44.0,
		Weather: map[string]WeatherPattern{
			"winter": {TempRangeC: [2]int{-2, 10}, Conditions: []string{"snow", "cold"}, PrecipitationChance: 0.5},
			"spring": {TempRangeC: [2]int{4, 16}, Conditions: []string{"rain", "variable"}, PrecipitationChance: 0.55},
			"summer": {TempRangeC: [2]int{9, 23}, Conditions: []string{"mild", "rain"}, PrecipitationChance: 0.45},
			"fall":   {TempRangeC: [2]int{3, 17}, Conditions: []string{"mild", "clear"}, PrecipitationChance: 0.4},
		},
		Activities: map[string][]string{
			"winter":     {"skiing", "hot pools"},
			"spring":     {"great walks", "cycling"},
			"summer":     {"tramping", "kayaking", "bungee jumping"},
			"fall":       {"hiking", "wine tours"},
			"year_round": {"scenic flights", "stargazing"},
		},
	},
	{
		ID:       "costa-rica",
		Name:     "Costa Rica",
		Aliases:  []string{"costa rica", "monteverde", "arenal", "manuel antonio"},
		Region:   "Central America",
		Country:  "Costa Rica",
		Terrain:  "cloud forest, volcanoes, pacific coast",
		Latitude: 9.7,
		Weather: map[string]WeatherPattern{
			"winter": {TempRangeC: [2]int{18, 28}, Conditions: []string{"dry", "hot"}, PrecipitationChance: 0.2},
			"spring": {TempRangeC: [2]int{19, 30}, Conditions: []string{"hot", "variable"}, PrecipitationChance: 0.35},
			"summer": {TempRangeC: [2]int{18, 27}, Conditions: []string{"monsoon", "rain"}, PrecipitationChance: 0.75},
			"fall":   {TempRangeC: [2]int{18, 26}, Conditions: []string{"monsoon", "rain"}, PrecipitationChance: 0.8},
		},
		Activities: map[string][]string{
			"winter":     {"surfing", "snorkeling", "canopy tours"},
			"spring":     {"wildlife watching", "surfing"},
			"summer":     {"whitewater rafting", "cloud forest hikes"},
			"fall":       {"turtle nesting tours", "rafting"},
			"year_round": {"zip lining", "birding"},
		},
	},
	{
		ID:       "kilimanjaro",
		Name:     "Mount Kilimanjaro",
		Aliases:  []string{"kilimanjaro", "kili", "uhuru peak"},
		Region:   "Africa",
		Country:  "Tanzania",
		Terrain:  "equatorial volcano, five climate zones",
		Latitude: -3.1,
		Weather: map[string]WeatherPattern{
			"winter": {TempRangeC: [2]int{10, 27}, Conditions: []string{"dry", "clear"}, PrecipitationChance: 0.2},
			"spring": {TempRangeC: [2]int{12, 26}, Conditions: []string{"rain", "variable"}, PrecipitationChance: 0.6},
			"summer": {TempRangeC: [2]int{8, 24}, Conditions: []string{"dry", "cold"}, PrecipitationChance: 0.15},
			"fall":   {TempRangeC: [2]int{11, 26}, Conditions: []string{"rain", "variable"}, PrecipitationChance: 0.5},
		},
		Activities: map[string][]string{
			"winter":     {"summit treks", "safari add-ons"},
			"spring":     {"forest day hikes"},
			"summer":     {"summit treks", "machame route"},
			"fall":       {"lower-slope hikes"},
			"year_round": {"cultural tours"},
		},
	},
	{
		ID:       "japanese-alps",
		Name:     "Japanese Alps",
		Aliases:  []string{"japanese alps", "kamikochi", "hakuba", "nagano"},
		Region:   "Asia",
		Country:  "Japan",
		Terrain:  "steep forested ridges, volcanic peaks",
		Latitude: 36.3,
		Weather: map[string]WeatherPattern{
			"winter": {TempRangeC: [2]int{-10, 0}, Conditions: []string{"snow", "cold"}, PrecipitationChance: 0.65},
			"spring": {TempRangeC: [2]int{2, 15}, Conditions: []string{"mild", "rain"}, PrecipitationChance: 0.45},
			"summer": {TempRangeC: [2]int{14, 26}, Conditions: []string{"rain", "humid"}, PrecipitationChance: 0.55},
			"fall":   {TempRangeC: [2]int{4, 18}, Conditions: []string{"clear", "mild"}, PrecipitationChance: 0.35},
		},
		Activities: map[string][]string{
			"winter":     {"powder skiing", "onsen visits"},
			"spring":     {"valley walks", "cherry blossom hikes"},
			"summer":     {"ridge traverses", "hut-to-hut hiking"},
			"fall":       {"autumn color hikes"},
			"year_round": {"onsen", "temple visits"},
		},
	},
}
