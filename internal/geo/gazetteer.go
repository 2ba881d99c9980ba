package geo

import "strings"

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// cityCentroids is the offline gazetteer, keyed "{countryCode}:{city}".
// It covers the cities the fleet has actually listed in; the live geocoder
// handles everything else on the write path.
var cityCentroids = map[string]Coordinate{
	"de:berlin":                   {Latitude: 52.520008, Longitude: 13.404954},
	"de:hamburg":                  {Latitude: 53.551086, Longitude: 9.993682},
	"de:munchen":                  {Latitude: 48.137154, Longitude: 11.576124},
	"de:munich":                   {Latitude: 48.137154, Longitude: 11.576124},
	"de:frankfurt":                {Latitude: 50.110924, Longitude: 8.682127},
	"de:frankfurt am main":        {Latitude: 50.110924, Longitude: 8.682127},
	"de:weiterstadt":              {Latitude: 49.903333, Longitude: 8.5925},
	"de:darmstadt":                {Latitude: 49.872825, Longitude: 8.651192},
	"de:recklinghausen":           {Latitude: 51.614064, Longitude: 7.197949},
	"de:karlsruhe":                {Latitude: 49.00689, Longitude: 8.403653},
	"de:mannheim":                 {Latitude: 49.487459, Longitude: 8.466039},
	"de:essen":                    {Latitude: 51.45657, Longitude: 7.01228},
	"de:rodgau":                   {Latitude: 50.026908, Longitude: 8.877219},
	"de:braunschweig":             {Latitude: 52.268875, Longitude: 10.526769},
	"de:bremen":                   {Latitude: 53.079296, Longitude: 8.801694},
	"de:moembris":                 {Latitude: 50.074264, Longitude: 9.15739},
	"de:gunzburg":                 {Latitude: 48.45276, Longitude: 10.27364},
	"de:beckum":                   {Latitude: 51.755628, Longitude: 8.040778},
	"de:lippstadt":                {Latitude: 51.673858, Longitude: 8.344886},
	"de:munster":                  {Latitude: 51.960665, Longitude: 7.626135},
	"de:stuttgart":                {Latitude: 48.775846, Longitude: 9.182932},
	"de:gelsenkirchen":            {Latitude: 51.517744, Longitude: 7.085717},
	"de:wernau":                   {Latitude: 48.6959, Longitude: 9.41761},
	"de:albstadt":                 {Latitude: 48.21408, Longitude: 9.02344},
	"de:norderstedt":              {Latitude: 53.7089, Longitude: 9.99449},
	"de:mainz":                    {Latitude: 49.992862, Longitude: 8.247253},
	"de:siegburg":                 {Latitude: 50.800596, Longitude: 7.207531},
	"de:duisburg":                 {Latitude: 51.434407, Longitude: 6.762329},
	"de:heilbronn":                {Latitude: 49.142693, Longitude: 9.210879},
	"de:ludwigsburg":              {Latitude: 48.896435, Longitude: 9.184904},
	"de:anzing":                   {Latitude: 48.15001, Longitude: 11.85891},
	"de:gottingen":                {Latitude: 51.54128, Longitude: 9.9158},
	"de:bad nenndorf":             {Latitude: 52.33771, Longitude: 9.37581},
	"de:koblenz":                  {Latitude: 50.356943, Longitude: 7.588995},
	"de:kassel":                   {Latitude: 51.312711, Longitude: 9.479746},
	"de:koln":                     {Latitude: 50.937531, Longitude: 6.960279},
	"de:langenfeld":               {Latitude: 51.10819, Longitude: 6.94716},
	"de:schloss holte-stukenbrock": {Latitude: 51.8939, Longitude: 8.6175},
	"de:bielefeld":                {Latitude: 52.030228, Longitude: 8.532471},
	"de:heidesheim":               {Latitude: 49.986, Longitude: 8.1506},
	"de:stuttgart-zuffenhausen":   {Latitude: 48.8329, Longitude: 9.1619},
	"de:magdeburg":                {Latitude: 52.120533, Longitude: 11.627624},
	"at:wien":                     {Latitude: 48.208174, Longitude: 16.373819},
	"at:salzburg":                 {Latitude: 47.80949, Longitude: 13.05501},
	"at:innsbruck":                {Latitude: 47.269212, Longitude: 11.404102},
	"at:kirchbichl":               {Latitude: 47.528, Longitude: 12.067},
	"at:leoben":                   {Latitude: 47.384, Longitude: 15.091},
	"at:volders":                  {Latitude: 47.283, Longitude: 11.567},
	"at:eitweg":                   {Latitude: 46.809, Longitude: 15.3},
	"at:weiden am see":            {Latitude: 47.933, Longitude: 16.87},
	"ch:zurich":                   {Latitude: 47.376887, Longitude: 8.541694},
	"ch:bern":                     {Latitude: 46.947974, Longitude: 7.447447},
	"ch:geneva":                   {Latitude: 46.204391, Longitude: 6.143158},
	"ch:basel":                    {Latitude: 47.559599, Longitude: 7.588576},
	"ch:zug":                      {Latitude: 47.166167, Longitude: 8.515495},
	"uk:london":                   {Latitude: 51.507351, Longitude: -0.127758},
	"uk:manchester":               {Latitude: 53.480759, Longitude: -2.242631},
	"uk:birmingham":               {Latitude: 52.486243, Longitude: -1.890401},
	"uk:edinburgh":                {Latitude: 55.953251, Longitude: -3.188267},
	"uk:glasgow":                  {Latitude: 55.864237, Longitude: -4.251806},
	"us:new york":                 {Latitude: 40.712776, Longitude: -74.005974},
	"us:los angeles":              {Latitude: 34.052235, Longitude: -118.243683},
	"us:miami":                    {Latitude: 25.761681, Longitude: -80.191788},
	"us:san francisco":            {Latitude: 37.774929, Longitude: -122.419418},
	"us:las vegas":                {Latitude: 36.169941, Longitude: -115.139832},
	"ae:dubai":                    {Latitude: 25.204849, Longitude: 55.270782},
	"ae:abu dhabi":                {Latitude: 24.453884, Longitude: 54.3773438},
	"au:sydney":                   {Latitude: -33.86882, Longitude: 151.209296},
	"au:melbourne":                {Latitude: -37.813629, Longitude: 144.963058},
	"au:brisbane":                 {Latitude: -27.469771, Longitude: 153.025124},
}

// fallbackCountryOrder is the fixed priority list of supported countries
// probed when a city cannot be resolved against its own country.
var fallbackCountryOrder = []string{"de", "at", "ch", "uk", "us", "ae", "au"}

// ResolveCity looks up a city centroid in the offline gazetteer.
func ResolveCity(city, country string) (Coordinate, bool) {
	if strings.TrimSpace(city) == "" {
		return Coordinate{}, false
	}
	c, ok := cityCentroids[NormalizeCountry(country)+":"+normalizeCity(city)]
	return c, ok
}

// ResolveCityFallback probes an ordered list of candidate countries
// (deduplicated by normalized code) until the city resolves.
func ResolveCityFallback(city string, countryCandidates []string) (Coordinate, bool) {
	if strings.TrimSpace(city) == "" {
		return Coordinate{}, false
	}
	seen := make(map[string]struct{}, len(countryCandidates))
	for _, candidate := range countryCandidates {
		if candidate == "" {
			continue
		}
		code := NormalizeCountry(candidate)
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		if c, ok := ResolveCity(city, candidate); ok {
			return c, true
		}
	}
	return Coordinate{}, false
}

// FallbackCountries builds the candidate country list for coordinate
// resolution: the extra candidates first (e.g. the selected filter country
// or a row's own country), then the fixed priority list, deduplicated by
// normalized code.
func FallbackCountries(extra ...string) []string {
	candidates := append(append([]string{}, extra...), fallbackCountryOrder...)
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		code := NormalizeCountry(candidate)
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, candidate)
	}
	return out
}
