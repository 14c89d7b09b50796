// Package domain models the earthquake and explosion catalogs of the 2018
// Kilauea summit collapse.
//
// # Data Source
//
// Catalogs are USGS ComCat CSV exports (https://earthquake.usgs.gov/earthquakes/search/),
// one file per month from May through August 2018, plus a hand-curated catalog
// of the explosive collapse events at the summit. Both share the ComCat column
// names; only a subset is read:
//
//	time, depth, mag, magType, latitude, longitude
//
// Any other column (place, net, id, updated, horizontalError, ...) is ignored.
//
// # Catalog Conventions
//
// Time format:
//
//	ISO 8601 in UTC with millisecond precision, e.g. "2018-06-21T04:17:52.350Z".
//	Older exports and spreadsheet round-trips produce "2018-06-21 04:17:52.350",
//	which is accepted and read as UTC.
//
// Depth:
//
//	Kilometres below sea level. Shallow summit events can be slightly negative.
//
// Magnitude:
//
//	Reported to two decimals with a magnitude type (ml, md, mw, mwr). The
//	analysis bins magnitudes at 0.1, so mixed types are compared as-is.
//
// # Sets
//
// Earthquakes are grouped into sets delimited by explosion times. Set 0 holds
// everything before the regular collapse pattern began; set k holds events in
// [explosion_k, explosion_k+1); the last set holds everything after the final
// explosion. See the analysis package for the partitioning rules.
package domain
