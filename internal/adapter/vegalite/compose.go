// Package vegalite renders analysis results as a Vega-Lite dashboard: six
// views sharing two selections, embedded in one static HTML file.
//
// The "sets" selection lives on the per-set histogram; clicking a bar (shift
// to add more) highlights the time-magnitude scatter and filters the map, the
// frequency-magnitude diagrams, and the b-value scatter. The "mc" selection is
// bound to the b-value legend and fades every other completeness magnitude.
package vegalite

import (
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/analysis"
)

const (
	SchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

	// Selection parameter names shared between views.
	SetSelection = "sets"
	McSelection  = "mc"

	// Named datasets in the top-level "datasets" block.
	EarthquakeData = "earthquakes"
	ExplosionData  = "explosions"
	FreqMagData    = "freqmag"
	BValueData     = "bvalues"
)

type obj = map[string]any

// Compose builds the Vega-Lite specification for res.
func Compose(res analysis.Result, title string) map[string]any {
	return obj{
		"$schema": SchemaURL,
		"title":   title,
		"datasets": obj{
			EarthquakeData: earthquakeRows(res),
			ExplosionData:  explosionRows(res),
			FreqMagData:    freqMagRows(res),
			BValueData:     bvalueRows(res),
		},
		"vconcat": []any{
			obj{"hconcat": []any{timeMagnitudeView(), setHistogramView()}},
			obj{"hconcat": []any{spatialView(), bvalueView()}},
			obj{"hconcat": []any{
				freqMagView("normalized_count", "Normalized count", false),
				freqMagView("normalized_cumulative_count", "Normalized cumulative count", true),
			}},
		},
		"resolve": obj{"legend": obj{"color": "independent"}},
		"config": obj{
			"view":  obj{"continuousWidth": 400, "continuousHeight": 300},
			"point": obj{"filled": true},
		},
	}
}

func earthquakeRows(res analysis.Result) []obj {
	rows := make([]obj, len(res.Earthquakes))
	for i, q := range res.Earthquakes {
		rows[i] = obj{
			"time":      q.Time.Format(time.RFC3339Nano),
			"mag":       q.Magnitude,
			"magType":   q.MagnitudeType,
			"depth":     q.Depth,
			"latitude":  q.Latitude,
			"longitude": q.Longitude,
			"set_id":    q.SetID,
		}
	}
	return rows
}

func explosionRows(res analysis.Result) []obj {
	rows := make([]obj, len(res.Explosions))
	for i, ex := range res.Explosions {
		rows[i] = obj{
			"time":  ex.Time.Format(time.RFC3339Nano),
			"mag":   ex.Magnitude,
			"depth": ex.Depth,
		}
	}
	return rows
}

func freqMagRows(res analysis.Result) []obj {
	rows := make([]obj, len(res.FrequencyMagnitude))
	for i, r := range res.FrequencyMagnitude {
		rows[i] = obj{
			"set_id":                      r.SetID,
			"mag":                         r.Magnitude,
			"count":                       r.Count,
			"cumulative_count":            r.CumulativeCount,
			"normalized_count":            r.NormalizedCount,
			"normalized_cumulative_count": r.NormalizedCumulativeCount,
		}
	}
	return rows
}

func bvalueRows(res analysis.Result) []obj {
	rows := make([]obj, len(res.BValues))
	for i, b := range res.BValues {
		rows[i] = obj{
			"set_id":                 b.SetID,
			"completeness_magnitude": b.Completeness,
			"n":                      b.N,
			"mean_mag":               analysis.Round2(b.MeanMagnitude),
			"b_value":                analysis.Round2(b.B),
			"b_value_error":          analysis.Round2(b.BError),
			"b_low":                  analysis.Round2(b.B - b.BError),
			"b_high":                 analysis.Round2(b.B + b.BError),
			"a_value":                analysis.Round2(b.A),
		}
	}
	return rows
}

func named(name string) obj {
	return obj{"name": name}
}

func filterBySets() []any {
	return []any{obj{"filter": obj{"param": SetSelection}}}
}

// setColor colours by set while the selection holds the set, grey otherwise.
func setColor() obj {
	return obj{
		"condition": obj{
			"param":  SetSelection,
			"field":  "set_id",
			"type":   "nominal",
			"legend": nil,
			"scale":  obj{"scheme": "category20"},
		},
		"value": "lightgray",
	}
}

func timeMagnitudeView() obj {
	return obj{
		"title":  "Earthquakes and explosions",
		"width":  600,
		"height": 250,
		"layer": []any{
			obj{
				"data": named(EarthquakeData),
				"mark": obj{"type": "circle", "size": 12},
				"encoding": obj{
					"x":     obj{"field": "time", "type": "temporal", "title": "Time (UTC)"},
					"y":     obj{"field": "mag", "type": "quantitative", "title": "Magnitude"},
					"color": setColor(),
					"tooltip": []any{
						obj{"field": "time", "type": "temporal", "format": "%Y-%m-%d %H:%M"},
						obj{"field": "mag", "type": "quantitative"},
						obj{"field": "set_id", "type": "ordinal"},
					},
				},
			},
			obj{
				"data": named(ExplosionData),
				"mark": obj{"type": "rule", "color": "firebrick", "strokeDash": []int{4, 2}, "opacity": 0.6},
				"encoding": obj{
					"x": obj{"field": "time", "type": "temporal"},
				},
			},
			obj{
				"data": named(ExplosionData),
				"mark": obj{"type": "point", "shape": "triangle-up", "color": "firebrick", "size": 60},
				"encoding": obj{
					"x": obj{"field": "time", "type": "temporal"},
					"y": obj{"field": "mag", "type": "quantitative"},
					"tooltip": []any{
						obj{"field": "time", "type": "temporal", "format": "%Y-%m-%d %H:%M", "title": "Explosion"},
						obj{"field": "mag", "type": "quantitative"},
					},
				},
			},
		},
	}
}

func setHistogramView() obj {
	return obj{
		"title":  "Earthquakes per set (click to select, shift-click to add)",
		"width":  300,
		"height": 250,
		"data":   named(EarthquakeData),
		"mark":   "bar",
		"params": []any{
			obj{
				"name":   SetSelection,
				"select": obj{"type": "point", "fields": []string{"set_id"}, "toggle": "event.shiftKey"},
			},
		},
		"encoding": obj{
			"x":       obj{"field": "set_id", "type": "ordinal", "title": "Set"},
			"y":       obj{"aggregate": "count", "type": "quantitative", "title": "Earthquakes"},
			"color":   setColor(),
			"tooltip": []any{obj{"field": "set_id", "type": "ordinal"}, obj{"aggregate": "count", "type": "quantitative"}},
		},
	}
}

func spatialView() obj {
	return obj{
		"title":     "Epicentres of selected sets",
		"width":     400,
		"height":    300,
		"data":      named(EarthquakeData),
		"transform": filterBySets(),
		"mark":      obj{"type": "circle", "opacity": 0.6},
		"encoding": obj{
			"x":     obj{"field": "longitude", "type": "quantitative", "scale": obj{"zero": false}, "title": "Longitude"},
			"y":     obj{"field": "latitude", "type": "quantitative", "scale": obj{"zero": false}, "title": "Latitude"},
			"size":  obj{"field": "mag", "type": "quantitative", "title": "Magnitude"},
			"color": obj{"field": "set_id", "type": "nominal", "scale": obj{"scheme": "category20"}, "title": "Set"},
		},
	}
}

func freqMagView(field, title string, logScale bool) obj {
	y := obj{"field": field, "type": "quantitative", "title": title}
	if logScale {
		y["scale"] = obj{"type": "log"}
	}
	return obj{
		"title":     title + " by magnitude",
		"width":     400,
		"height":    250,
		"data":      named(FreqMagData),
		"transform": filterBySets(),
		"mark":      obj{"type": "line", "point": true},
		"encoding": obj{
			"x":     obj{"field": "mag", "type": "quantitative", "title": "Magnitude"},
			"y":     y,
			"color": obj{"field": "set_id", "type": "nominal", "scale": obj{"scheme": "category20"}, "title": "Set"},
			"tooltip": []any{
				obj{"field": "set_id", "type": "ordinal"},
				obj{"field": "mag", "type": "quantitative"},
				obj{"field": "count", "type": "quantitative"},
				obj{"field": "cumulative_count", "type": "quantitative"},
			},
		},
	}
}

func bvalueView() obj {
	color := obj{"field": "completeness_magnitude", "type": "ordinal", "scale": obj{"scheme": "viridis"}, "title": "Mc"}
	opacity := obj{"condition": obj{"param": McSelection, "value": 1}, "value": 0.1}
	return obj{
		"title":     "b-value by set (click legend to pick Mc)",
		"width":     400,
		"height":    300,
		"data":      named(BValueData),
		"transform": filterBySets(),
		"layer": []any{
			obj{
				"mark": "rule",
				"encoding": obj{
					"x":       obj{"field": "set_id", "type": "ordinal", "title": "Set"},
					"y":       obj{"field": "b_low", "type": "quantitative"},
					"y2":      obj{"field": "b_high"},
					"color":   color,
					"opacity": opacity,
				},
			},
			obj{
				"mark": obj{"type": "point", "size": 50},
				"params": []any{
					obj{
						"name":   McSelection,
						"select": obj{"type": "point", "fields": []string{"completeness_magnitude"}},
						"bind":   "legend",
					},
				},
				"encoding": obj{
					"x":       obj{"field": "set_id", "type": "ordinal", "title": "Set"},
					"y":       obj{"field": "b_value", "type": "quantitative", "title": "b-value", "scale": obj{"zero": false}},
					"color":   color,
					"opacity": opacity,
					"tooltip": []any{
						obj{"field": "set_id", "type": "ordinal"},
						obj{"field": "completeness_magnitude", "type": "quantitative", "title": "Mc"},
						obj{"field": "b_value", "type": "quantitative"},
						obj{"field": "b_value_error", "type": "quantitative"},
						obj{"field": "a_value", "type": "quantitative"},
						obj{"field": "n", "type": "quantitative"},
					},
				},
			},
		},
	}
}
