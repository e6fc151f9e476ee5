// Package weatherlog owns the bounded log of weather observations: a fixed
// number of recent readings is persisted with oldest-first eviction, while the
// most recent observation and the most recent non-empty AI insight are cached
// in memory on the service instance.
package weatherlog

import "time"

// MaxLogs is the maximum number of persisted observations. Receiving more
// evicts the oldest until exactly MaxLogs remain.
const MaxLogs = 10

// CurrentSample is one current-conditions reading inside an observation.
type CurrentSample struct {
	Time                string  `json:"time" bson:"time"`
	Temperature         float64 `json:"temperature" bson:"temperature"`
	RelativeHumidity    float64 `json:"relativeHumidity" bson:"relativeHumidity"`
	ApparentTemperature float64 `json:"apparentTemperature" bson:"apparentTemperature"`
	IsDay               bool    `json:"isDay" bson:"isDay"`
	UV                  float64 `json:"uv" bson:"uv"`
}

// DailySample is one daily-forecast entry inside an observation.
type DailySample struct {
	Date                   string  `json:"date" bson:"date"`
	TemperatureMax         float64 `json:"temperatureMax" bson:"temperatureMax"`
	TemperatureMin         float64 `json:"temperatureMin" bson:"temperatureMin"`
	ApparentTemperatureMax float64 `json:"apparentTemperatureMax" bson:"apparentTemperatureMax"`
	ApparentTemperatureMin float64 `json:"apparentTemperatureMin" bson:"apparentTemperatureMin"`
	UVIndexMax             float64 `json:"uvIndexMax" bson:"uvIndexMax"`
	RainProbability        int     `json:"rainProbability" bson:"rainProbability"`
}

// Observation is one ingested weather reading: current conditions, a short
// daily forecast, and an optional AI-generated narrative insight.
// CreatedAt is assigned at persistence time and orders the retention log.
type Observation struct {
	ID        string          `json:"id,omitempty"`
	Time      string          `json:"time"`
	City      string          `json:"city"`
	Current   []CurrentSample `json:"current"`
	Daily     []DailySample   `json:"daily"`
	AIInsight string          `json:"aiInsight,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
