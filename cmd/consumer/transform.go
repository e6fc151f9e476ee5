package main

import "math"

// Incoming message shapes, as published by the collector job.

type location struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

type currentIn struct {
	Time                string  `json:"time"`
	Temperature         float64 `json:"temperature"`
	RelativeHumidity    float64 `json:"relativeHumidity"`
	ApparentTemperature float64 `json:"apparentTemperature"`
	IsDay               bool    `json:"isDay"`
	UV                  float64 `json:"uv"`
}

type dailyIn struct {
	Date                     string  `json:"date"`
	TemperatureMax           float64 `json:"temperatureMax"`
	TemperatureMin           float64 `json:"temperatureMin"`
	ApparentTemperatureMax   float64 `json:"apparentTemperatureMax"`
	ApparentTemperatureMin   float64 `json:"apparentTemperatureMin"`
	UVIndexMax               float64 `json:"uvIndexMax"`
	PrecipitationProbability int     `json:"precipitationProbability"`
}

type weatherInput struct {
	Location  location  `json:"location"`
	Current   currentIn `json:"current"`
	Daily     []dailyIn `json:"daily"`
	AIInsight string    `json:"aiInsight,omitempty"`
}

// Outgoing payload, matching the API's ingestion schema.

type currentOut struct {
	Time                string  `json:"time"`
	Temperature         float64 `json:"temperature"`
	RelativeHumidity    float64 `json:"relativeHumidity"`
	ApparentTemperature float64 `json:"apparentTemperature"`
	IsDay               bool    `json:"isDay"`
	UV                  float64 `json:"uv"`
}

type dailyOut struct {
	Date                   string  `json:"date"`
	TemperatureMax         float64 `json:"temperatureMax"`
	TemperatureMin         float64 `json:"temperatureMin"`
	ApparentTemperatureMax float64 `json:"apparentTemperatureMax"`
	ApparentTemperatureMin float64 `json:"apparentTemperatureMin"`
	UVIndexMax             float64 `json:"uvIndexMax"`
	RainProbability        int     `json:"rainProbability"`
}

type weatherPayload struct {
	Time      string       `json:"time"`
	City      string       `json:"city"`
	Current   []currentOut `json:"current"`
	Daily     []dailyOut   `json:"daily"`
	AIInsight string       `json:"aiInsight,omitempty"`
}

// transform normalizes a raw collector message into the API payload:
// temperatures are rounded to whole degrees, UV to one decimal, and negative
// rain probabilities are clamped to zero.
func transform(in weatherInput) weatherPayload {
	cur := currentOut{
		Time:                in.Current.Time,
		Temperature:         math.Round(in.Current.Temperature),
		RelativeHumidity:    in.Current.RelativeHumidity,
		ApparentTemperature: math.Round(in.Current.ApparentTemperature),
		IsDay:               in.Current.IsDay,
		UV:                  math.Round(in.Current.UV*10) / 10,
	}

	daily := make([]dailyOut, 0, len(in.Daily))
	for _, d := range in.Daily {
		rain := d.PrecipitationProbability
		if rain < 0 {
			rain = 0
		}
		daily = append(daily, dailyOut{
			Date:                   d.Date,
			TemperatureMax:         math.Round(d.TemperatureMax),
			TemperatureMin:         math.Round(d.TemperatureMin),
			ApparentTemperatureMax: math.Round(d.ApparentTemperatureMax),
			ApparentTemperatureMin: math.Round(d.ApparentTemperatureMin),
			UVIndexMax:             math.Round(d.UVIndexMax*10) / 10,
			RainProbability:        rain,
		})
	}

	return weatherPayload{
		Time:      in.Current.Time + " - " + in.Location.Timezone,
		City:      in.Location.City,
		Current:   []currentOut{cur},
		Daily:     daily,
		AIInsight: in.AIInsight,
	}
}
