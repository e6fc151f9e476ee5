package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	in := weatherInput{
		Location: location{
			City:     "Sao Paulo",
			Timezone: "America/Sao_Paulo",
		},
		Current: currentIn{
			Time:                "2026-09-01T12:00",
			Temperature:         21.6,
			RelativeHumidity:    63.2,
			ApparentTemperature: 22.4,
			IsDay:               true,
			UV:                  4.37,
		},
		Daily: []dailyIn{{
			Date:                     "2026-09-01",
			TemperatureMax:           25.5,
			TemperatureMin:           13.4,
			ApparentTemperatureMax:   26.2,
			ApparentTemperatureMin:   12.8,
			UVIndexMax:               6.16,
			PrecipitationProbability: 30,
		}},
		AIInsight: "mild day",
	}

	out := transform(in)

	assert.Equal(t, "Sao Paulo", out.City)
	assert.Equal(t, "2026-09-01T12:00 - America/Sao_Paulo", out.Time)
	assert.Equal(t, "mild day", out.AIInsight)

	require.Len(t, out.Current, 1)
	cur := out.Current[0]
	assert.Equal(t, 22.0, cur.Temperature)
	assert.Equal(t, 22.0, cur.ApparentTemperature)
	assert.Equal(t, 63.2, cur.RelativeHumidity, "humidity passes through unrounded")
	assert.Equal(t, 4.4, cur.UV)
	assert.True(t, cur.IsDay)

	require.Len(t, out.Daily, 1)
	day := out.Daily[0]
	assert.Equal(t, 26.0, day.TemperatureMax)
	assert.Equal(t, 13.0, day.TemperatureMin)
	assert.Equal(t, 26.0, day.ApparentTemperatureMax)
	assert.Equal(t, 13.0, day.ApparentTemperatureMin)
	assert.Equal(t, 6.2, day.UVIndexMax)
	assert.Equal(t, 30, day.RainProbability)
}

func TestTransformClampsNegativeRain(t *testing.T) {
	out := transform(weatherInput{
		Daily: []dailyIn{
			{PrecipitationProbability: -1},
			{PrecipitationProbability: 0},
			{PrecipitationProbability: 85},
		},
	})

	require.Len(t, out.Daily, 3)
	assert.Equal(t, 0, out.Daily[0].RainProbability)
	assert.Equal(t, 0, out.Daily[1].RainProbability)
	assert.Equal(t, 85, out.Daily[2].RainProbability)
}

func TestTransformEmptyDaily(t *testing.T) {
	out := transform(weatherInput{
		Location: location{City: "Santos", Timezone: "America/Sao_Paulo"},
		Current:  currentIn{Time: "2026-09-01T12:00"},
	})

	assert.Empty(t, out.Daily)
	require.Len(t, out.Current, 1)
	assert.Equal(t, "Santos", out.City)
}

func TestTransformUVRounding(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{4.34, 4.3},
		{4.36, 4.4},
		{11.99, 12.0},
	}
	for _, tc := range cases {
		out := transform(weatherInput{Current: currentIn{UV: tc.in}})
		assert.Equal(t, tc.want, out.Current[0].UV, "uv %v", tc.in)
	}
}
