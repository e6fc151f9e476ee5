package httpapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Le0Vieir4/Weather-io/internal/weatherlog"
)

type receiveWeatherRequest struct {
	Time      string                     `json:"time" validate:"required"`
	City      string                     `json:"city" validate:"required"`
	Current   []weatherlog.CurrentSample `json:"current" validate:"required"`
	Daily     []weatherlog.DailySample   `json:"daily" validate:"required"`
	AIInsight string                     `json:"aiInsight"`
}

func registerWeatherRoutes(app *fiber.App, deps Deps) {
	grp := app.Group("/weather")

	grp.Post("/", func(c *fiber.Ctx) error {
		var req receiveWeatherRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		saved, err := deps.Weather.Receive(c.Context(), weatherlog.Observation{
			Time:      req.Time,
			City:      req.City,
			Current:   req.Current,
			Daily:     req.Daily,
			AIInsight: req.AIInsight,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	})

	grp.Get("/", func(c *fiber.Ctx) error {
		latest := deps.Weather.GetLatest()
		if latest == nil {
			return fiber.NewError(fiber.StatusNotFound, "no weather data available")
		}
		return c.JSON(latest)
	})

	grp.Get("/insight", func(c *fiber.Ctx) error {
		latest := deps.Weather.GetLatest()
		if latest == nil {
			return fiber.NewError(fiber.StatusNotFound, "no weather data available")
		}
		var insight *string
		if latest.AIInsight != "" {
			insight = &latest.AIInsight
		}
		return c.JSON(fiber.Map{"aiInsight": insight})
	})

	grp.Get("/logs", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit"))

		var (
			logs []weatherlog.Observation
			err  error
		)
		if city := c.Query("city"); city != "" {
			logs, err = deps.Weather.GetLogsByCity(c.Context(), city, limit)
		} else {
			logs, err = deps.Weather.GetLogs(c.Context(), limit)
		}
		if err != nil {
			return err
		}
		return c.JSON(logs)
	})

	grp.Delete("/logs/old", func(c *fiber.Ctx) error {
		days, _ := strconv.Atoi(c.Query("days"))
		deleted, err := deps.Weather.DeleteOlderThan(c.Context(), days)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"deleted": deleted,
			"message": fmt.Sprintf("%d old weather log(s) deleted", deleted),
		})
	})

	grp.Get("/export/download", func(c *fiber.Ctx) error {
		logs, err := deps.Weather.GetLogs(c.Context(), 0)
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no weather data available")
		}

		body, err := exportCSV(logs)
		if err != nil {
			return err
		}

		filename := "weather_export_" + time.Now().UTC().Format("20060102_150405") + ".csv"
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
		return c.Send(body)
	})
}

// exportCSV renders one row per observation from its first current sample.
func exportCSV(logs []weatherlog.Observation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"city", "time", "temperature", "relativeHumidity", "apparentTemperature", "uv", "aiInsight", "createdAt"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, o := range logs {
		var cur weatherlog.CurrentSample
		if len(o.Current) > 0 {
			cur = o.Current[0]
		}
		row := []string{
			o.City,
			o.Time,
			strconv.FormatFloat(cur.Temperature, 'f', -1, 64),
			strconv.FormatFloat(cur.RelativeHumidity, 'f', -1, 64),
			strconv.FormatFloat(cur.ApparentTemperature, 'f', -1, 64),
			strconv.FormatFloat(cur.UV, 'f', -1, 64),
			o.AIInsight,
			o.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
