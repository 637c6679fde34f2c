package httpapi

import (
	"bufio"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/plantops/greenhouse-data-sim/internal/plant"
	"github.com/plantops/greenhouse-data-sim/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *plant.Service, streamDelay time.Duration) {
	v1 := app.Group("/api/v1")

	v1.Get("/plants/:id/stats/latest", func(c *fiber.Ctx) error {
		plantID, err := parsePlantID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		run, err := service.GetLatest(plantID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no stats for requested plant")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch stats")
		}

		return c.JSON(run)
	})

	v1.Get("/plants/:id/stats/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		runs, err := service.GetRange(req.PlantID, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no stats history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch stats history")
		}

		return c.JSON(fiber.Map{
			"plantId": req.PlantID,
			"from":    req.From,
			"to":      req.To,
			"runs":    runs,
		})
	})

	v1.Get("/plants/:id/stats/csv", func(c *fiber.Ctx) error {
		plantID, err := parsePlantID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		run, err := service.GetLatest(plantID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no stats for requested plant")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch stats")
		}

		c.Set(fiber.HeaderContentType, "text/csv")
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			_ = run.Table.WriteCSV(w)
			_ = w.Flush()
		}))
		return nil
	})

	v1.Get("/plants/:id/stream", func(c *fiber.Ctx) error {
		plantID, err := parsePlantID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		delay := streamDelay
		if v := c.Query("delay"); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil || parsed < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid delay; use a non-negative Go duration")
			}
			delay = parsed
		}

		// Each stream request generates a fresh run, like a live demo feed.
		run, err := service.Generate(c.Context(), plantID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to generate stats")
		}
		msgs := plant.Messages(run.Table)

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			enc := json.NewEncoder(w)
			for _, msg := range msgs {
				if err := enc.Encode(msg); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
				time.Sleep(delay)
			}
			_ = enc.Encode(plant.EndOfStream())
			_ = w.Flush()
		}))
		return nil
	})
}

// plantParam holds the path parameter identifying a plant.
type plantParam struct {
	ID string `validate:"required"`
}

func parsePlantID(c *fiber.Ctx) (string, error) {
	p := plantParam{ID: c.Params("id")}
	if err := validate.Struct(p); err != nil {
		return "", err
	}
	return p.ID, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	PlantID string    `validate:"required"`
	From    time.Time `validate:"required"`
	To      time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	plantID, err := parsePlantID(c)
	if err != nil {
		return err
	}
	h.PlantID = plantID

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
