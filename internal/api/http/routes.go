package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/knitcast/temperature-blanket/internal/blanket"
	"github.com/knitcast/temperature-blanket/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *blanket.Service) {
	api := app.Group("/api")

	api.Get("/temperatures", func(c *fiber.Ctx) error {
		temps, err := service.GetAll()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch temperatures")
		}
		return c.JSON(temps)
	})

	api.Get("/temperatures/year/:year", func(c *fiber.Ctx) error {
		year, err := strconv.Atoi(c.Params("year"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid year parameter")
		}

		temps, err := service.GetByYear(year)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch temperatures")
		}
		return c.JSON(temps)
	})

	api.Get("/temperatures/range", func(c *fiber.Ctx) error {
		var q rangeQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		temps, err := service.GetByDateRange(q.Start, q.End)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch temperatures")
		}
		return c.JSON(temps)
	})

	api.Get("/temperatures/stats", func(c *fiber.Ctx) error {
		stats, err := service.GetStats()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch stats")
		}
		return c.JSON(stats)
	})

	api.Get("/temperature-ranges", func(c *fiber.Ctx) error {
		return c.JSON(service.Ranges())
	})

	api.Get("/temperature-ranges/color/:temp", func(c *fiber.Ctx) error {
		temp, err := strconv.ParseFloat(c.Params("temp"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid temperature parameter")
		}

		// The resolver works on whole degrees; round before looking up so
		// fractional values cannot fall between adjacent integer buckets.
		return c.JSON(service.ResolveColor(blanket.RoundHalfUp(temp)))
	})

	api.Get("/blanket", func(c *fiber.Ctx) error {
		year := service.CurrentYear()
		if yearParam := c.Query("year"); yearParam != "" {
			y, err := strconv.Atoi(yearParam)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid year parameter")
			}
			year = y
		}

		temps, err := service.GetByYear(year)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch temperatures")
		}
		return c.JSON(temps)
	})

	api.Get("/blanket/latest", func(c *fiber.Ctx) error {
		latest, err := service.GetLatest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no temperature data found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch latest temperature")
		}
		return c.JSON(latest)
	})

	api.Get("/progress", func(c *fiber.Ctx) error {
		progress, err := service.GetProgress()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch progress")
		}
		if progress == nil {
			return c.JSON(fiber.Map{"last_knitted_date": nil})
		}
		return c.JSON(progress)
	})

	api.Put("/progress", func(c *fiber.Ctx) error {
		var body progressBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "last_knitted_date must be a string or null")
		}

		if err := service.SetProgress(body.LastKnittedDate); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update progress")
		}

		updated, err := service.GetProgress()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch progress")
		}
		if updated == nil {
			return c.JSON(fiber.Map{"last_knitted_date": nil})
		}
		return c.JSON(updated)
	})
}

// progressBody is the PUT /api/progress payload. A missing field and an
// explicit null both map to nil; a non-string value fails to parse.
type progressBody struct {
	LastKnittedDate *string `json:"last_knitted_date"`
}

// rangeQuery holds query parameters for the date range endpoint.
type rangeQuery struct {
	Start string `validate:"required,datetime=2006-01-02"`
	End   string `validate:"required,datetime=2006-01-02"`
}

func (q *rangeQuery) bind(c *fiber.Ctx) error {
	q.Start = c.Query("start")
	q.End = c.Query("end")

	if err := validate.Struct(q); err != nil {
		return err
	}
	// ISO dates compare correctly as strings.
	if q.End < q.Start {
		return errors.New("end must not be before start")
	}
	return nil
}
