// File: internal/handler/bootcamps/radius.go
package bootcamps

import (
	"net/http"
	"strconv"

	"devcamper/internal/api"
	"devcamper/internal/database"
	"devcamper/internal/geo"

	"github.com/labstack/echo/v4"
)

// BootcampsInRadiusHandler 找出郵遞區號附近指定英里數內的 bootcamp
// @Summary     Get bootcamps within a radius
// @Tags        bootcamps
// @Produce     json
// @Param       zipcode  path     string true "郵遞區號"
// @Param       distance path     number true "距離 (英里)"
// @Success     200      {object} api.BootcampListResponse
// @Failure     400      {object} api.ErrorResponse
// @Router      /bootcamps/radius/{zipcode}/{distance} [get]
func BootcampsInRadiusHandler(db database.DB, g geo.Geocoder) echo.HandlerFunc {
	return func(c echo.Context) error {
		distance, err := strconv.ParseFloat(c.Param("distance"), 64)
		if err != nil || distance < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Please provide a valid distance")
		}

		ctx := c.Request().Context()
		loc, err := geocode(ctx, g, c.Param("zipcode"))
		if err != nil {
			return err
		}
		list, err := getBootcampsInRadius(ctx, db, loc.Latitude, loc.Longitude, distance)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.BootcampListResponse{Success: true, Count: len(list), Data: list})
	}
}
