// File: internal/handler/bootcamps/photo.go
package bootcamps

import (
	"errors"
	"fmt"
	"net/http"

	"devcamper/internal/api"
	"devcamper/internal/database"
	"devcamper/internal/handler"
	"devcamper/internal/middleware"
	"devcamper/internal/policy"
	"devcamper/internal/upload"

	"github.com/labstack/echo/v4"
)

// UploadPhotoHandler 上傳 bootcamp 圖片，檔名為 image_<id><ext>
// @Summary     Upload bootcamp photo
// @Description 以檔案內容判斷是否為圖片，超過 MAX_FILE_UPLOAD 的檔案會被拒絕
// @Tags        bootcamps
// @Accept      multipart/form-data
// @Produce     json
// @Param       id   path     int  true "Bootcamp ID"
// @Param       file formData file true "圖片檔"
// @Success     200  {object} api.PhotoResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /bootcamps/{id}/image [put]
func UploadPhotoHandler(db database.DB, images upload.Store, maxSize int64) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		b, err := getBootcampByID(ctx, db, id)
		if err != nil {
			return err
		}
		if err := policy.CheckOwnership(middleware.CurrentUser(c), b, "update this bootcamp"); err != nil {
			return err
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Please upload a file")
		}
		img, err := openImage(fh, maxSize)
		switch {
		case errors.Is(err, upload.ErrTooLarge):
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Please upload an image less than %d bytes", maxSize))
		case errors.Is(err, upload.ErrNotImage):
			return echo.NewHTTPError(http.StatusBadRequest, "Please upload an image file")
		case err != nil:
			return err
		}
		defer img.Close()

		name := upload.FileName(b.ID, img.Ext)
		if err := images.Save(ctx, name, img.File, img.Size, img.ContentType); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Problem with file upload").SetInternal(err)
		}
		if err := updateBootcampPhoto(ctx, db, b.ID, name); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.PhotoResponse{Success: true, Data: name})
	}
}
