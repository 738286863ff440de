// File: internal/router/router.go
package router

import (
	"devcamper/internal/cache"
	"devcamper/internal/database"
	"devcamper/internal/geo"
	"devcamper/internal/handler"
	"devcamper/internal/handler/auth"
	"devcamper/internal/handler/bootcamps"
	"devcamper/internal/handler/courses"
	"devcamper/internal/handler/reviews"
	"devcamper/internal/handler/users"
	"devcamper/internal/mailer"
	"devcamper/internal/middleware"
	"devcamper/internal/model"
	"devcamper/internal/upload"
	"devcamper/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Deps 路由需要的所有外部依賴
type Deps struct {
	DB       database.DB
	Cache    cache.Cache
	Geocoder geo.Geocoder
	Mailer   mailer.Sender
	Images   upload.Store
	Workers  worker.Pool
	Log      *logrus.Logger

	Token         auth.TokenOptions
	MaxFileUpload int64
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	v1 := e.Group("/api/v1")
	protect := middleware.Authenticate(d.DB, d.Cache)
	publisher := middleware.Authorize(model.RolePublisher, model.RoleAdmin)
	reviewer := middleware.Authorize(model.RoleUser, model.RoleAdmin)

	// 健康檢查
	v1.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	// 註冊、登入與目前使用者
	a := v1.Group("/auth")
	a.POST("/register", auth.RegisterHandler(d.DB, d.Token))
	a.POST("/login", auth.LoginHandler(d.DB, d.Token))
	a.GET("/logout", auth.LogoutHandler(d.Cache), protect)
	a.GET("/me", auth.MeHandler(), protect)
	a.PUT("/updatedetails", auth.UpdateDetailsHandler(d.DB), protect)
	a.PUT("/updatepassword", auth.UpdatePasswordHandler(d.DB, d.Token), protect)
	a.POST("/forgotpassword", auth.ForgotPasswordHandler(d.DB, d.Mailer, d.Log))
	a.PUT("/resetpassword/:resettoken", auth.ResetPasswordHandler(d.DB, d.Token))

	// Bootcamps，含課程與評論的巢狀路由
	b := v1.Group("/bootcamps")
	b.GET("", bootcamps.ListBootcampsHandler(d.DB))
	b.POST("", bootcamps.CreateBootcampHandler(d.DB, d.Geocoder), protect, publisher)
	b.GET("/radius/:zipcode/:distance", bootcamps.BootcampsInRadiusHandler(d.DB, d.Geocoder))
	b.GET("/:id", bootcamps.GetBootcampHandler(d.DB))
	b.PUT("/:id", bootcamps.UpdateBootcampHandler(d.DB, d.Geocoder), protect, publisher)
	b.DELETE("/:id", bootcamps.DeleteBootcampHandler(d.DB, d.Images, d.Workers), protect, publisher)
	b.PUT("/:id/image", bootcamps.UploadPhotoHandler(d.DB, d.Images, d.MaxFileUpload), protect, publisher)
	b.GET("/:bootcampId/courses", courses.ListCoursesHandler(d.DB))
	b.POST("/:bootcampId/courses", courses.AddCourseHandler(d.DB), protect, publisher)
	b.GET("/:bootcampId/reviews", reviews.ListReviewsHandler(d.DB))
	b.POST("/:bootcampId/reviews", reviews.AddReviewHandler(d.DB), protect, reviewer)

	c := v1.Group("/courses")
	c.GET("", courses.ListCoursesHandler(d.DB))
	c.GET("/:id", courses.GetCourseHandler(d.DB))
	c.PUT("/:id", courses.UpdateCourseHandler(d.DB), protect, publisher)
	c.DELETE("/:id", courses.DeleteCourseHandler(d.DB), protect, publisher)

	r := v1.Group("/reviews")
	r.GET("", reviews.ListReviewsHandler(d.DB))
	r.GET("/:id", reviews.GetReviewHandler(d.DB))
	r.PUT("/:id", reviews.UpdateReviewHandler(d.DB), protect, reviewer)
	r.DELETE("/:id", reviews.DeleteReviewHandler(d.DB), protect, reviewer)

	// 管理員專屬 Users CRUD
	u := v1.Group("/users", protect, middleware.Authorize(model.RoleAdmin))
	u.GET("", users.ListUsersHandler(d.DB))
	u.POST("", users.CreateUserHandler(d.DB))
	u.GET("/:id", users.GetUserHandler(d.DB))
	u.PUT("/:id", users.UpdateUserHandler(d.DB))
	u.DELETE("/:id", users.DeleteUserHandler(d.DB))
}
