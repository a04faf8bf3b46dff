package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"quizhost/internal/app"
	"quizhost/internal/pkg/logger"
)

// accessCodeRule accepts 3-32 alphanumeric characters, the shape generated
// codes have and the only shape admins may supply.
func accessCodeRule(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) < 3 || len(code) > 32 {
		return false
	}
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accesscode", accessCodeRule)
	}
}

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Catalog        *app.CatalogService
	Questions      *app.QuestionService
	Attempts       *app.AttemptService
	Registrations  *app.RegistrationService
	Maintenance    *app.MaintenanceService
	Users          *app.UserService
	Take           *app.TakeService
	Tokens         *TokenManager
	Log            *logger.Logger
	Mode           string
	AllowedOrigins []string
	SecureCookies  bool
}

// NewRouter builds the gin engine with all routes mounted.
func NewRouter(deps RouterDeps) *gin.Engine {
	if strings.HasPrefix(strings.ToLower(deps.Mode), "prod") {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidations()
	r := gin.New()
	r.Use(gin.Recovery())

	allowed := deps.AllowedOrigins
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			// allow any http://localhost:PORT during development
			if strings.HasPrefix(origin, "http://localhost:") {
				return true
			}
			for _, o := range allowed {
				if origin == o {
					return true
				}
			}
			return false
		},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(Authenticate(deps.Tokens))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	quizzes := NewQuizHandler(deps.Catalog, deps.Log)
	questions := NewQuestionHandler(deps.Questions, deps.Log)
	attempts := NewAttemptHandler(deps.Attempts, deps.Log)
	registrations := NewRegistrationHandler(deps.Registrations, deps.Log)
	maintenance := NewMaintenanceHandler(deps.Maintenance, deps.Log)
	auth := NewAuthHandler(deps.Users, deps.Tokens, deps.SecureCookies, deps.Log)
	take := NewTakeHandler(deps.Take, deps.Log)
	ws := NewWSHandler(deps.Take, deps.Log)

	api := r.Group("/api/v1")
	{
		api.GET("/quizzes", quizzes.List)
		api.GET("/quizzes/mine", RequireUser(), quizzes.ListMine)
		api.GET("/quizzes/:quizId", quizzes.Get)
		api.POST("/quizzes", RequireAdmin(), quizzes.Create)
		api.DELETE("/quizzes/:quizId", RequireAdmin(), quizzes.Delete)

		api.GET("/questions/:quizId", questions.ListForQuiz)
		api.POST("/questions", RequireAdmin(), questions.Create)
		api.DELETE("/questions/:questionId", RequireAdmin(), questions.Delete)

		api.POST("/attempts", attempts.Record)
		api.GET("/attempts", RequireUser(), attempts.List)

		api.POST("/registrations", RequireAdmin(), registrations.Create)
		api.GET("/registrations", RequireAdmin(), registrations.List)
		api.DELETE("/registrations/:id", RequireAdmin(), registrations.Delete)

		api.GET("/maintenance", maintenance.Get)
		api.POST("/maintenance", RequireAdmin(), maintenance.Set)

		api.POST("/auth/signup", auth.SignUp)
		api.POST("/auth/signin", auth.SignIn)
		api.POST("/auth/signout", auth.SignOut)
		api.POST("/users/profile", RequireUser(), auth.UpdateProfile)
		api.POST("/users/organization", RequireUser(), auth.UpdateOrganization)

		api.POST("/take/start/:quizId", take.Start)
		api.POST("/take/session/:sessionId/verify", take.VerifyCode)
		api.POST("/take/session/:sessionId/begin", take.Begin)
		api.POST("/take/session/:sessionId/answer", take.SelectAnswer)
		api.POST("/take/session/:sessionId/nav", take.Navigate)
		api.GET("/take/session/:sessionId", take.Snapshot)
		api.POST("/take/session/:sessionId/submit", take.Submit)
	}

	r.GET("/ws/take", gin.WrapF(ws.ServeWS))

	return r
}
