package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/polldesk/survey-server/controllers"
	"github.com/polldesk/survey-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLogin)
		}
		api.GET("/me", middleware.AuthJWT(), controllers.Me)

		surveys := api.Group("/surveys")
		{
			surveys.GET("", middleware.AuthJWT(), controllers.ListSurveys)
			surveys.POST("", middleware.AuthJWT(), middleware.RateLimitSurveysCreate(), controllers.CreateSurvey)
			// Anonymous surveys are readable and completable without a login.
			surveys.GET("/:uuid", middleware.OptionalAuth(), controllers.GetSurveyDetail)
			surveys.POST("/:uuid/complete", middleware.OptionalAuth(), controllers.CompleteSurvey)
			surveys.PUT("/:uuid", middleware.AuthJWT(), middleware.CheckSurveyOwner(), controllers.UpdateSurvey)
			surveys.POST("/:uuid/questions", middleware.AuthJWT(), middleware.CheckSurveyOwner(), controllers.CreateQuestion)
			surveys.GET("/:uuid/stat", middleware.AuthJWT(), controllers.GetSurveyStat)
			surveys.GET("/:uuid/stat-user", middleware.AuthJWT(), controllers.GetSurveyUserStat)
		}

		api.PUT("/questions/:uuid", middleware.AuthJWT(), middleware.CheckQuestionOwner(), controllers.UpdateQuestion)
		api.DELETE("/questions/:uuid", middleware.AuthJWT(), middleware.CheckQuestionOwner(), controllers.DeleteQuestion)
		api.POST("/questions/:uuid/answer-options", middleware.AuthJWT(), middleware.CheckQuestionOwner(), controllers.CreateAnswerOption)

		api.PUT("/answer-options/:uuid", middleware.AuthJWT(), middleware.CheckOptionOwner(), controllers.UpdateAnswerOption)
		api.DELETE("/answer-options/:uuid", middleware.AuthJWT(), middleware.CheckOptionOwner(), controllers.DeleteAnswerOption)

		api.POST("/user-answers", middleware.OptionalAuth(), controllers.SubmitAnswer)
	}
}
