package costmanagertest

import "github.com/gin-gonic/gin"

func setupRouter(r *gin.Engine, s *Service) {
	api := r.Group("/api")
	{
		api.GET("/about", s.about)
		api.POST("/add", s.addCost)
		api.GET("/report", s.monthlyReport)
		api.GET("/users/:id", s.userDetails)
	}
	r.DELETE("/delete-item/:id", s.deleteCost)
}
