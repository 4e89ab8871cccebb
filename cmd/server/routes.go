package main

import (
	"github.com/gin-gonic/gin"
	"slotzi.backend/internal/infrastructure/metrics"
	"slotzi.backend/internal/interfaces/http/handlers"
	"slotzi.backend/internal/interfaces/http/middleware"
	"slotzi.backend/internal/interfaces/realtime"
)

type routeDeps struct {
	businessHandler    *handlers.BusinessHandler
	floorPlanHandler   *handlers.FloorPlanHandler
	relationHandler    *handlers.RelationHandler
	reservationHandler *handlers.ReservationHandler
	authMiddleware     gin.HandlerFunc
}

type publicDeps struct {
	hub           *realtime.Hub
	verifyHandler *handlers.VerifyHandler
	mediaHandler  *handlers.MediaHandler
}

func registerPublicRoutes(r *gin.Engine, d publicDeps) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/ws", d.hub.ServeWS)
	r.GET("/media/*key", d.mediaHandler.Serve)

	verify := r.Group("/verify")
	{
		verify.GET("/business", d.verifyHandler.VerifyBusiness)
		verify.GET("/relation", d.verifyHandler.VerifyRelation)
	}
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Business routes
		businesses := v1.Group("/businesses")
		{
			businesses.GET("", d.businessHandler.ListBusinesses)
			businesses.POST("", d.authMiddleware, d.businessHandler.CreateBusiness)
			businesses.GET("/:id", d.businessHandler.GetBusiness)
			businesses.PUT("/:id", d.authMiddleware, d.businessHandler.UpdateBusiness)
			businesses.DELETE("/:id", d.authMiddleware, d.businessHandler.DeleteBusiness)
			businesses.GET("/:id/logs", d.businessHandler.ListUpdateLogs)

			businesses.GET("/:id/floor-plan", d.floorPlanHandler.GetFloorPlan)
			businesses.PUT("/:id/floor-plan", d.authMiddleware, d.floorPlanHandler.SaveFloorPlan)

			businesses.GET("/:id/relations", d.relationHandler.ListByBusiness)
			businesses.GET("/:id/reservations", d.reservationHandler.GetReservations)
		}

		v1.DELETE("/floors/:id", d.authMiddleware, d.floorPlanHandler.DeleteFloor)

		// Relation routes
		v1.POST("/relations", d.authMiddleware, d.relationHandler.CreateRelation)
		v1.GET("/users/:username/relations", d.relationHandler.ListByUser)

		// Reservation routes
		reservations := v1.Group("/reservations")
		{
			reservations.POST("", middleware.IdempotencyMiddleware(), d.reservationHandler.CreateReservation)
			reservations.POST("/availability", d.reservationHandler.CheckAvailability)
			reservations.PUT("/:id", d.reservationHandler.UpdateReservation)
			reservations.POST("/:id/confirm", d.reservationHandler.ConfirmReservation)
			reservations.DELETE("/:id", d.reservationHandler.DeleteReservation)
		}
		v1.GET("/customers/:username/reservations", d.reservationHandler.ListByCustomer)
	}
}
