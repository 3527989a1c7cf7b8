package api

import (
	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/husd-protocol/settlement-api-service/docs"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Get("/v1/rates/latest", registerHandler(handlers.GetLatestRate))
	r.Get("/v1/rates", registerHandler(handlers.GetRateHistory))
	r.Post("/v1/deposits", registerHandler(handlers.InitDeposit))
	r.Post("/v1/deposits/complete", registerHandler(handlers.CompleteDeposit))
	r.Get("/v1/withdrawals/instant/max", registerHandler(handlers.GetMaxInstantWithdrawable))
	r.Post("/v1/withdrawals/instant", registerHandler(handlers.ProcessInstantWithdraw))
	r.Post("/v1/withdrawals/standard", registerHandler(handlers.RequestStandardWithdraw))
	r.Post("/v1/withdrawals/process", registerHandler(handlers.ProcessPendingWithdrawals))
	r.Get("/v1/withdrawals", registerHandler(handlers.GetWithdrawalHistory))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
