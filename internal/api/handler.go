// Package api holds the HTTP handlers for the CampusHub service: student
// and organizer auth, the event catalog and the registration ledger.
package api

import (
	"log/slog"

	"campushub/internal/cache"
	"campushub/internal/mail"
	"campushub/internal/monitoring"
	"campushub/internal/repository"
	"campushub/internal/token"
	"campushub/internal/validator"
)

type Handler struct {
	repo       repository.Repository
	tokens     *token.Issuer
	validate   *validator.Validator
	mailer     *mail.Mailer
	cache      *cache.EventCache
	telemetry  monitoring.Telemetry
	logger     *slog.Logger
	bcryptCost int
}

type HandlerParams struct {
	Repo       repository.Repository
	Tokens     *token.Issuer
	Validate   *validator.Validator
	Mailer     *mail.Mailer
	Cache      *cache.EventCache
	Telemetry  monitoring.Telemetry
	Logger     *slog.Logger
	BcryptCost int
}

func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		repo:       params.Repo,
		tokens:     params.Tokens,
		validate:   params.Validate,
		mailer:     params.Mailer,
		cache:      params.Cache,
		telemetry:  params.Telemetry,
		logger:     params.Logger,
		bcryptCost: params.BcryptCost,
	}
}
