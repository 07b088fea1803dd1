package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	portsrepo "github.com/pesabridge/pesabridge_backend/internal/core/ports/repositories"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
)

// ExchangeRateService provides business logic for exchange rates and
// currency conversion quotes.
type ExchangeRateService struct {
	BaseService
	rateRepo    portsrepo.ExchangeRateRepositoryFacade
	userService portssvc.UserReaderSvc
	feeSchedule domain.FeeSchedule
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, userService portssvc.UserReaderSvc, feeSchedule domain.FeeSchedule) portssvc.ExchangeRateSvcFacade {
	return &ExchangeRateService{
		rateRepo:    rateRepo,
		userService: userService,
		feeSchedule: feeSchedule,
	}
}

// CreateExchangeRate handles the creation of a new exchange rate. Only
// admins may publish rates.
func (s *ExchangeRateService) CreateExchangeRate(ctx context.Context, adminUserID string, req dto.CreateExchangeRateRequest) (*domain.ExchangeRate, error) {
	admin, err := s.userService.GetUserByID(ctx, adminUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rate publisher: %w", err)
	}
	if !admin.IsAdmin {
		return nil, fmt.Errorf("%w: only admins may publish exchange rates", apperrors.ErrForbidden)
	}

	from, err := domain.ParseCurrency(req.FromCurrencyCode)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseCurrency(req.ToCurrencyCode)
	if err != nil {
		return nil, err
	}

	dateEffective := req.DateEffective
	if dateEffective.IsZero() {
		dateEffective = time.Now().UTC()
	}

	rate, err := domain.NewExchangeRate(uuid.NewString(), from, to, req.Rate, dateEffective)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	rate.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     adminUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: adminUserID,
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: rate for %s/%s at %s already exists", apperrors.ErrValidation, from, to, dateEffective.Format(time.RFC3339))
		}
		s.LogError(ctx, err, "failed to save exchange rate")
		return nil, fmt.Errorf("failed to create exchange rate in service: %w", err)
	}

	return &rate, nil
}

// GetExchangeRate retrieves the effective rate for a currency pair. When only
// the inverse pair is stored the inverted rate is returned instead.
func (s *ExchangeRateService) GetExchangeRate(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error) {
	if !from.IsValid() || !to.IsValid() {
		return nil, fmt.Errorf("%w: unsupported currency pair %s/%s", apperrors.ErrValidation, from, to)
	}

	rate, err := s.rateRepo.FindExchangeRate(ctx, from, to)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to get exchange rate in service: %w", err)
	}

	// Fall back to the inverse pair.
	inverse, invErr := s.rateRepo.FindExchangeRate(ctx, to, from)
	if invErr != nil {
		if errors.Is(invErr, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no exchange rate for %s/%s", apperrors.ErrNotFound, from, to)
		}
		return nil, fmt.Errorf("failed to get inverse exchange rate in service: %w", invErr)
	}
	inverted, invErr := inverse.Inverse()
	if invErr != nil {
		return nil, invErr
	}
	return &inverted, nil
}

// GetExchangeRateByID retrieves a specific exchange rate by its ID.
func (s *ExchangeRateService) GetExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	rate, err := s.rateRepo.FindExchangeRateByID(ctx, rateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate by ID in service: %w", err)
	}
	return rate, nil
}

// Convert quotes a conversion. The exchange fee is taken in the source
// currency before the rate is applied, so the quote is what the user would
// actually receive.
func (s *ExchangeRateService) Convert(ctx context.Context, req dto.ConvertRequest) (*dto.ConvertResponse, error) {
	from, err := domain.ParseCurrency(req.FromCurrencyCode)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseCurrency(req.ToCurrencyCode)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	amount, err := domain.NewMoney(req.Amount, from)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: conversion amount must be positive", apperrors.ErrInvalidAmount)
	}

	fee, err := s.feeSchedule.ComputeFee(amount)
	if err != nil {
		return nil, err
	}
	net, err := amount.Sub(fee)
	if err != nil {
		return nil, err
	}
	if !net.IsPositive() {
		return nil, fmt.Errorf("%w: amount %s does not cover the %s fee", apperrors.ErrInvalidAmount, amount, fee)
	}

	rate, err := s.GetExchangeRate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	converted, err := rate.Convert(net)
	if err != nil {
		return nil, err
	}

	return &dto.ConvertResponse{
		FromAmount:       amount.Amount(),
		FromCurrencyCode: string(from),
		ToAmount:         converted.Amount(),
		ToCurrencyCode:   string(to),
		Fee:              fee.Amount(),
		Rate:             rate.Rate,
		RateEffective:    rate.DateEffective,
	}, nil
}
