package repository

import (
	"context"

	"github.com/jhoicas/hospital-contable/internal/domain/entity"
)

// PeriodRepository es el puerto de lectura de periodos contables.
// El núcleo contable nunca cambia el estado de un periodo.
type PeriodRepository interface {
	// GetOpen devuelve el periodo con estado OPEN, o nil, nil si no hay ninguno abierto.
	GetOpen(ctx context.Context) (*entity.AccountingPeriod, error)
	GetByID(ctx context.Context, id string) (*entity.AccountingPeriod, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.AccountingPeriod, error)
}
