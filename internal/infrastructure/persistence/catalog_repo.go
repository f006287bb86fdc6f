package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
)

// CatalogRepository читает справочники программ и допуслуг.
// Справочники наполняются миграциями и админкой, отсюда только чтение.
type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetProgram(ctx context.Context, id int64) (*entity.Program, error) {
	query := `
		SELECT id, name, service_fee_usd
		FROM programs
		WHERE id = $1`

	var schema programSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.ProgramNotFound, "program not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get program")
	}

	return schema.toDomain(), nil
}

func (r *CatalogRepository) GetService(ctx context.Context, id int64) (*entity.CatalogService, error) {
	query := `
		SELECT id, title, price_client_usd, real_cost_usd, is_active
		FROM catalog_services
		WHERE id = $1`

	var schema catalogServiceSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.ServiceNotFound, "service not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get service")
	}

	return schema.toDomain(), nil
}

func (r *CatalogRepository) ListServices(ctx context.Context) ([]entity.CatalogService, error) {
	query := `
		SELECT id, title, price_client_usd, real_cost_usd, is_active
		FROM catalog_services
		WHERE is_active
		ORDER BY id`

	var schemas []catalogServiceSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list services")
	}

	services := make([]entity.CatalogService, 0, len(schemas))
	for _, s := range schemas {
		services = append(services, *s.toDomain())
	}

	return services, nil
}

func (r *CatalogRepository) ListPrograms(ctx context.Context) ([]entity.Program, error) {
	query := `
		SELECT id, name, service_fee_usd
		FROM programs
		ORDER BY id`

	var schemas []programSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list programs")
	}

	programs := make([]entity.Program, 0, len(schemas))
	for _, s := range schemas {
		programs = append(programs, *s.toDomain())
	}

	return programs, nil
}
