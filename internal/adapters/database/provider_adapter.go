package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/repositories"
	"github.com/prestataires/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/prestataires/backend/pkg/errors"
	"github.com/prestataires/backend/pkg/geo"
)

// ProviderAdapter implements the ProviderRepository interface over Postgres.
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter.
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func providerRecord(p *entities.Provider) goqu.Record {
	record := goqu.Record{
		"id":         p.ID,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"phone":      p.Phone,
		"city":       p.City,
		"department": sql.NullString{String: p.Department, Valid: p.Department != ""},
		"categories": pq.Array(p.Categories),
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
	record["user_id"] = nullableString(p.UserID)
	record["photo_url"] = nullableString(p.PhotoURL)
	record["about"] = nullableString(p.About)
	if p.Location != nil {
		record["latitude"] = sql.NullFloat64{Float64: p.Location.Latitude, Valid: true}
		record["longitude"] = sql.NullFloat64{Float64: p.Location.Longitude, Valid: true}
	} else {
		record["latitude"] = sql.NullFloat64{}
		record["longitude"] = sql.NullFloat64{}
	}
	return record
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Create creates a new provider and its initial services.
func (a *ProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	query, args, err := a.db.Insert("providers").Rows(providerRecord(provider)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build provider insert query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create provider", err)
	}

	return a.ReplaceServices(ctx, provider.ID, provider.Services)
}

var providerColumns = []interface{}{
	"id", "user_id", "first_name", "last_name", "phone", "photo_url", "about",
	"categories", "city", "department", "latitude", "longitude",
	"created_at", "updated_at",
}

// GetByID retrieves a provider with nested services and ratings.
func (a *ProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	query, args, err := a.db.From("providers").
		Select(providerColumns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build provider select query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}
	defer rows.Close()

	provs, err := scanProviders(rows)
	if err != nil {
		return nil, err
	}
	if len(provs) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with id %s not found", id))
	}

	if err := a.attachChildren(ctx, provs); err != nil {
		return nil, err
	}
	return provs[0], nil
}

// Update updates a provider profile. Services are managed separately via
// ReplaceServices.
func (a *ProviderAdapter) Update(ctx context.Context, provider *entities.Provider) error {
	record := providerRecord(provider)
	delete(record, "id")
	delete(record, "created_at")

	query, args, err := a.db.Update("providers").
		Set(record).
		Where(goqu.C("id").Eq(provider.ID)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build provider update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update provider", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("provider with id %s not found", provider.ID))
	}
	return nil
}

// Delete deletes a provider. Services and ratings cascade in the schema.
func (a *ProviderAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("providers").Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build provider delete query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete provider", err)
	}
	return nil
}

// List retrieves providers ordered by creation time descending, the order
// the search pipeline relies on for stable ties.
func (a *ProviderAdapter) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	ds := a.db.From("providers").
		Select(providerColumns...).
		Order(goqu.C("created_at").Desc())
	if filter.City != "" {
		ds = ds.Where(goqu.C("city").Eq(filter.City))
	}
	if filter.Department != "" {
		ds = ds.Where(goqu.C("department").Eq(filter.Department))
	}
	if filter.Category != "" {
		ds = ds.Where(goqu.L("? = ANY(categories)", filter.Category))
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build provider list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list providers", err)
	}
	defer rows.Close()

	provs, err := scanProviders(rows)
	if err != nil {
		return nil, err
	}
	if err := a.attachChildren(ctx, provs); err != nil {
		return nil, err
	}
	return provs, nil
}

// ReplaceServices deletes the provider's services and inserts the given
// list, mirroring the replace-all editing flow.
func (a *ProviderAdapter) ReplaceServices(ctx context.Context, providerID string, services []entities.Service) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	delQuery, delArgs, err := a.db.Delete("services").Where(goqu.C("provider_id").Eq(providerID)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build service delete query", err)
	}
	if _, err := tx.ExecContext(ctx, delQuery, delArgs...); err != nil {
		return apperrors.NewInternalError("failed to delete services", err)
	}

	if len(services) > 0 {
		records := make([]goqu.Record, 0, len(services))
		for _, svc := range services {
			records = append(records, goqu.Record{
				"id":          svc.ID,
				"provider_id": providerID,
				"name":        svc.Name,
				"price":       svc.Price,
			})
		}
		insQuery, insArgs, err := a.db.Insert("services").Rows(records).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build service insert query", err)
		}
		if _, err := tx.ExecContext(ctx, insQuery, insArgs...); err != nil {
			return apperrors.NewInternalError("failed to insert services", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit service replacement", err)
	}
	return nil
}

func scanProviders(rows *sql.Rows) ([]*entities.Provider, error) {
	var provs []*entities.Provider
	for rows.Next() {
		var (
			p          entities.Provider
			userID     sql.NullString
			photoURL   sql.NullString
			about      sql.NullString
			department sql.NullString
			latitude   sql.NullFloat64
			longitude  sql.NullFloat64
			categories pq.StringArray
		)
		err := rows.Scan(
			&p.ID,
			&userID,
			&p.FirstName,
			&p.LastName,
			&p.Phone,
			&photoURL,
			&about,
			&categories,
			&p.City,
			&department,
			&latitude,
			&longitude,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider row", err)
		}

		if userID.Valid {
			p.UserID = &userID.String
		}
		if photoURL.Valid {
			p.PhotoURL = &photoURL.String
		}
		if about.Valid {
			p.About = &about.String
		}
		p.Department = department.String
		p.Categories = categories
		if latitude.Valid && longitude.Valid {
			p.Location = &geo.Coordinates{Latitude: latitude.Float64, Longitude: longitude.Float64}
		}
		p.Services = []entities.Service{}
		p.Ratings = []entities.Rating{}
		provs = append(provs, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read provider rows", err)
	}
	return provs, nil
}

// attachChildren batch-loads services and ratings for the given providers.
func (a *ProviderAdapter) attachChildren(ctx context.Context, provs []*entities.Provider) error {
	if len(provs) == 0 {
		return nil
	}

	ids := make([]string, len(provs))
	byID := make(map[string]*entities.Provider, len(provs))
	for i, p := range provs {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	svcQuery, svcArgs, err := a.db.From("services").
		Select("id", "provider_id", "name", "price").
		Where(goqu.C("provider_id").In(ids)).
		Order(goqu.C("name").Asc()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build service select query", err)
	}
	svcRows, err := a.client.DB().QueryContext(ctx, svcQuery, svcArgs...)
	if err != nil {
		return apperrors.NewInternalError("failed to load services", err)
	}
	defer svcRows.Close()
	for svcRows.Next() {
		var svc entities.Service
		if err := svcRows.Scan(&svc.ID, &svc.ProviderID, &svc.Name, &svc.Price); err != nil {
			return apperrors.NewInternalError("failed to scan service row", err)
		}
		if p, ok := byID[svc.ProviderID]; ok {
			p.Services = append(p.Services, svc)
		}
	}
	if err := svcRows.Err(); err != nil {
		return apperrors.NewInternalError("failed to read service rows", err)
	}

	rtQuery, rtArgs, err := a.db.From("ratings").
		Select("provider_id", "user_id", "stars", "created_at").
		Where(goqu.C("provider_id").In(ids)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating select query", err)
	}
	rtRows, err := a.client.DB().QueryContext(ctx, rtQuery, rtArgs...)
	if err != nil {
		return apperrors.NewInternalError("failed to load ratings", err)
	}
	defer rtRows.Close()
	for rtRows.Next() {
		var rating entities.Rating
		if err := rtRows.Scan(&rating.ProviderID, &rating.UserID, &rating.Stars, &rating.CreatedAt); err != nil {
			return apperrors.NewInternalError("failed to scan rating row", err)
		}
		if p, ok := byID[rating.ProviderID]; ok {
			p.Ratings = append(p.Ratings, rating)
		}
	}
	if err := rtRows.Err(); err != nil {
		return apperrors.NewInternalError("failed to read rating rows", err)
	}

	return nil
}
