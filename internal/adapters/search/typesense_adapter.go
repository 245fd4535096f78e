package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/repositories"
	tsclient "github.com/prestataires/backend/internal/infrastructure/clients/typesense"
)

const collectionName = "providers"

// TypesenseAdapter implements the free-text provider index using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProviderIndexRepository
var _ repositories.ProviderIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "categories", Type: "string[]", Facet: pointer.True()},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "department", Type: "string", Facet: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index indexes a provider
func (a *TypesenseAdapter) Index(ctx context.Context, provider *entities.Provider) error {
	document := map[string]interface{}{
		"id":         provider.ID,
		"name":       strings.TrimSpace(provider.FirstName + " " + provider.LastName),
		"categories": provider.Categories,
		"city":       provider.City,
		"department": provider.Department,
		"created_at": provider.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index provider: %w", err)
	}

	return nil
}

// Delete removes a provider from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete provider from index: %w", err)
	}
	return nil
}

// Search searches indexed providers by free text over name, categories and
// city. Results carry only indexed fields; callers needing full profiles
// hydrate them from the repository by ID.
func (a *TypesenseAdapter) Search(ctx context.Context, query string, limit int) ([]*entities.Provider, error) {
	if limit <= 0 {
		limit = 25
	}
	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,categories,city"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}

	provs := []*entities.Provider{}
	if result.Hits == nil {
		return provs, nil
	}
	for _, hit := range *result.Hits {
		doc := *hit.Document

		// Typesense returns map[string]interface{}, so cast safely
		provider := &entities.Provider{}
		if val, ok := doc["id"].(string); ok {
			provider.ID = val
		}
		if val, ok := doc["name"].(string); ok {
			parts := strings.SplitN(val, " ", 2)
			provider.FirstName = parts[0]
			if len(parts) == 2 {
				provider.LastName = parts[1]
			}
		}
		if val, ok := doc["city"].(string); ok {
			provider.City = val
		}
		if val, ok := doc["department"].(string); ok {
			provider.Department = val
		}
		if vals, ok := doc["categories"].([]interface{}); ok {
			categories := make([]string, 0, len(vals))
			for _, v := range vals {
				if s, ok := v.(string); ok {
					categories = append(categories, s)
				}
			}
			provider.Categories = categories
		}

		provs = append(provs, provider)
	}

	return provs, nil
}
