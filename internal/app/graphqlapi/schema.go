// Package graphqlapi exposes the skins collection over GraphQL with the
// same parameter semantics as the REST adapter (search ≡ name).
package graphqlapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	domain "github.com/cswatch/catalog/internal/app/domain/catalog"
	catalogsvc "github.com/cswatch/catalog/internal/app/services/catalog"
	"github.com/cswatch/catalog/internal/app/storage"
	"github.com/cswatch/catalog/pkg/logger"
)

// defaultPageSize mirrors the schema's historical resolver default for the
// skins query.
const defaultPageSize = 20

// Handler serves POST /graphql.
type Handler struct {
	schema graphql.Schema
	log    *logger.Logger
}

// NewHandler builds the schema bound to the catalog service.
func NewHandler(catalog *catalogsvc.Service, log *logger.Logger) (*Handler, error) {
	if log == nil {
		log = logger.NewDefault("graphqlapi")
	}

	rarityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Rarity",
		Fields: graphql.Fields{
			"name":  &graphql.Field{Type: graphql.String},
			"color": &graphql.Field{Type: graphql.String},
		},
	})

	skinType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Skin",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
			"rarity":      &graphql.Field{Type: rarityType},
			"price":       &graphql.Field{Type: graphql.Float},
			"image":       &graphql.Field{Type: graphql.String},
			"type":        &graphql.Field{Type: graphql.String},
			"collection":  &graphql.Field{Type: graphql.String},
		},
	})

	filterArgs := graphql.FieldConfigArgument{
		"category":   &graphql.ArgumentConfig{Type: graphql.String},
		"rarityName": &graphql.ArgumentConfig{Type: graphql.String},
		"search":     &graphql.ArgumentConfig{Type: graphql.String},
	}

	listArgs := graphql.FieldConfigArgument{
		"category":   &graphql.ArgumentConfig{Type: graphql.String},
		"rarityName": &graphql.ArgumentConfig{Type: graphql.String},
		"search":     &graphql.ArgumentConfig{Type: graphql.String},
		"limit":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultPageSize},
		"offset":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"skins": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(skinType))),
				Args: listArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					params := paramsFromArgs(p.Args)
					params.Limit, _ = p.Args["limit"].(int)
					params.Offset, _ = p.Args["offset"].(int)
					result, err := catalog.Query(p.Context, domain.Skins, params)
					if err != nil {
						return nil, fmt.Errorf("failed to fetch skins")
					}
					return result.Items, nil
				},
			},
			"skin": &graphql.Field{
				Type: skinType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					item, err := catalog.Get(p.Context, domain.Skins, id)
					if err != nil {
						// Missing id resolves to null; anything else is a
						// real failure and must surface as one.
						if errors.Is(err, storage.ErrNotFound) {
							return nil, nil
						}
						return nil, fmt.Errorf("failed to fetch skin")
					}
					return item, nil
				},
			},
			"skinCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Args: filterArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					count, err := catalog.Count(p.Context, domain.Skins, paramsFromArgs(p.Args))
					if err != nil {
						return nil, fmt.Errorf("failed to count skins")
					}
					return count, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}
	return &Handler{schema: schema, log: log}, nil
}

func paramsFromArgs(args map[string]interface{}) catalogsvc.Params {
	params := catalogsvc.Params{}
	if v, ok := args["category"].(string); ok {
		params.Category = v
	}
	if v, ok := args["rarityName"].(string); ok {
		params.Rarity = v
	}
	if v, ok := args["search"].(string); ok {
		params.Name = v
	}
	return params
}

// ServeHTTP executes a POSTed GraphQL request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "malformed request body"})
		return
	}
	defer r.Body.Close()

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  payload.Query,
		OperationName:  payload.OperationName,
		VariableValues: payload.Variables,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
