package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/routeguide/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Point",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Int},
			"longitude": &graphql.Field{Type: graphql.Int},
		},
	})

	featureType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Feature",
		Fields: graphql.Fields{
			"name":     &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: pointType},
		},
	})

	nearbyFeatureType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyFeature",
		Fields: graphql.Fields{
			"name":       &graphql.Field{Type: graphql.String},
			"location":   &graphql.Field{Type: pointType},
			"distance_m": &graphql.Field{Type: graphql.Int},
		},
	})

	noteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteNote",
		Fields: graphql.Fields{
			"location": &graphql.Field{Type: pointType},
			"message":  &graphql.Field{Type: graphql.String},
		},
	})

	pointArgs := graphql.FieldConfigArgument{
		"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
		"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"feature": &graphql.Field{
				Type:        featureType,
				Description: "Feature at an exact point; null when there is none",
				Args:        pointArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f, ok := deps.RouteGuide.GetFeature(p.Context, argPoint(p.Args, "latitude", "longitude"))
					if !ok {
						return nil, nil
					}
					return featureMap(f), nil
				},
			},
			"features": &graphql.Field{
				Type:        graphql.NewList(featureType),
				Description: "Features inside a rectangle, in catalog order",
				Args: graphql.FieldConfigArgument{
					"lo_latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"lo_longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"hi_latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"hi_longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rect := domain.Rectangle{
						Lo: argPoint(p.Args, "lo_latitude", "lo_longitude"),
						Hi: argPoint(p.Args, "hi_latitude", "hi_longitude"),
					}
					result := []map[string]interface{}{}
					for f := range deps.RouteGuide.ListFeatures(p.Context, rect) {
						result = append(result, featureMap(f))
					}
					return result, nil
				},
			},
			"featuresNearby": &graphql.Field{
				Type:        graphql.NewList(nearbyFeatureType),
				Description: "Features within a radius of a point given in degrees, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					nearby, err := deps.Features.FindNearby(p.Context, domain.PointFromDegrees(lat, lon), radius, limit)
					if err != nil {
						return nil, err
					}
					result := make([]map[string]interface{}, 0, len(nearby))
					for _, n := range nearby {
						m := featureMap(n.Feature)
						m["distance_m"] = int(n.Distance)
						result = append(result, m)
					}
					return result, nil
				},
			},
			"notes": &graphql.Field{
				Type:        graphql.NewList(noteType),
				Description: "Route notes recorded at a point, oldest first",
				Args:        pointArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					notes := deps.RouteGuide.NotesAt(argPoint(p.Args, "latitude", "longitude"))
					result := make([]map[string]interface{}, 0, len(notes))
					for _, n := range notes {
						result = append(result, map[string]interface{}{
							"location": pointMap(n.Location),
							"message":  n.Message,
						})
					}
					return result, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func argPoint(args map[string]interface{}, latKey, lngKey string) domain.Point {
	return domain.Point{
		Latitude:  int32(args[latKey].(int)),
		Longitude: int32(args[lngKey].(int)),
	}
}

// pointMap returns an untyped nil for a missing location so GraphQL
// renders it as null.
func pointMap(p *domain.Point) interface{} {
	if p == nil {
		return nil
	}
	return map[string]interface{}{
		"latitude":  int(p.Latitude),
		"longitude": int(p.Longitude),
	}
}

func featureMap(f domain.Feature) map[string]interface{} {
	return map[string]interface{}{
		"name":     f.Name,
		"location": pointMap(f.Location),
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
