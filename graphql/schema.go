// Package graphql provides the GraphQL schema definition and resolvers
package graphql

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/ortelius/scec-purl/database"
	"github.com/ortelius/scec-purl/model"
	"github.com/ortelius/scec-purl/purl"
	"github.com/ortelius/scec-purl/util"
)

var db database.DBConnection

// InitDB initializes the global database connection variable used by all resolvers.
func InitDB(dbConn database.DBConnection) {
	db = dbConn
}

// QualifierType defines the GraphQL object for a single key=value qualifier
var QualifierType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Qualifier",
	Fields: graphql.Fields{
		"key":   &graphql.Field{Type: graphql.String},
		"value": &graphql.Field{Type: graphql.String},
	},
})

// PurlType defines the GraphQL object for a stored catalog document
var PurlType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Purl",
	Fields: graphql.Fields{
		"key": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			doc, _ := p.Source.(model.PURL)
			return doc.Key, nil
		}},
		"purl": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			doc, _ := p.Source.(model.PURL)
			return doc.Purl, nil
		}},
		"basepurl": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			doc, _ := p.Source.(model.PURL)
			return doc.BasePurl, nil
		}},
		"type": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			doc, _ := p.Source.(model.PURL)
			return doc.Type, nil
		}},
		"namespace": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			doc, _ := p.Source.(model.PURL)
			return doc.Namespace, nil
		}},
		"name": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			doc, _ := p.Source.(model.PURL)
			return doc.Name, nil
		}},
		"version": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			doc, _ := p.Source.(model.PURL)
			return doc.Version, nil
		}},
		"subpath": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			doc, _ := p.Source.(model.PURL)
			return doc.Subpath, nil
		}},
		"qualifiers": &graphql.Field{
			Type: graphql.NewList(QualifierType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				doc, _ := p.Source.(model.PURL)
				qualifiers := make([]map[string]string, 0, len(doc.Qualifiers))
				for _, q := range purl.QualifiersFromMap(doc.Qualifiers) {
					qualifiers = append(qualifiers, map[string]string{"key": q.Key, "value": q.Value})
				}
				return qualifiers, nil
			},
		},
	},
})

// CanonicalType defines the GraphQL object returned by the pure
// canonicalize query (no catalog lookup involved)
var CanonicalType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Canonical",
	Fields: graphql.Fields{
		"purl":      &graphql.Field{Type: graphql.String},
		"basepurl":  &graphql.Field{Type: graphql.String},
		"type":      &graphql.Field{Type: graphql.String},
		"namespace": &graphql.Field{Type: graphql.String},
		"name":      &graphql.Field{Type: graphql.String},
		"version":   &graphql.Field{Type: graphql.String},
		"subpath":   &graphql.Field{Type: graphql.String},
	},
})

// CreateSchema builds the GraphQL schema with all query resolvers
func CreateSchema() (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			// canonicalize normalizes a purl string without touching the catalog
			"canonicalize": &graphql.Field{
				Type: CanonicalType,
				Args: graphql.FieldConfigArgument{
					"purl": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["purl"].(string)

					parsed, err := purl.FromString(raw)
					if err != nil {
						return nil, err
					}

					base, err := util.GetBasePURL(raw)
					if err != nil {
						return nil, err
					}

					return map[string]interface{}{
						"purl":      parsed.ToString(),
						"basepurl":  base,
						"type":      parsed.Type,
						"namespace": parsed.Namespace,
						"name":      parsed.Name,
						"version":   parsed.Version,
						"subpath":   parsed.Subpath,
					}, nil
				},
			},
			// purl looks up a stored catalog document by canonical string;
			// the argument is canonicalized first so any equivalent form matches
			"purl": &graphql.Field{
				Type: PurlType,
				Args: graphql.FieldConfigArgument{
					"purl": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["purl"].(string)

					parsed, err := purl.FromString(raw)
					if err != nil {
						return nil, err
					}

					doc, found, err := database.FindPURLByCanonical(context.Background(), db.Database, parsed.ToString())
					if err != nil {
						return nil, err
					}
					if !found {
						return nil, errors.New("purl not found: " + parsed.ToString())
					}
					return doc, nil
				},
			},
			// purlVersions lists every stored version of one package
			"purlVersions": &graphql.Field{
				Type: graphql.NewList(PurlType),
				Args: graphql.FieldConfigArgument{
					"purl": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["purl"].(string)

					base, err := util.GetBasePURL(raw)
					if err != nil {
						return nil, err
					}

					return database.FindPURLsByBase(context.Background(), db.Database, base)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}
