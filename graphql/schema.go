// Package graphql provides the read-only GraphQL schema and resolvers for the catalog
package graphql

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/graphql-go/graphql"
	"github.com/ortelius/scec-catalog/database"
	"github.com/ortelius/scec-catalog/model"
	"github.com/ortelius/scec-catalog/util"
)

var db database.DBConnection

// InitDB initializes the global database connection variable used by all resolvers.
func InitDB(dbConn database.DBConnection) {
	db = dbConn
}

func queryOpts(bindVars map[string]interface{}) *arangodb.QueryOptions {
	return &arangodb.QueryOptions{BindVars: bindVars}
}

// LifecyclePhaseType defines the GraphQL enum for component lifecycle phases
var LifecyclePhaseType = graphql.NewEnum(graphql.EnumConfig{
	Name: "LifecyclePhase",
	Values: graphql.EnumValueConfigMap{
		"DESIGN":       &graphql.EnumValueConfig{Value: "design"},
		"PRE_BUILD":    &graphql.EnumValueConfig{Value: "pre-build"},
		"BUILD":        &graphql.EnumValueConfig{Value: "build"},
		"POST_BUILD":   &graphql.EnumValueConfig{Value: "post-build"},
		"OPERATIONS":   &graphql.EnumValueConfig{Value: "operations"},
		"DISCOVERY":    &graphql.EnumValueConfig{Value: "discovery"},
		"DECOMMISSION": &graphql.EnumValueConfig{Value: "decommission"},
	},
})

// IdentifierType defines the GraphQL object for product identifiers
var IdentifierType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Identifier",
	Fields: graphql.Fields{
		"id": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			ident, _ := p.Source.(model.ProductIdentifier)
			return ident.ID, nil
		}},
		"identifier_type": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			ident, _ := p.Source.(model.ProductIdentifier)
			return string(ident.IdentifierType), nil
		}},
		"value": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			ident, _ := p.Source.(model.ProductIdentifier)
			return ident.Value, nil
		}},
	},
})

// LinkType defines the GraphQL object for product links
var LinkType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Link",
	Fields: graphql.Fields{
		"id": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			link, _ := p.Source.(model.ProductLink)
			return link.ID, nil
		}},
		"link_type": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			link, _ := p.Source.(model.ProductLink)
			return string(link.LinkType), nil
		}},
		"url": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			link, _ := p.Source.(model.ProductLink)
			return link.URL, nil
		}},
		"description": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			link, _ := p.Source.(model.ProductLink)
			return link.Description, nil
		}},
	},
})

// MetadataType defines the GraphQL object for component metadata
var MetadataType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ComponentMetadata",
	Fields: graphql.Fields{
		"supplier_name": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			meta, _ := p.Source.(model.ComponentMetaInfo)
			return meta.Supplier.Name, nil
		}},
		"supplier_url": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			meta, _ := p.Source.(model.ComponentMetaInfo)
			return meta.Supplier.URL, nil
		}},
		"licenses": &graphql.Field{Type: graphql.NewList(graphql.String), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			meta, _ := p.Source.(model.ComponentMetaInfo)
			return meta.Licenses, nil
		}},
		"lifecycle_phase": &graphql.Field{Type: LifecyclePhaseType, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			meta, _ := p.Source.(model.ComponentMetaInfo)
			return string(meta.LifecyclePhase), nil
		}},
	},
})

// PurlType defines the GraphQL object for package URL hub entries
var PurlType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Purl",
	Fields: graphql.Fields{
		"key": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			purl, _ := p.Source.(model.PURL)
			return purl.Key, nil
		}},
		"purl": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			purl, _ := p.Source.(model.PURL)
			return purl.Purl, nil
		}},
	},
})

// ReleaseType defines the GraphQL object for component releases
var ReleaseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Release",
	Fields: graphql.Fields{
		"key": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			release, _ := p.Source.(model.Release)
			return release.Key, nil
		}},
		"component_key": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			release, _ := p.Source.(model.Release)
			return release.ComponentKey, nil
		}},
		"version": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			release, _ := p.Source.(model.Release)
			return release.Version, nil
		}},
		"description": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			release, _ := p.Source.(model.Release)
			return release.Description, nil
		}},
		"is_public": &graphql.Field{Type: graphql.Boolean, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			release, _ := p.Source.(model.Release)
			return release.IsPublic, nil
		}},
		"is_prerelease": &graphql.Field{Type: graphql.Boolean, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			release, _ := p.Source.(model.Release)
			return release.IsPrerelease, nil
		}},
		"created_at": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			release, _ := p.Source.(model.Release)
			return release.CreatedAt, nil
		}},
		"is_latest": &graphql.Field{
			Type: graphql.Boolean,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				release, ok := p.Source.(model.Release)
				if !ok {
					return false, nil
				}
				versions, err := resolveComponentVersions(release.ComponentKey)
				if err != nil {
					return nil, err
				}
				latest := util.PickLatestVersion(versions)
				return latest != "" && release.Version == latest, nil
			},
		},
		"artifacts_count": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				release, ok := p.Source.(model.Release)
				if !ok {
					return 0, nil
				}
				return database.CountOutbound(context.Background(), db.Database,
					database.EdgeRelease2Artifact, database.ColRelease+"/"+release.Key)
			},
		},
	},
})

// ComponentType defines the GraphQL object for catalog components
var ComponentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Component",
	Fields: graphql.Fields{
		"key": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			component, _ := p.Source.(model.Component)
			return component.Key, nil
		}},
		"name": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			component, _ := p.Source.(model.Component)
			return component.Name, nil
		}},
		"component_type": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			component, _ := p.Source.(model.Component)
			return string(component.ComponentType), nil
		}},
		"is_public": &graphql.Field{Type: graphql.Boolean, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			component, _ := p.Source.(model.Component)
			return component.IsPublic, nil
		}},
		"metadata": &graphql.Field{Type: MetadataType, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			component, _ := p.Source.(model.Component)
			return component.Metadata, nil
		}},
		"releases": &graphql.Field{
			Type: graphql.NewList(ReleaseType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				component, ok := p.Source.(model.Component)
				if !ok {
					return nil, nil
				}
				return resolveComponentReleases(component.Key)
			},
		},
	},
})

// ProjectType defines the GraphQL object for catalog projects
var ProjectType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Project",
	Fields: graphql.Fields{
		"key": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			project, _ := p.Source.(model.Project)
			return project.Key, nil
		}},
		"name": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			project, _ := p.Source.(model.Project)
			return project.Name, nil
		}},
		"project_type": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			project, _ := p.Source.(model.Project)
			return project.ProjectType, nil
		}},
		"is_public": &graphql.Field{Type: graphql.Boolean, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			project, _ := p.Source.(model.Project)
			return project.IsPublic, nil
		}},
		"components": &graphql.Field{
			Type: graphql.NewList(ComponentType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				project, ok := p.Source.(model.Project)
				if !ok {
					return nil, nil
				}
				return resolveOutbound[model.Component]("project", "project2component", project.Key)
			},
		},
	},
})

// ProductType defines the GraphQL object for catalog products
var ProductType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"key": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			product, _ := p.Source.(model.Product)
			return product.Key, nil
		}},
		"name": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			product, _ := p.Source.(model.Product)
			return product.Name, nil
		}},
		"description": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			product, _ := p.Source.(model.Product)
			return product.Description, nil
		}},
		"is_public": &graphql.Field{Type: graphql.Boolean, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			product, _ := p.Source.(model.Product)
			return product.IsPublic, nil
		}},
		"identifiers": &graphql.Field{Type: graphql.NewList(IdentifierType), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			product, _ := p.Source.(model.Product)
			return product.Identifiers, nil
		}},
		"links": &graphql.Field{Type: graphql.NewList(LinkType), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			product, _ := p.Source.(model.Product)
			return product.Links, nil
		}},
		"projects": &graphql.Field{
			Type: graphql.NewList(ProjectType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				product, ok := p.Source.(model.Product)
				if !ok {
					return nil, nil
				}
				return resolveOutbound[model.Project]("product", "product2project", product.Key)
			},
		},
	},
})

// resolveOutbound loads the 1-hop outbound neighbors of a document
func resolveOutbound[T any](collection, edgeCollection, key string) ([]T, error) {
	ctx := context.Background()
	query := `
		FOR d IN @@col
			FILTER d._key == @key
			FOR v IN 1..1 OUTBOUND d @@edges
				SORT v.name ASC
				RETURN v
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"@col":   collection,
		"@edges": edgeCollection,
		"key":    key,
	}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var items []T
	for cursor.HasMore() {
		var item T
		if _, err := cursor.ReadDocument(ctx, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// resolveComponentReleases loads a component's releases, newest first
func resolveComponentReleases(componentKey string) ([]model.Release, error) {
	ctx := context.Background()
	query := `
		FOR r IN release
			FILTER r.component_key == @key
			SORT r.created_at DESC
			RETURN r
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"key": componentKey,
	}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var releases []model.Release
	for cursor.HasMore() {
		var release model.Release
		if _, err := cursor.ReadDocument(ctx, &release); err != nil {
			return nil, err
		}
		releases = append(releases, release)
	}
	return releases, nil
}

// resolveComponentVersions loads every version string of a component
func resolveComponentVersions(componentKey string) ([]string, error) {
	ctx := context.Background()
	query := `
		FOR r IN release
			FILTER r.component_key == @key
			RETURN r.version
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"key": componentKey,
	}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var versions []string
	for cursor.HasMore() {
		var version string
		if _, err := cursor.ReadDocument(ctx, &version); err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, nil
}

// resolvePurls lists PURL hub entries sorted by package URL
func resolvePurls(limit int) ([]model.PURL, error) {
	ctx := context.Background()
	query := `
		FOR d IN purl
			SORT d.purl ASC
			LIMIT @limit
			RETURN d
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"limit": limit,
	}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var purls []model.PURL
	for cursor.HasMore() {
		var purl model.PURL
		if _, err := cursor.ReadDocument(ctx, &purl); err != nil {
			return nil, err
		}
		purls = append(purls, purl)
	}
	return purls, nil
}

// resolveList pages through a collection sorted by name
func resolveList[T any](collection string, limit int) ([]T, error) {
	ctx := context.Background()
	query := `
		FOR d IN @@col
			SORT d.name ASC
			LIMIT @limit
			RETURN d
	`
	cursor, err := db.Database.Query(ctx, query, queryOpts(map[string]interface{}{
		"@col":  collection,
		"limit": limit,
	}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var items []T
	for cursor.HasMore() {
		var item T
		if _, err := cursor.ReadDocument(ctx, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// resolveByKey loads a single document by key
func resolveByKey[T any](collection, key string) (interface{}, error) {
	var item T
	found, err := database.GetByKey(context.Background(), db.Database, collection, key, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return item, nil
}

// CreateSchema builds the read-only query schema for the catalog
func CreateSchema() (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(ProductType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := p.Args["limit"].(int)
					return resolveList[model.Product](database.ColProduct, limit)
				},
			},
			"product": &graphql.Field{
				Type: ProductType,
				Args: graphql.FieldConfigArgument{
					"key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return resolveByKey[model.Product](database.ColProduct, p.Args["key"].(string))
				},
			},
			"projects": &graphql.Field{
				Type: graphql.NewList(ProjectType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := p.Args["limit"].(int)
					return resolveList[model.Project](database.ColProject, limit)
				},
			},
			"components": &graphql.Field{
				Type: graphql.NewList(ComponentType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := p.Args["limit"].(int)
					return resolveList[model.Component](database.ColComponent, limit)
				},
			},
			"component": &graphql.Field{
				Type: ComponentType,
				Args: graphql.FieldConfigArgument{
					"key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return resolveByKey[model.Component](database.ColComponent, p.Args["key"].(string))
				},
			},
			"releases": &graphql.Field{
				Type: graphql.NewList(ReleaseType),
				Args: graphql.FieldConfigArgument{
					"component_key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return resolveComponentReleases(p.Args["component_key"].(string))
				},
			},
			"purls": &graphql.Field{
				Type: graphql.NewList(PurlType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := p.Args["limit"].(int)
					return resolvePurls(limit)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}
