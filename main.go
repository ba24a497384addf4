// package main provides the entry point and API handlers for the scec-purl
// microservice: purl canonicalization endpoints, catalog storage, and the
// GraphQL read API.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/graphql-go/graphql"

	"github.com/ortelius/scec-purl/database"
	gqlschema "github.com/ortelius/scec-purl/graphql"
	"github.com/ortelius/scec-purl/model"
	"github.com/ortelius/scec-purl/purl"
	"github.com/ortelius/scec-purl/util"
)

var db database.DBConnection

// canonicalizeBatch runs every input through the engine and reports
// per-item results. Documents are built only for the inputs that parse.
func canonicalizeBatch(purls []string) ([]model.PurlResult, []model.PURL) {
	results := make([]model.PurlResult, 0, len(purls))
	var docs []model.PURL

	for _, raw := range purls {
		parsed, err := purl.FromString(raw)
		if err != nil {
			results = append(results, model.PurlResult{Input: raw, Error: err.Error()})
			continue
		}

		canonical := parsed.ToString()
		base, err := util.GetBasePURL(canonical)
		if err != nil {
			results = append(results, model.PurlResult{Input: raw, Error: err.Error()})
			continue
		}

		results = append(results, model.PurlResult{
			Input:     raw,
			Canonical: canonical,
			BasePurl:  base,
		})

		doc := model.NewPURL()
		doc.Purl = canonical
		doc.BasePurl = base
		doc.Type = parsed.Type
		doc.Namespace = parsed.Namespace
		doc.Name = parsed.Name
		doc.Version = parsed.Version
		doc.Subpath = parsed.Subpath
		if len(parsed.Qualifiers) > 0 {
			doc.Qualifiers = parsed.Qualifiers.Map()
		}
		doc.VersionMajor, doc.VersionMinor, doc.VersionPatch = util.VersionParts(parsed.Version)
		docs = append(docs, *doc)
	}

	return results, docs
}

// batchUpsertPURLs stores catalog documents in a single query, keyed by the
// canonical purl string so reposting the same purl never duplicates it.
func batchUpsertPURLs(ctx context.Context, docs []model.PURL) error {
	if len(docs) == 0 {
		return nil
	}

	query := `
		FOR doc IN @docs
			UPSERT { purl: doc.purl }
			INSERT doc
			UPDATE doc IN purl
	`

	bindVars := map[string]interface{}{
		"docs": docs,
	}

	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}

func countFailed(results []model.PurlResult) int {
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	return failed
}

// PostPurls handles POST requests to canonicalize a batch of purls and
// upsert the valid ones into the catalog
func PostPurls(c *fiber.Ctx) error {
	var req model.PurlBatchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.PurlBatchResponse{
			Success: false,
			Message: "Invalid request body: " + err.Error(),
		})
	}

	if len(req.Purls) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(model.PurlBatchResponse{
			Success: false,
			Message: "purls is a required field and must not be empty",
		})
	}

	results, docs := canonicalizeBatch(req.Purls)

	if err := batchUpsertPURLs(context.Background(), docs); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.PurlBatchResponse{
			Success: false,
			Message: "Failed to save purls: " + err.Error(),
		})
	}

	failed := countFailed(results)
	return c.Status(fiber.StatusCreated).JSON(model.PurlBatchResponse{
		Success: failed == 0,
		Count:   len(results) - failed,
		Failed:  failed,
		Results: results,
	})
}

// PostCanonicalize handles POST requests for pure canonicalization with no
// catalog writes
func PostCanonicalize(c *fiber.Ctx) error {
	var req model.PurlBatchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.PurlBatchResponse{
			Success: false,
			Message: "Invalid request body: " + err.Error(),
		})
	}

	if len(req.Purls) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(model.PurlBatchResponse{
			Success: false,
			Message: "purls is a required field and must not be empty",
		})
	}

	results, _ := canonicalizeBatch(req.Purls)
	failed := countFailed(results)

	return c.JSON(model.PurlBatchResponse{
		Success: failed == 0,
		Count:   len(results) - failed,
		Failed:  failed,
		Results: results,
	})
}

// GetPurl handles GET requests for a single catalog entry; any equivalent
// spelling of the purl matches because the lookup is by canonical form
func GetPurl(c *fiber.Ctx) error {
	raw := c.Query("purl")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "purl query parameter is required",
		})
	}

	parsed, err := purl.FromString(raw)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, purl.ErrMissingScheme) {
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Invalid purl: " + err.Error(),
		})
	}

	doc, found, err := database.FindPURLByCanonical(context.Background(), db.Database, parsed.ToString())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to query purl: " + err.Error(),
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Purl not found: " + parsed.ToString(),
		})
	}

	return c.JSON(doc)
}

// GraphQLHandler executes GraphQL queries against the catalog schema
func GraphQLHandler(schema graphql.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}

		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []string{"Invalid request body: " + err.Error()},
			})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
		})

		return c.JSON(result)
	}
}

// ============================================================================
// Main
// ============================================================================

func main() {
	// Initialize database connection
	db = database.InitializeDatabase()

	// Initialize GraphQL schema
	gqlschema.InitDB(db)
	schema, err := gqlschema.CreateSchema()
	if err != nil {
		log.Fatalf("Failed to create GraphQL schema: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:     "scec-purl API v1.0",
		BodyLimit:   10 * 1024 * 1024, // 10MB limit for purl batches
		ReadTimeout: time.Second * 30,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
		})
	})

	// API routes
	api := app.Group("/api/v1")

	api.Post("/purls", PostPurls)
	api.Post("/purls/canonicalize", PostCanonicalize)
	api.Get("/purls", GetPurl)

	// GraphQL endpoint for catalog reads
	api.Post("/graphql", GraphQLHandler(schema))

	// Get port from environment or default to 3000
	port := os.Getenv("MS_PORT")
	if port == "" {
		port = "3000"
	}

	// Start server
	log.Printf("Starting server on port %s", port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
