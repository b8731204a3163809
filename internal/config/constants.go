package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultEnvFile is read before the environment when present
	DefaultEnvFile = ".env"

	// DefaultBooksPerPage is the list page size
	DefaultBooksPerPage = 36
)

type CatalogSource string

const (
	CatalogSourceSQLite   CatalogSource = "sqlite"   // gorm store at DATABASE_PATH (default)
	CatalogSourceJSON     CatalogSource = "json"     // read-only JSON dataset at CATALOG_PATH
	CatalogSourcePostgres CatalogSource = "postgres" // tables at CATALOG_POSTGRES_DSN
)
