package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/lucroclaro/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		order_id INTEGER NOT NULL UNIQUE,
		order_number INTEGER NOT NULL,
		date TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		gross_revenue REAL NOT NULL,
		platform_fee REAL NOT NULL,
		payment_fee REAL NOT NULL,
		shipping_cost REAL NOT NULL,
		product_cost REAL NOT NULL,
		advertising_cost REAL NOT NULL,
		net_revenue REAL NOT NULL,
		net_margin REAL NOT NULL,
		payment_method TEXT,
		shipping_method TEXT,
		currency TEXT,
		status TEXT NOT NULL,
		products TEXT,
		synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date);
	CREATE INDEX IF NOT EXISTS idx_sales_status ON sales(status);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		platform_fee_pct REAL NOT NULL,
		gateway_fee_overrides TEXT NOT NULL DEFAULT '{}',
		default_ad_spend REAL NOT NULL DEFAULT 0,
		sync_enabled BOOLEAN DEFAULT TRUE,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.", "databasePath", databasePath)
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}
