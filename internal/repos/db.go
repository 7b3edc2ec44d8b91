package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: the driver serializes writers anyway, and a pooled
	// ':memory:' DSN would otherwise give every connection its own database.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the menu if the DB is empty (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure the settings singleton and the admin account exist
	if err := seedSettings(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  image TEXT,
  is_popular INTEGER NOT NULL DEFAULT 0,
  calories INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Orders: backup/analytics copy of WhatsApp checkouts. Never deleted;
-- status is the only field mutated after creation.
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_phone TEXT,
  delivery_type TEXT NOT NULL CHECK (delivery_type IN ('delivery','pickup')),
  address TEXT,
  payment_method TEXT,
  notes TEXT,
  items_json TEXT NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','completed','cancelled')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);

-- Store availability flags: a single row, updated in place
CREATE TABLE IF NOT EXISTS store_settings(
  id TEXT PRIMARY KEY,
  force_close INTEGER NOT NULL DEFAULT 0,
  high_demand INTEGER NOT NULL DEFAULT 0,
  delay_minutes INTEGER NOT NULL DEFAULT 0,
  holiday_mode INTEGER NOT NULL DEFAULT 0,
  holiday_message TEXT NOT NULL DEFAULT '',
  holiday_start TEXT,
  holiday_end TEXT,
  updated_at TEXT
);

-- Users & Sessions (admin back office)
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting menu categories/products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('empanadas','Empanadas'),
	  ('fritos','Fritos'),
	  ('papas','Papas Rellenas'),
	  ('patacones','Patacones'),
	  ('bebidas','Bebidas')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,description,price,image,is_popular) VALUES
	  ('emp-carne','empanadas','Empanada de Carne','Clásica empanada de harina de trigo rellena de carne molida con el sazón de la casa.',2000,'products/emp-carne.jpg',1),
	  ('emp-pollo','empanadas','Empanada de Pollo','Empanada de harina rellena de pollo desmechado jugoso.',2000,'products/emp-pollo.jpg',0),
	  ('emp-hawaiana','empanadas','Empanada Hawaiana','La combinación perfecta de jamón, queso y piña dulce.',2000,'products/emp-hawaiana.jpg',0),
	  ('deditos','fritos','Deditos de Queso','Masa hojaldrada envolviendo un trozo generoso de queso costeño.',2000,'products/deditos.jpg',1),
	  ('carimanola-carne','fritos','Carimañola de Carne','Masa de yuca frita rellena de carne molida.',2500,'products/carimanola-carne.jpg',0),
	  ('papa-carne','papas','Papa Rellena de Carne','Bola de puré de papa apanada rellena de carne guisada y verduras.',3000,'products/papa-carne.jpg',0),
	  ('papa-carne-huevo','papas','Papa Carne con Huevo','Nuestra famosa papa rellena de carne con un huevo cocido entero en su interior.',3000,'products/papa-carne-huevo.jpg',1),
	  ('patacon-carne','patacones','Patacón con Carne','Patacón de guineo verde pisado con carne desmechada, queso costeño y suero.',5000,'products/patacon-carne.jpg',0),
	  ('patacon-trifasico','patacones','Patacón Trifásico','Carne, pollo y chicharrón con todo el suero.',5500,'products/patacon-trifasico.jpg',1),
	  ('gaseosa','bebidas','Gaseosa Personal','Bebida fría 400ml.',3000,'products/gaseosa.jpg',0)`)

	return tx.Commit()
}

// seedSettings guarantees the singleton availability row exists.
func seedSettings(db *sqlx.DB) error {
	_, err := db.Exec(`
		INSERT INTO store_settings(id, force_close, high_demand, delay_minutes, holiday_mode, holiday_message)
		SELECT 'store', 0, 0, 0, 0, ''
		WHERE NOT EXISTS (SELECT 1 FROM store_settings WHERE id='store')
	`)
	return err
}

// seedUsers ensures the back-office admin exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	h, _ := bcrypt.GenerateFromPassword([]byte("Cambiame!1"), 12)

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO users(id,email,name,password_hash,role)
		VALUES('u-admin','admin@elpunto.test','Admin',?, 'ADMIN')
		ON CONFLICT(email) DO NOTHING
	`, string(h)); err != nil {
		return err
	}

	return tx.Commit()
}
