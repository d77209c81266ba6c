package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jekabolt/salon-analytics/internal/dto"
	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

// Config defines configurations to connect database
type Config struct {
	DSN                string `mapstructure:"dsn"`
	Automigrate        bool   `mapstructure:"automigrate"`
	MaxOpenConnections int    `mapstructure:"max_open_connections"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections"`
}

// MySQL reads salon records from a MySQL database.
type MySQL struct {
	db *sqlx.DB
}

var versionTables = []string{"appointment", "staff_member", "client", "product", "product_sale", "promotion", "service"}

// New connects to the database and applies migrations when enabled.
func New(ctx context.Context, cfg Config) (*MySQL, error) {
	d, err := sqlx.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("couldn't open database : %v", err)
	}

	if cfg.MaxOpenConnections > 0 {
		d.SetMaxOpenConns(cfg.MaxOpenConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		d.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	d.SetConnMaxLifetime(2 * time.Minute)
	d.SetConnMaxIdleTime(30 * time.Second)

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := d.PingContext(pingCtx); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Automigrate {
		slog.Default().InfoContext(ctx, "applying migrations")
		migrateCtx, migrateCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer migrateCancel()
		if err := MigrateWithContext(migrateCtx, d.DB); err != nil {
			d.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return &MySQL{db: d}, nil
}

func (s *MySQL) Close() error {
	return s.db.Close()
}

func (s *MySQL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

//go:embed sql
var fs embed.FS

func MigrateWithContext(ctx context.Context, db *sql.DB) error {
	m := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: fs,
		Root:       "sql",
	}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := migrate.Exec(db, "mysql", m, migrate.Up)
		done <- result{n: n, err: err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("migration timeout: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("db migrations have failed: %w", res.err)
		}
		slog.Default().InfoContext(ctx, "applied migrations",
			slog.Int("count", res.n),
		)
		return nil
	}
}

// Version changes whenever a row is inserted, updated or deleted in any salon table.
func (s *MySQL) Version(ctx context.Context) (string, error) {
	parts := make([][]byte, 0, len(versionTables))
	for _, table := range versionTables {
		var stat struct {
			Count   int64  `db:"cnt"`
			Updated string `db:"updated"`
		}
		query := fmt.Sprintf(`SELECT COUNT(*) AS cnt, COALESCE(CAST(MAX(updated_at) AS CHAR), '') AS updated FROM %s`, table)
		if err := s.db.GetContext(ctx, &stat, query); err != nil {
			return "", fmt.Errorf("can't get %s version: %w", table, err)
		}
		parts = append(parts, []byte(fmt.Sprintf("%s=%d@%s", table, stat.Count, stat.Updated)))
	}
	return versionOf(parts...), nil
}

type appointmentRow struct {
	dto.Appointment
	AddonsCSV sql.NullString `db:"addons"`
}

type saleRow struct {
	dto.Sale
	ProductID string `db:"product_id"`
}

const (
	selectAppointments = `SELECT id, date, staff_id, client_id, client_name, service_id, price, duration, status,
		promo_id, is_package, addons, is_first_visit, business_id FROM appointment ORDER BY date, id`
	selectStaff      = `SELECT id, name, hours_per_week, google_calendar_hours, status, business_id FROM staff_member ORDER BY id`
	selectClients    = `SELECT id, name, business_id FROM client ORDER BY id`
	selectProducts   = `SELECT id, name, category, price, stock, business_id FROM product ORDER BY id`
	selectSales      = `SELECT product_id, date, quantity, staff_id, business_id FROM product_sale ORDER BY id`
	selectPromotions = `SELECT id, name, code, view_count, business_id FROM promotion ORDER BY id`
	selectServices   = `SELECT id, name, business_id FROM service ORDER BY id`
)

// Dataset reads every table inside one read-only transaction so the snapshot is consistent.
func (s *MySQL) Dataset(ctx context.Context) (*entity.Dataset, error) {
	version, err := s.Version(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("can't begin read transaction: %w", err)
	}
	defer tx.Rollback()

	raw := &dto.Dataset{Version: version}

	var appts []appointmentRow
	if err := tx.SelectContext(ctx, &appts, selectAppointments); err != nil {
		return nil, fmt.Errorf("can't select appointments: %w", err)
	}
	for _, r := range appts {
		a := r.Appointment
		a.Addons = splitAddons(r.AddonsCSV)
		raw.Appointments = append(raw.Appointments, a)
	}

	if err := tx.SelectContext(ctx, &raw.Staff, selectStaff); err != nil {
		return nil, fmt.Errorf("can't select staff: %w", err)
	}
	if err := tx.SelectContext(ctx, &raw.Clients, selectClients); err != nil {
		return nil, fmt.Errorf("can't select clients: %w", err)
	}
	if err := tx.SelectContext(ctx, &raw.Products, selectProducts); err != nil {
		return nil, fmt.Errorf("can't select products: %w", err)
	}
	var sales []saleRow
	if err := tx.SelectContext(ctx, &sales, selectSales); err != nil {
		return nil, fmt.Errorf("can't select product sales: %w", err)
	}
	attachSales(raw.Products, sales)
	if err := tx.SelectContext(ctx, &raw.Promotions, selectPromotions); err != nil {
		return nil, fmt.Errorf("can't select promotions: %w", err)
	}
	if err := tx.SelectContext(ctx, &raw.Services, selectServices); err != nil {
		return nil, fmt.Errorf("can't select services: %w", err)
	}

	ds := dto.NormalizeDataset(raw)
	ds.Version = version
	return ds, nil
}

func attachSales(products []dto.Product, sales []saleRow) {
	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}
	for _, s := range sales {
		if i, ok := index[s.ProductID]; ok {
			products[i].Sales = append(products[i].Sales, s.Sale)
		}
	}
}

func splitAddons(s sql.NullString) []string {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return []string{}
	}
	parts := strings.Split(s.String, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinAddons(addons []string) sql.NullString {
	if len(addons) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(addons, ","), Valid: true}
}

const (
	upsertAppointment = `INSERT INTO appointment (id, date, staff_id, client_id, client_name, service_id, price, duration,
		status, promo_id, is_package, addons, is_first_visit, business_id)
		VALUES (:id, :date, :staff_id, :client_id, :client_name, :service_id, :price, :duration,
		:status, :promo_id, :is_package, :addons, :is_first_visit, :business_id)
		ON DUPLICATE KEY UPDATE date = VALUES(date), staff_id = VALUES(staff_id), client_id = VALUES(client_id),
		client_name = VALUES(client_name), service_id = VALUES(service_id), price = VALUES(price),
		duration = VALUES(duration), status = VALUES(status), promo_id = VALUES(promo_id),
		is_package = VALUES(is_package), addons = VALUES(addons), is_first_visit = VALUES(is_first_visit),
		business_id = VALUES(business_id)`
	upsertStaff = `INSERT INTO staff_member (id, name, hours_per_week, google_calendar_hours, status, business_id)
		VALUES (:id, :name, :hours_per_week, :google_calendar_hours, :status, :business_id)
		ON DUPLICATE KEY UPDATE name = VALUES(name), hours_per_week = VALUES(hours_per_week),
		google_calendar_hours = VALUES(google_calendar_hours), status = VALUES(status), business_id = VALUES(business_id)`
	upsertClient = `INSERT INTO client (id, name, business_id) VALUES (:id, :name, :business_id)
		ON DUPLICATE KEY UPDATE name = VALUES(name), business_id = VALUES(business_id)`
	upsertProduct = `INSERT INTO product (id, name, category, price, stock, business_id)
		VALUES (:id, :name, :category, :price, :stock, :business_id)
		ON DUPLICATE KEY UPDATE name = VALUES(name), category = VALUES(category), price = VALUES(price),
		stock = VALUES(stock), business_id = VALUES(business_id)`
	insertSale = `INSERT INTO product_sale (product_id, date, quantity, staff_id, business_id)
		VALUES (:product_id, :date, :quantity, :staff_id, :business_id)`
	upsertPromotion = `INSERT INTO promotion (id, name, code, view_count, business_id)
		VALUES (:id, :name, :code, :view_count, :business_id)
		ON DUPLICATE KEY UPDATE name = VALUES(name), code = VALUES(code), view_count = VALUES(view_count),
		business_id = VALUES(business_id)`
	upsertService = `INSERT INTO service (id, name, business_id) VALUES (:id, :name, :business_id)
		ON DUPLICATE KEY UPDATE name = VALUES(name), business_id = VALUES(business_id)`
)

// Import upserts every record of ds. Product sales are replaced per product.
func (s *MySQL) Import(ctx context.Context, ds *dto.Dataset) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin import transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range ds.Appointments {
		row := appointmentRow{Appointment: a, AddonsCSV: joinAddons(a.Addons)}
		if _, err := tx.NamedExecContext(ctx, upsertAppointment, row); err != nil {
			return fmt.Errorf("can't upsert appointment %s: %w", a.ID, err)
		}
	}
	for _, m := range ds.Staff {
		if _, err := tx.NamedExecContext(ctx, upsertStaff, m); err != nil {
			return fmt.Errorf("can't upsert staff member %s: %w", m.ID, err)
		}
	}
	for _, c := range ds.Clients {
		if _, err := tx.NamedExecContext(ctx, upsertClient, c); err != nil {
			return fmt.Errorf("can't upsert client %s: %w", c.ID, err)
		}
	}
	for _, p := range ds.Products {
		if _, err := tx.NamedExecContext(ctx, upsertProduct, p); err != nil {
			return fmt.Errorf("can't upsert product %s: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_sale WHERE product_id = ?`, p.ID); err != nil {
			return fmt.Errorf("can't clear sales of product %s: %w", p.ID, err)
		}
		for _, sale := range p.Sales {
			if _, err := tx.NamedExecContext(ctx, insertSale, saleRow{Sale: sale, ProductID: p.ID}); err != nil {
				return fmt.Errorf("can't insert sale of product %s: %w", p.ID, err)
			}
		}
	}
	for _, p := range ds.Promotions {
		if _, err := tx.NamedExecContext(ctx, upsertPromotion, p); err != nil {
			return fmt.Errorf("can't upsert promotion %s: %w", p.ID, err)
		}
	}
	for _, sv := range ds.Services {
		if _, err := tx.NamedExecContext(ctx, upsertService, sv); err != nil {
			return fmt.Errorf("can't upsert service %s: %w", sv.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("can't commit import: %w", err)
	}
	return nil
}
