package source

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB reads the legacy shop schema. It never writes; every scan uses keyset
// pagination on the table's primary id so concurrent inserts on the source
// cannot shift pages under us.
type DB struct {
	db       *gorm.DB
	prefix   string
	pageSize int
}

// Conn carries the legacy connection settings. Batch messages serialize it so
// workers can reconnect on their side.
type Conn struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	Host        string `json:"host"`
	Database    string `json:"database"`
	TablePrefix string `json:"table_prefix"`
}

func Open(conn Conn, pageSize int) (*DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8&parseTime=True",
		conn.Login, conn.Password, conn.Host, conn.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to source database: %w", err)
	}

	return New(db, conn.TablePrefix, pageSize), nil
}

// New wraps an existing connection; tests feed it a sqlite fixture.
func New(db *gorm.DB, prefix string, pageSize int) *DB {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &DB{db: db, prefix: prefix, pageSize: pageSize}
}

// Ping probes the connection with the cheapest possible product query.
// A failure here is fatal to the whole run.
func (d *DB) Ping() error {
	var row ProductRow
	err := d.table("products").Limit(1).Find(&row).Error
	if err != nil {
		return fmt.Errorf("source database unreachable: %w", err)
	}
	return nil
}

func (d *DB) table(name string) *gorm.DB {
	return d.db.Table(d.prefix + name)
}
