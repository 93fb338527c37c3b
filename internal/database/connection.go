package database

import (
	"context"
	"database/sql"
	"sync"

	"github.com/gestfin/gestfin/internal/config"
	log "github.com/sirupsen/logrus"
)

// Connection hands out the one database handle of the process. The first
// Get opens the store and migrates it; concurrent first callers wait for that
// single initialization and all receive the same handle or the same error.
type Connection struct {
	cfg  config.Database
	once sync.Once
	db   *sql.DB
	err  error
}

func NewConnection(cfg config.Database) *Connection {
	return &Connection{cfg: cfg}
}

func (c *Connection) Get(ctx context.Context) (*sql.DB, error) {
	c.once.Do(func() {
		db, err := Open(c.cfg)
		if err != nil {
			c.err = err
			return
		}
		if err := Migrate(ctx, db); err != nil {
			db.Close()
			c.err = err
			return
		}
		log.Infof("database ready at %s", c.cfg.Path)
		c.db = db
	})
	return c.db, c.err
}

func (c *Connection) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
