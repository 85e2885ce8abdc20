// Package mysql implements the phonebook store on a MySQL table:
//
//	CREATE TABLE persons (
//		id     BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
//		name   VARCHAR(255) NOT NULL,
//		number VARCHAR(64)  NOT NULL
//	);
//
// Ids are assigned by the database. Names are not required to be unique.
package mysql

import (
	"context"
	"database/sql"
	"strconv"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/model"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store"
)

// Options are the connection parameters of the database.
type Options struct {
	User     string
	Password string
	Host     string
	Database string
}

// Store keeps prepared statements for all operations.
type Store struct {
	db            *sqlx.DB
	mu            sync.Mutex
	prepared      bool
	insert        *sqlx.NamedStmt
	selectAll     *sqlx.Stmt
	selectWhereId *sqlx.Stmt
	updateWhereId *sqlx.Stmt
	deleteWhereId *sqlx.Stmt
}

var _ store.Store = (*Store)(nil)

// CreateDatabase returns a handle to the database described by the options. No connection is
// made until the handle is used.
//
// ClientFoundRows makes UPDATE report matched rather than changed rows, so that an update that
// writes the current values is not mistaken for a missing entry.
func CreateDatabase(options Options) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = options.User
	cfg.Passwd = options.Password
	cfg.Net = "tcp"
	cfg.Addr = options.Host
	cfg.DBName = options.Database
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return sql.Open("mysql", cfg.FormatDSN())
}

// New wraps the specified sql database. The database argument can be a real database for
// production use or a mock database within unit tests. No connection is made until the first
// operation or an explicit Prepare.
func New(sqlDB *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(sqlDB, "mysql")}
}

// Prepare prepares all statements unless that has already succeeded. Every operation calls it
// first, so a database that is unreachable at startup is picked up once it becomes available.
func (s *Store) Prepare(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prepared {
		return nil
	}
	if err := s.prepareStatements(ctx); err != nil {
		s.closeStatements()
		return store.BackendError("prepare statements", err)
	}
	s.prepared = true
	return nil
}

// prepareStatements prepares the statements in a fixed order. The caller holds s.mu.
func (s *Store) prepareStatements(ctx context.Context) error {
	var err error
	s.insert, err = s.db.PrepareNamedContext(ctx, `
		INSERT INTO persons (name, number)
		VALUES (:name, :number)
	`)
	if err != nil {
		return err
	}
	s.selectAll, err = s.db.PreparexContext(ctx, `
		SELECT id, name, number FROM persons ORDER BY id
	`)
	if err != nil {
		return err
	}
	s.selectWhereId, err = s.db.PreparexContext(ctx, `
		SELECT id, name, number FROM persons WHERE id = ?
	`)
	if err != nil {
		return err
	}
	s.updateWhereId, err = s.db.PreparexContext(ctx, `
		UPDATE persons SET name = ?, number = ? WHERE id = ?
	`)
	if err != nil {
		return err
	}
	s.deleteWhereId, err = s.db.PreparexContext(ctx, `
		DELETE FROM persons WHERE id = ?
	`)
	return err
}

// closeStatements releases the statements prepared so far. The caller holds s.mu.
func (s *Store) closeStatements() {
	if s.insert != nil {
		s.insert.Close()
		s.insert = nil
	}
	for _, stmt := range []**sqlx.Stmt{&s.selectAll, &s.selectWhereId, &s.updateWhereId, &s.deleteWhereId} {
		if *stmt != nil {
			(*stmt).Close()
			*stmt = nil
		}
	}
	s.prepared = false
}

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the prepared statements and the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closeStatements()
	s.mu.Unlock()
	return s.db.Close()
}

func (s *Store) List(ctx context.Context) ([]model.Entry, error) {
	if err := s.Prepare(ctx); err != nil {
		return nil, err
	}
	entries := []model.Entry{}
	if err := s.selectAll.SelectContext(ctx, &entries); err != nil {
		return nil, store.BackendError("select persons", err)
	}
	return entries, nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Entry, error) {
	numericID, err := parseID(id)
	if err != nil {
		return model.Entry{}, err
	}
	if err := s.Prepare(ctx); err != nil {
		return model.Entry{}, err
	}
	var entries []model.Entry
	if err := s.selectWhereId.SelectContext(ctx, &entries, numericID); err != nil {
		return model.Entry{}, store.BackendError("select person", err)
	}
	if len(entries) == 0 {
		return model.Entry{}, store.ErrNotFound
	}
	return entries[0], nil
}

func (s *Store) Create(ctx context.Context, name string, number string) (model.Entry, error) {
	if err := store.ValidateCreate(name, number); err != nil {
		return model.Entry{}, err
	}
	if err := s.Prepare(ctx); err != nil {
		return model.Entry{}, err
	}
	entry := model.Entry{Name: name, Number: number}
	result, err := s.insert.ExecContext(ctx, &entry)
	if err != nil {
		return model.Entry{}, store.BackendError("insert person", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Entry{}, store.BackendError("insert person", err)
	}
	entry.Id = strconv.FormatInt(id, 10)
	return entry, nil
}

func (s *Store) Replace(ctx context.Context, id string, name string, number string) (model.Entry, error) {
	if err := store.ValidateReplace(name, number); err != nil {
		return model.Entry{}, err
	}
	numericID, err := parseID(id)
	if err != nil {
		return model.Entry{}, err
	}
	if err := s.Prepare(ctx); err != nil {
		return model.Entry{}, err
	}
	result, err := s.updateWhereId.ExecContext(ctx, name, number, numericID)
	if err != nil {
		return model.Entry{}, store.BackendError("update person", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Entry{}, store.BackendError("update person", err)
	}
	if rowsAffected == 0 {
		return model.Entry{}, store.NotFoundError("person not found")
	}
	return model.Entry{Id: strconv.FormatInt(numericID, 10), Name: name, Number: number}, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	numericID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.Prepare(ctx); err != nil {
		return err
	}
	if _, err := s.deleteWhereId.ExecContext(ctx, numericID); err != nil {
		return store.BackendError("delete person", err)
	}
	return nil
}

// parseID converts the id of the request URL into the numeric primary key.
func parseID(id string) (int64, error) {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, store.MalformedIDError(err)
	}
	return numericID, nil
}
