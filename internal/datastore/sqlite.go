package datastore

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"grazbib/internal/models"
)

const searchesSchema = `CREATE TABLE IF NOT EXISTS searches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	search_type TEXT NOT NULL,
	total_results INTEGER NOT NULL,
	search_time_ms REAL,
	searched_at TEXT NOT NULL
)`

const booksSchema = `CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	search_id INTEGER NOT NULL REFERENCES searches(id),
	title TEXT NOT NULL,
	author TEXT,
	isbn TEXT,
	publisher TEXT,
	publication_year INTEGER,
	medium_type TEXT,
	catalog_id TEXT,
	availability TEXT,
	location TEXT,
	url TEXT
)`

// SQLiteStore implements Store on a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLiteStore instance.
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Connect opens the database and ensures the archive tables exist.
func (s *SQLiteStore) Connect() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	for _, schema := range []string{searchesSchema, booksSchema} {
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// SaveResult archives a search and its books in one transaction.
func (s *SQLiteStore) SaveResult(result *models.SearchResult) error {
	if result == nil {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback()
	}()

	res, err := tx.Exec(
		`INSERT INTO searches (query, search_type, total_results, search_time_ms, searched_at)
		 VALUES (?, ?, ?, ?, ?)`,
		result.Query, string(result.SearchType), result.TotalResults,
		result.SearchTimeMs, result.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert search: %w", err)
	}

	searchID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read search id: %w", err)
	}

	if err := batchInsertBooks(tx, searchID, result.Books); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func batchInsertBooks(tx *sql.Tx, searchID int64, books []models.Book) error {
	if len(books) == 0 {
		return nil
	}

	columns := []string{
		"search_id", "title", "author", "isbn", "publisher",
		"publication_year", "medium_type", "catalog_id",
		"availability", "location", "url",
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf(
		"INSERT INTO books (%s) VALUES (%s)",
		strings.Join(columns, ", "), placeholders,
	)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, book := range books {
		_, err := stmt.Exec(
			searchID, book.Title, book.Author, book.ISBN, book.Publisher,
			book.PublicationYear, book.MediumType, book.CatalogID,
			book.Availability, book.Location, book.URL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert book: %w", err)
		}
	}
	return nil
}

// CountSearches returns how many searches the archive holds.
func (s *SQLiteStore) CountSearches() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM searches").Scan(&count)
	return count, err
}

// CountBooks returns how many archived books match the query text.
func (s *SQLiteStore) CountBooks(query string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM books b
		 JOIN searches s ON s.id = b.search_id
		 WHERE s.query = ?`, query).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
