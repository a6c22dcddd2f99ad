package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-translatable/internal/domain"
	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

const (
	columnID       = "id"
	columnMasterID = "master_id"
	columnLanguage = "language_code"
)

// BunStore persists translation rows in companion tables through Bun. Tables
// are addressed dynamically so one store serves every registered schema.
type BunStore struct {
	db     *bun.DB
	logger interfaces.Logger
}

// BunStoreOption customizes a BunStore.
type BunStoreOption func(*BunStore)

// WithLogger attaches a logger used for statement failures.
func WithLogger(logger interfaces.Logger) BunStoreOption {
	return func(s *BunStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBunStore constructs a Bun-backed store.
func NewBunStore(db *bun.DB, opts ...BunStoreOption) *BunStore {
	store := &BunStore{db: db, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// DB exposes the underlying handle.
func (s *BunStore) DB() *bun.DB {
	return s.db
}

func (s *BunStore) Insert(ctx context.Context, table interfaces.TranslationTable, row *interfaces.TranslationRow) error {
	if s.db == nil {
		return ErrNilDB
	}
	if row == nil {
		return errors.New("storage: nil translation row")
	}
	values := rowValues(table, row)
	values[columnID] = row.ID.String()

	_, err := s.db.NewInsert().
		Model(&values).
		TableExpr("?", bun.Ident(table.TableName())).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return &UniqueViolationError{
				Table:    table.TableName(),
				MasterID: row.MasterID,
				Language: row.LanguageCode,
				Err:      err,
			}
		}
		s.logger.WithContext(ctx).Error("storage.insert_failed", "table", table.TableName(), "error", err)
		return fmt.Errorf("storage: insert into %s: %w", table.TableName(), err)
	}
	return nil
}

func (s *BunStore) Update(ctx context.Context, table interfaces.TranslationTable, row *interfaces.TranslationRow) error {
	if s.db == nil {
		return ErrNilDB
	}
	if row == nil {
		return errors.New("storage: nil translation row")
	}
	values := rowValues(table, row)

	res, err := s.db.NewUpdate().
		Model(&values).
		TableExpr("?", bun.Ident(table.TableName())).
		Where("? = ?", bun.Ident(columnID), row.ID.String()).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return &UniqueViolationError{
				Table:    table.TableName(),
				MasterID: row.MasterID,
				Language: row.LanguageCode,
				Err:      err,
			}
		}
		s.logger.WithContext(ctx).Error("storage.update_failed", "table", table.TableName(), "error", err)
		return fmt.Errorf("storage: update %s: %w", table.TableName(), err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("storage: update %s %s: %w", table.TableName(), row.ID, ErrRowNotFound)
	}
	return nil
}

func (s *BunStore) Get(ctx context.Context, table interfaces.TranslationTable, masterID uuid.UUID, language string) (*interfaces.TranslationRow, error) {
	rows, err := s.selectRows(ctx, table, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? = ?", bun.Ident(columnMasterID), masterID.String()).
			Where("? = ?", bun.Ident(columnLanguage), language).
			Limit(1)
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrRowNotFound
	}
	return rows[0], nil
}

// First returns the row with the lowest language code for masterID.
func (s *BunStore) First(ctx context.Context, table interfaces.TranslationTable, masterID uuid.UUID) (*interfaces.TranslationRow, error) {
	rows, err := s.selectRows(ctx, table, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? = ?", bun.Ident(columnMasterID), masterID.String()).
			OrderExpr("? ASC", bun.Ident(columnLanguage)).
			Limit(1)
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrRowNotFound
	}
	return rows[0], nil
}

func (s *BunStore) Languages(ctx context.Context, table interfaces.TranslationTable, masterID uuid.UUID) ([]string, error) {
	if s.db == nil {
		return nil, ErrNilDB
	}
	var codes []string
	err := s.db.NewSelect().
		TableExpr("?", bun.Ident(table.TableName())).
		ColumnExpr("DISTINCT ?", bun.Ident(columnLanguage)).
		Where("? = ?", bun.Ident(columnMasterID), masterID.String()).
		OrderExpr("? ASC", bun.Ident(columnLanguage)).
		Scan(ctx, &codes)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: list languages in %s: %w", table.TableName(), err)
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

func (s *BunStore) Delete(ctx context.Context, table interfaces.TranslationTable, id uuid.UUID) error {
	if s.db == nil {
		return ErrNilDB
	}
	res, err := s.db.NewDelete().
		TableExpr("?", bun.Ident(table.TableName())).
		Where("? = ?", bun.Ident(columnID), id.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storage: delete from %s: %w", table.TableName(), err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrRowNotFound
	}
	return nil
}

func (s *BunStore) DeleteByMaster(ctx context.Context, table interfaces.TranslationTable, masterID uuid.UUID) error {
	if s.db == nil {
		return ErrNilDB
	}
	_, err := s.db.NewDelete().
		TableExpr("?", bun.Ident(table.TableName())).
		Where("? = ?", bun.Ident(columnMasterID), masterID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storage: delete rows of %s from %s: %w", masterID, table.TableName(), err)
	}
	return nil
}

// CreateTable creates the companion table with its uniqueness constraint and
// language index. Intended for development and tests; production schemas are
// owned by the host application's migrations.
func (s *BunStore) CreateTable(ctx context.Context, table interfaces.TranslationTable) error {
	if s.db == nil {
		return ErrNilDB
	}
	name := table.TableName()

	var (
		defs []string
		args []any
	)
	defs = append(defs, "? VARCHAR(36) PRIMARY KEY")
	args = append(args, bun.Ident(columnID))

	if master := table.MasterTableName(); master != "" {
		defs = append(defs, "? VARCHAR(36) REFERENCES ? (?) ON DELETE CASCADE")
		args = append(args, bun.Ident(columnMasterID), bun.Ident(master), bun.Ident(columnID))
	} else {
		defs = append(defs, "? VARCHAR(36)")
		args = append(args, bun.Ident(columnMasterID))
	}

	defs = append(defs, fmt.Sprintf("? VARCHAR(%d) NOT NULL", domain.MaxLanguageCodeLength))
	args = append(args, bun.Ident(columnLanguage))

	for _, col := range table.Columns() {
		sqlType, err := columnType(s.db.Dialect().Name(), col.Kind)
		if err != nil {
			return err
		}
		defs = append(defs, "? "+sqlType)
		args = append(args, bun.Ident(col.Name))
	}

	defs = append(defs, "UNIQUE (?, ?)")
	args = append(args, bun.Ident(columnLanguage), bun.Ident(columnMasterID))

	query := "CREATE TABLE IF NOT EXISTS ? (" + strings.Join(defs, ", ") + ")"
	args = append([]any{bun.Ident(name)}, args...)
	if _, err := s.db.NewRaw(query, args...).Exec(ctx); err != nil {
		return fmt.Errorf("storage: create table %s: %w", name, err)
	}

	if _, err := s.db.NewRaw("CREATE INDEX IF NOT EXISTS ? ON ? (?)",
		bun.Ident(name+"_language_code_idx"), bun.Ident(name), bun.Ident(columnLanguage),
	).Exec(ctx); err != nil {
		return fmt.Errorf("storage: index %s: %w", name, err)
	}
	return nil
}

func (s *BunStore) selectRows(ctx context.Context, table interfaces.TranslationTable, apply func(*bun.SelectQuery) *bun.SelectQuery) ([]*interfaces.TranslationRow, error) {
	if s.db == nil {
		return nil, ErrNilDB
	}
	q := s.db.NewSelect().TableExpr("?", bun.Ident(table.TableName()))
	for _, name := range columnNames(table) {
		q = q.ColumnExpr("?", bun.Ident(name))
	}

	var raw []map[string]any
	if err := apply(q).Scan(ctx, &raw); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: select from %s: %w", table.TableName(), err)
	}

	rows := make([]*interfaces.TranslationRow, 0, len(raw))
	for _, values := range raw {
		row, err := decodeRow(table, values)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func columnNames(table interfaces.TranslationTable) []string {
	names := []string{columnID, columnMasterID, columnLanguage}
	for _, col := range table.Columns() {
		names = append(names, col.Name)
	}
	return names
}

func rowValues(table interfaces.TranslationTable, row *interfaces.TranslationRow) map[string]any {
	values := map[string]any{
		columnMasterID: row.MasterID.String(),
		columnLanguage: row.LanguageCode,
	}
	for _, col := range table.Columns() {
		values[col.Name] = row.Values[col.Name]
	}
	return values
}

func decodeRow(table interfaces.TranslationTable, values map[string]any) (*interfaces.TranslationRow, error) {
	id, err := parseUUID(values[columnID])
	if err != nil {
		return nil, fmt.Errorf("storage: %s.id: %w", table.TableName(), err)
	}
	masterID, err := parseUUID(values[columnMasterID])
	if err != nil {
		return nil, fmt.Errorf("storage: %s.master_id: %w", table.TableName(), err)
	}
	language, _ := domain.CoerceValue(interfaces.FieldString, values[columnLanguage])
	code, _ := language.(string)

	row := &interfaces.TranslationRow{
		ID:           id,
		MasterID:     masterID,
		LanguageCode: code,
		Values:       make(map[string]any, len(table.Columns())),
	}
	for _, col := range table.Columns() {
		value, err := domain.CoerceValue(col.Kind, values[col.Name])
		if err != nil {
			return nil, fmt.Errorf("storage: %s.%s: %w", table.TableName(), col.Name, err)
		}
		row.Values[col.Name] = value
	}
	return row, nil
}

func parseUUID(v any) (uuid.UUID, error) {
	switch val := v.(type) {
	case nil:
		return uuid.Nil, nil
	case string:
		return uuid.Parse(val)
	case []byte:
		if len(val) == 16 {
			return uuid.FromBytes(val)
		}
		return uuid.ParseBytes(val)
	case [16]byte:
		return uuid.UUID(val), nil
	case uuid.UUID:
		return val, nil
	default:
		return uuid.Nil, fmt.Errorf("unsupported id type %T", v)
	}
}

func columnType(name dialect.Name, kind interfaces.FieldKind) (string, error) {
	switch kind {
	case interfaces.FieldString:
		return "VARCHAR(255)", nil
	case interfaces.FieldText:
		return "TEXT", nil
	case interfaces.FieldInt:
		return "BIGINT", nil
	case interfaces.FieldFloat:
		if name == dialect.SQLite {
			return "REAL", nil
		}
		return "DOUBLE PRECISION", nil
	case interfaces.FieldBool:
		return "BOOLEAN", nil
	default:
		return "", fmt.Errorf("storage: unsupported field kind %q", kind)
	}
}

var _ interfaces.TranslationStore = (*BunStore)(nil)
