package storage

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// MemoryStore keeps translation rows in process memory. It enforces the same
// (master_id, language_code) uniqueness as the SQL stores.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[uuid.UUID]interfaces.TranslationRow
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[uuid.UUID]interfaces.TranslationRow)}
}

func (m *MemoryStore) Insert(_ context.Context, table interfaces.TranslationTable, row *interfaces.TranslationRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.table(table.TableName())
	if _, exists := rows[row.ID]; exists {
		return &UniqueViolationError{Table: table.TableName(), MasterID: row.MasterID, Language: row.LanguageCode, Err: errDuplicateID}
	}
	for _, existing := range rows {
		if existing.MasterID == row.MasterID && existing.LanguageCode == row.LanguageCode {
			return &UniqueViolationError{Table: table.TableName(), MasterID: row.MasterID, Language: row.LanguageCode, Err: errDuplicateLanguage}
		}
	}
	rows[row.ID] = cloneRow(*row)
	return nil
}

func (m *MemoryStore) Update(_ context.Context, table interfaces.TranslationTable, row *interfaces.TranslationRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.table(table.TableName())
	if _, exists := rows[row.ID]; !exists {
		return ErrRowNotFound
	}
	for id, existing := range rows {
		if id != row.ID && existing.MasterID == row.MasterID && existing.LanguageCode == row.LanguageCode {
			return &UniqueViolationError{Table: table.TableName(), MasterID: row.MasterID, Language: row.LanguageCode, Err: errDuplicateLanguage}
		}
	}
	rows[row.ID] = cloneRow(*row)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, table interfaces.TranslationTable, masterID uuid.UUID, language string) (*interfaces.TranslationRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, row := range m.tables[table.TableName()] {
		if row.MasterID == masterID && row.LanguageCode == language {
			out := cloneRow(row)
			return &out, nil
		}
	}
	return nil, ErrRowNotFound
}

func (m *MemoryStore) First(_ context.Context, table interfaces.TranslationTable, masterID uuid.UUID) (*interfaces.TranslationRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var first *interfaces.TranslationRow
	for _, row := range m.tables[table.TableName()] {
		if row.MasterID != masterID {
			continue
		}
		if first == nil || row.LanguageCode < first.LanguageCode {
			candidate := cloneRow(row)
			first = &candidate
		}
	}
	if first == nil {
		return nil, ErrRowNotFound
	}
	return first, nil
}

func (m *MemoryStore) Languages(_ context.Context, table interfaces.TranslationTable, masterID uuid.UUID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	codes := []string{}
	for _, row := range m.tables[table.TableName()] {
		if row.MasterID == masterID {
			codes = append(codes, row.LanguageCode)
		}
	}
	slices.SortFunc(codes, strings.Compare)
	return slices.Compact(codes), nil
}

func (m *MemoryStore) Delete(_ context.Context, table interfaces.TranslationTable, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table.TableName()]
	if _, exists := rows[id]; !exists {
		return ErrRowNotFound
	}
	delete(rows, id)
	return nil
}

func (m *MemoryStore) DeleteByMaster(_ context.Context, table interfaces.TranslationTable, masterID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	maps.DeleteFunc(m.tables[table.TableName()], func(_ uuid.UUID, row interfaces.TranslationRow) bool {
		return row.MasterID == masterID
	})
	return nil
}

// Len reports how many rows a table holds.
func (m *MemoryStore) Len(table interfaces.TranslationTable) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table.TableName()])
}

func (m *MemoryStore) table(name string) map[uuid.UUID]interfaces.TranslationRow {
	rows, ok := m.tables[name]
	if !ok {
		rows = make(map[uuid.UUID]interfaces.TranslationRow)
		m.tables[name] = rows
	}
	return rows
}

func cloneRow(row interfaces.TranslationRow) interfaces.TranslationRow {
	row.Values = maps.Clone(row.Values)
	return row
}

var _ interfaces.TranslationStore = (*MemoryStore)(nil)
