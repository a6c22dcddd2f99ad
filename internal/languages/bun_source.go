package languages

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNoLanguages indicates the language table exists but holds no rows.
var ErrNoLanguages = errors.New("languages: no languages configured")

// LanguageModel is the row shape of the translation_languages table.
type LanguageModel struct {
	bun.BaseModel `bun:"table:translation_languages,alias:tl"`

	ID        uuid.UUID `bun:",pk,type:uuid"            json:"id"`
	Code      string    `bun:"code,notnull,unique"      json:"code"`
	Fallback  string    `bun:"fallback_code"            json:"fallback,omitempty"`
	Title     string    `bun:"title"                    json:"title,omitempty"`
	IsDefault bool      `bun:"is_default,notnull,default:false" json:"is_default"`
}

// NewLanguageRepository builds the go-repository-bun repository for the language table.
func NewLanguageRepository(db *bun.DB) repository.Repository[*LanguageModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*LanguageModel]{
		NewRecord: func() *LanguageModel { return &LanguageModel{} },
		GetID: func(l *LanguageModel) uuid.UUID {
			return l.ID
		},
		SetID: func(l *LanguageModel, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "code"
		},
		GetIdentifierValue: func(l *LanguageModel) string {
			return l.Code
		},
	})
}

// BunSource loads language Settings from the database at process start.
type BunSource struct {
	db   *bun.DB
	repo repository.Repository[*LanguageModel]
}

// NewBunSource constructs a source without repository caching.
func NewBunSource(db *bun.DB) *BunSource {
	return NewBunSourceWithCache(db, nil, nil)
}

// NewBunSourceWithCache wraps the repository with go-repository-cache when
// both the cache service and key serializer are provided.
func NewBunSourceWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunSource {
	var repo repository.Repository[*LanguageModel] = NewLanguageRepository(db)
	if cacheService != nil && keySerializer != nil {
		repo = repositorycache.New(repo, cacheService, keySerializer)
	}
	return &BunSource{db: db, repo: repo}
}

// CreateTable creates translation_languages when missing.
func (s *BunSource) CreateTable(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*LanguageModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Load reads every row and assembles Settings. When no row is flagged as
// default the lowest code wins.
func (s *BunSource) Load(ctx context.Context) (Settings, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.code ASC")
		}),
	)
	if err != nil {
		return Settings{}, fmt.Errorf("languages: list: %w", err)
	}
	if len(records) == 0 {
		return Settings{}, ErrNoLanguages
	}
	slices.SortFunc(records, func(a, b *LanguageModel) int {
		return strings.Compare(a.Code, b.Code)
	})

	settings := Settings{Languages: make([]Language, 0, len(records))}
	for _, record := range records {
		settings.Languages = append(settings.Languages, Language{
			Code:     record.Code,
			Fallback: record.Fallback,
			Title:    record.Title,
		})
		if record.IsDefault && settings.Default == "" {
			settings.Default = record.Code
		}
	}
	if settings.Default == "" {
		settings.Default = settings.Languages[0].Code
	}
	return settings, nil
}

// LoadPolicy loads Settings and builds a Policy from them.
func (s *BunSource) LoadPolicy(ctx context.Context) (*Policy, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewPolicy(settings)
}

// Lookup returns the row for one code.
func (s *BunSource) Lookup(ctx context.Context, code string) (*LanguageModel, error) {
	record, err := s.repo.GetByIdentifier(ctx, code)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Code: code}
		}
		return nil, fmt.Errorf("languages: lookup %q: %w", code, err)
	}
	return record, nil
}

// Seed inserts rows for every language in settings that is not stored yet.
func (s *BunSource) Seed(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	for _, lang := range settings.Languages {
		code := canonical(lang.Code)
		if _, err := s.Lookup(ctx, code); err == nil {
			continue
		} else if !errors.As(err, new(*NotFoundError)) {
			return err
		}
		fallback := ""
		if strings.TrimSpace(lang.Fallback) != "" {
			fallback = canonical(lang.Fallback)
		}
		_, err := s.repo.Create(ctx, &LanguageModel{
			ID:        uuid.New(),
			Code:      code,
			Fallback:  fallback,
			Title:     lang.Title,
			IsDefault: code == canonical(settings.Default),
		})
		if err != nil {
			return fmt.Errorf("languages: seed %q: %w", code, err)
		}
	}
	return nil
}

// NotFoundError is returned when a language row does not exist.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("language %q not found", e.Code)
}
