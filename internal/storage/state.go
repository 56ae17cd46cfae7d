// Package storage реализует локальное состояние клиента: токен, избранные
// визитки, тему оформления и идентификатор последней созданной визитки.
// Это единственное, что клиент хранит сам — всё остальное принадлежит
// удалённому API. Состояние лежит в каталоге в виде отдельных файлов;
// два параллельных процесса никак не координируются и могут разойтись.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Имена файлов состояния внутри каталога.
const (
	tokenFile     = "token"
	favoritesFile = "favorites.json"
	themeFile     = "theme"
	lastCardFile  = "card_id"
)

// ThemeDark и ThemeLight допустимые значения темы оформления.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Store описывает контракт для работы с локальным состоянием клиента.
// Интерфейс маленький намеренно: в тестах его подменяют на временный каталог
// или мок.
type Store interface {
	// Token возвращает сохранённый токен и признак его наличия.
	Token() (string, bool)
	// SetToken сохраняет токен.
	SetToken(token string) error
	// ClearToken удаляет сохранённый токен.
	ClearToken() error
	// Favorites возвращает список идентификаторов избранных визиток.
	Favorites() ([]string, error)
	// SetFavorites сохраняет список идентификаторов избранных визиток.
	SetFavorites(ids []string) error
	// Theme возвращает сохранённую тему оформления, по умолчанию light.
	Theme() string
	// SetTheme сохраняет тему оформления.
	SetTheme(theme string) error
	// SetLastCardID сохраняет идентификатор последней созданной визитки.
	// Значение больше нигде не читается.
	SetLastCardID(id string) error
}

// FileStore реализует Store поверх каталога с файлами.
type FileStore struct {
	dir string
}

// NewFileStore создаёт хранилище в каталоге dir, создавая его при необходимости.
func NewFileStore(dir string) (*FileStore, error) {
	const op = "storage.NewFileStore"
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &FileStore{dir: dir}, nil
}

// Token возвращает сохранённый токен и признак его наличия.
func (s *FileStore) Token() (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return "", false
	}
	token := string(data)
	if token == "" {
		return "", false
	}
	return token, true
}

// SetToken сохраняет токен.
func (s *FileStore) SetToken(token string) error {
	const op = "storage.SetToken"
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClearToken удаляет сохранённый токен. Отсутствие токена ошибкой не считается.
func (s *FileStore) ClearToken() error {
	const op = "storage.ClearToken"
	err := os.Remove(filepath.Join(s.dir, tokenFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Favorites возвращает список идентификаторов избранных визиток.
// Отсутствие файла означает пустой список.
func (s *FileStore) Favorites() ([]string, error) {
	const op = "storage.Favorites"
	data, err := os.ReadFile(filepath.Join(s.dir, favoritesFile))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// SetFavorites сохраняет список идентификаторов избранных визиток.
func (s *FileStore) SetFavorites(ids []string) error {
	const op = "storage.SetFavorites"
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, favoritesFile), data, 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Theme возвращает сохранённую тему оформления. Любое значение, кроме dark,
// трактуется как light.
func (s *FileStore) Theme() string {
	data, err := os.ReadFile(filepath.Join(s.dir, themeFile))
	if err != nil || string(data) != ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// SetTheme сохраняет тему оформления.
func (s *FileStore) SetTheme(theme string) error {
	const op = "storage.SetTheme"
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("%s: unknown theme %q", op, theme)
	}
	if err := os.WriteFile(filepath.Join(s.dir, themeFile), []byte(theme), 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetLastCardID сохраняет идентификатор последней созданной визитки.
func (s *FileStore) SetLastCardID(id string) error {
	const op = "storage.SetLastCardID"
	if err := os.WriteFile(filepath.Join(s.dir, lastCardFile), []byte(id), 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
