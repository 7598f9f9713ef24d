package migrator

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Up применяет все миграции из sourcePath (каталог с *.up.sql) к базе connString.
// Отсутствие новых миграций ошибкой не считается.
func Up(connString, sourcePath string) error {
	m, err := migrate.New("file://"+sourcePath, connString)
	if err != nil {
		return fmt.Errorf("migrator: init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrator: up: %w", err)
	}
	return nil
}
