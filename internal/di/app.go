package di

import (
	"log/slog"
	"net/http"

	"github.com/valkey-io/valkey-go"

	"github.com/shashuec/storecalendar-go/internal/config"
	"github.com/shashuec/storecalendar-go/internal/store"
)

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server   *http.Server
	Logger   *slog.Logger
	Config   *config.Config
	Postgres *store.Postgres
	Valkey   valkey.Client
}

// Close: 앱 리소스를 정리합니다.
func (a *App) Close() {
	if a.Valkey != nil {
		a.Valkey.Close()
	}
	if a.Postgres != nil {
		a.Postgres.Close()
	}
}
