package handler

import (
	"dmchat/internal/app/chat"
	"dmchat/internal/app/db"
	"dmchat/internal/app/storage"
	"dmchat/internal/configs"
)

// AppDeps bundles the shared dependencies injected into every HTTP handler.
type AppDeps struct {
	Config         *configs.AppConfig
	Registry       *chat.Registry
	Dispatcher     *chat.Dispatcher
	Gate           *chat.Gate
	Store          *db.Store
	StorageService storage.Service
}
