package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/bookhiveapp/bookhive-server/internal/account"
	"github.com/bookhiveapp/bookhive-server/internal/auth"
	"github.com/bookhiveapp/bookhive-server/internal/config"
	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/logger"
)

// serverVersion is reported by the instance endpoint and mDNS records.
const serverVersion = "1.0.0"

// ProvideAccountService provides the account service over the store.
func ProvideAccountService(i do.Injector) (*account.Service, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	resetSender := &account.LogResetSender{Logger: log.Logger}
	return account.NewService(storeHandle.Store, tokens, resetSender, log.Logger), nil
}

// ProvideInstance loads or creates the persistent server instance record.
func ProvideInstance(i do.Injector) (*domain.Instance, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	instance, err := storeHandle.EnsureInstance(context.Background(), domain.Instance{
		Name:      cfg.Server.Name,
		Version:   serverVersion,
		LocalURL:  cfg.Server.LocalURL,
		RemoteURL: cfg.Server.RemoteURL,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Server instance ready",
		"instance_id", instance.ID,
		"name", instance.Name,
		"created_at", instance.CreatedAt,
	)

	return instance, nil
}
