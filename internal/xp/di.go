package xp

import (
	"github.com/sabawlabs/kudos/internal/config"
	"github.com/sabawlabs/kudos/internal/store"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Engine, error) {
		cfg := do.MustInvoke[*config.Config](i)
		st := do.MustInvoke[store.Store](i)
		notifier := do.MustInvoke[Notifier](i)
		return NewEngine(cfg, st, notifier), nil
	})
}
