package bot

import (
	"github.com/sabawlabs/kudos/internal/config"
	"github.com/sabawlabs/kudos/internal/discord"
	"github.com/sabawlabs/kudos/internal/xp"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (xp.Notifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dc := do.MustInvoke[discord.Client](i)
		return NewAnnouncer(cfg, dc), nil
	})
	do.Provide(injector, func(i do.Injector) (*Router, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dc := do.MustInvoke[discord.Client](i)
		engine := do.MustInvoke[*xp.Engine](i)
		return NewRouter(cfg, dc, engine), nil
	})
}
