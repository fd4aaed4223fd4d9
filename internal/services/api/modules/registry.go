// Package modules assembles API feature modules into one route table.
package modules

import (
	module "github.com/lumeapp/lume/internal/services/api/module"
	"github.com/lumeapp/lume/internal/services/api/modules/engagement"
	"github.com/lumeapp/lume/internal/services/api/modules/media"
	"github.com/lumeapp/lume/internal/services/api/modules/notifications"
	"github.com/lumeapp/lume/internal/services/api/modules/posts"
	"github.com/lumeapp/lume/internal/services/api/modules/users"
)

// Default returns the stable API modules.
func Default() []module.Module {
	return []module.Module{
		users.New(),
		posts.New(),
		engagement.New(),
		notifications.New(),
		media.New(),
	}
}
