package modules

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/lumeapp/lume/internal/services/api/module"
)

// Compose builds a root HTTP handler from feature modules, rejecting
// duplicate route patterns across modules.
func Compose(deps module.Dependencies, features []module.Module) (http.Handler, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)

	for _, feature := range features {
		if feature == nil {
			return nil, fmt.Errorf("module is nil")
		}
		mount, err := feature.Mount(deps)
		if err != nil {
			return nil, fmt.Errorf("mount module %q: %w", feature.ID(), err)
		}
		for _, route := range mount.Routes {
			pattern := strings.TrimSpace(route.Pattern)
			if pattern == "" {
				return nil, fmt.Errorf("module %q has a route with no pattern", feature.ID())
			}
			if route.Handler == nil {
				return nil, fmt.Errorf("module %q route %q has no handler", feature.ID(), pattern)
			}
			if previous, ok := seen[pattern]; ok {
				return nil, fmt.Errorf("module %q duplicates route %q owned by module %q", feature.ID(), pattern, previous)
			}
			seen[pattern] = feature.ID()
			root.HandleFunc(pattern, route.Handler)
		}
	}
	return root, nil
}
