package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/majorcontext/babeltrace"
	"github.com/majorcontext/babeltrace/internal/index"
	"github.com/majorcontext/babeltrace/internal/log"
)

// newContext opens a babeltrace session. Tests swap it for a fake library.
var newContext = func() (*babeltrace.Context, error) {
	return babeltrace.NewContext()
}

// openTraces creates a session with every directory in dirs registered. On
// error no session is left open.
func openTraces(dirs []string) (*babeltrace.Context, error) {
	ctx, err := newContext()
	if err != nil {
		return nil, fmt.Errorf("creating babeltrace context: %w", err)
	}
	for _, dir := range dirs {
		if _, err := ctx.AddTrace(dir, babeltrace.FormatCTF); err != nil {
			ctx.Close()
			return nil, fmt.Errorf("adding trace %s: %w", dir, err)
		}
	}
	log.Debug("traces opened", "count", len(dirs))
	return ctx, nil
}

func parseScopes(names []string) ([]babeltrace.Scope, error) {
	scopes := make([]babeltrace.Scope, 0, len(names))
	for _, name := range names {
		s, err := babeltrace.ParseScope(name)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, s)
	}
	return scopes, nil
}

func absPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		out[i] = abs
	}
	return out
}

// openIndex opens an existing index. Unlike index.Open it does not create
// a missing database.
func openIndex(path string) (*index.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no index at %s (run 'ctfread index' first): %w", path, err)
	}
	store, err := index.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	return store, nil
}
