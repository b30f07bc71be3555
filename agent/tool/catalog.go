package tool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Catalog is the fixed set of adapters a process exposes, keyed by tool name.
type Catalog struct {
	adapters map[string]Adapter
	order    []string
}

func NewCatalog(adapters ...Adapter) (*Catalog, error) {
	c := &Catalog{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		name := strings.TrimSpace(nameOf(a))
		if name == "" {
			return nil, errors.New("tool adapter without a name")
		}
		if _, dup := c.adapters[name]; dup {
			return nil, fmt.Errorf("duplicate tool adapter %q", name)
		}
		if strings.TrimSpace(a.StateKey()) == "" {
			return nil, fmt.Errorf("tool adapter %q has no state key", name)
		}
		c.adapters[name] = a
		c.order = append(c.order, name)
	}
	return c, nil
}

func (c *Catalog) Lookup(name string) (Adapter, bool) {
	if c == nil {
		return nil, false
	}
	a, ok := c.adapters[name]
	return a, ok
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Names lists tools in registration order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Infos returns the eino tool descriptions for the named tools, in the
// order given. Unknown names are an error so a stage cannot bind a tool the
// process does not provide.
func (c *Catalog) Infos(names ...string) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(names))
	for _, name := range names {
		a, ok := c.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("tool=%s is not registered", name)
		}
		infos = append(infos, a.Info())
	}
	return infos, nil
}
