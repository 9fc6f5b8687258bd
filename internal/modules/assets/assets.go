// README: Catalog of dashboard images and their availability on disk.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrMissingAsset = errors.New("missing asset")
	ErrUnknownAsset = errors.New("unknown asset")
)

type Role string

const (
	RoleHeader Role = "header"
	RoleFooter Role = "footer"
	RoleFigure Role = "figure"
	RoleChart  Role = "chart"
)

type Asset struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Default is the set of images the dashboard references, named as they ship in imagens/.
var Default = []Asset{
	{Name: "start.png", Role: RoleHeader},
	{Name: "uber_driver.webp", Role: RoleFigure},
	{Name: "distribuicao_precos.png", Role: RoleChart},
	{Name: "preco_vs_distancia.png", Role: RoleChart},
	{Name: "matriz_correlacao.png", Role: RoleChart},
	{Name: "comparacao_modelos_rmse.jpg", Role: RoleChart},
	{Name: "comparacao_modelos_r2.jpeg", Role: RoleChart},
	{Name: "end.png", Role: RoleFooter},
}

type Status struct {
	Asset
	Present bool   `json:"present"`
	Warning string `json:"warning,omitempty"`
}

type Catalog struct {
	dir    string
	assets map[string]Asset
	order  []Asset
}

func NewCatalog(dir string, list []Asset) *Catalog {
	c := &Catalog{dir: dir, assets: make(map[string]Asset, len(list)), order: list}
	for _, a := range list {
		c.assets[a.Name] = a
	}
	return c
}

// Path resolves a cataloged asset to its file. Absent files fail with ErrMissingAsset.
func (c *Catalog) Path(name string) (string, error) {
	a, ok := c.assets[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAsset, name)
	}
	p := filepath.Join(c.dir, a.Name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s not found in %s", ErrMissingAsset, a.Name, c.dir)
	}
	return p, nil
}

// Manifest reports every asset; missing ones carry a warning instead of failing.
func (c *Catalog) Manifest() []Status {
	out := make([]Status, 0, len(c.order))
	for _, a := range c.order {
		st := Status{Asset: a, Present: true}
		if _, err := c.Path(a.Name); err != nil {
			st.Present = false
			st.Warning = fmt.Sprintf("%s image %q not found in %q; check the assets directory", a.Role, a.Name, c.dir)
		}
		out = append(out, st)
	}
	return out
}

// Warnings returns only the warnings of missing assets.
func (c *Catalog) Warnings() []string {
	var out []string
	for _, st := range c.Manifest() {
		if !st.Present {
			out = append(out, st.Warning)
		}
	}
	return out
}
