package catalog

import (
	"strings"

	"github.com/glorpus-work/clearcache/pkg/errors"
)

// Category identifies one family of disposable development artifacts.
type Category string

// Supported cache categories.
const (
	CategoryNode    Category = "node"
	CategoryRust    Category = "rust"
	CategoryGo      Category = "go"
	CategoryPython  Category = "python"
	CategoryDocker  Category = "docker"
	CategoryGeneral Category = "general"
)

// All returns every category in catalog order. The order is significant:
// pattern evaluation iterates categories in exactly this sequence.
func All() []Category {
	return []Category{
		CategoryNode,
		CategoryRust,
		CategoryGo,
		CategoryPython,
		CategoryDocker,
		CategoryGeneral,
	}
}

// Discoverable returns the categories whose caches are found on the
// filesystem. The container-runtime category is excluded: cleaning it runs
// destructive prune commands, so it must be requested by name and never
// rides along with "all".
func Discoverable() []Category {
	return []Category{
		CategoryNode,
		CategoryRust,
		CategoryGo,
		CategoryPython,
		CategoryGeneral,
	}
}

// String returns the canonical name of the category.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the category is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryNode, CategoryRust, CategoryGo, CategoryPython, CategoryDocker, CategoryGeneral:
		return true
	}
	return false
}

// Parse resolves a category name or one of its aliases to a Category.
func Parse(name string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "node", "nodejs", "npm", "yarn", "pnpm":
		return CategoryNode, nil
	case "rust", "cargo":
		return CategoryRust, nil
	case "go", "golang":
		return CategoryGo, nil
	case "python", "py", "pip":
		return CategoryPython, nil
	case "docker":
		return CategoryDocker, nil
	case "general", "cache":
		return CategoryGeneral, nil
	default:
		return "", errors.Wrapf(errors.ErrUnknownCategory, "cannot parse category %q", name)
	}
}

// ParseList parses a comma-separated list of category names. The literal
// "all" expands to every discoverable category; the container-runtime
// category is only included when named explicitly (for example
// "all,docker").
func ParseList(list string) ([]Category, error) {
	var categories []Category
	seen := make(map[Category]bool)
	add := func(category Category) {
		if seen[category] {
			return
		}
		seen[category] = true
		categories = append(categories, category)
	}

	for _, name := range strings.Split(list, ",") {
		if strings.ToLower(strings.TrimSpace(name)) == "all" {
			for _, category := range Discoverable() {
				add(category)
			}
			continue
		}
		category, err := Parse(name)
		if err != nil {
			return nil, err
		}
		add(category)
	}
	return categories, nil
}
