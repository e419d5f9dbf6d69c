// Package catalog holds the static registry of cache signatures. Each
// category maps to an ordered list of signatures; the order matters because
// the traversal engine stops at the first matching signature.
package catalog

// Signature describes one kind of disposable artifact by name rules.
type Signature struct {
	// Name is a stable identifier for the signature.
	Name string
	// Rules are base-name patterns, either exact names or globs.
	Rules []string
	// Description is shown in listings and verbose output.
	Description string
	// IsDirectory marks signatures whose targets are directories.
	IsDirectory bool
	// RecursiveSafe marks whether bulk recursive deletion is acceptable.
	// Lock files match but should not be blindly removed everywhere.
	RecursiveSafe bool
	// IsLibrary marks reinstallable dependency caches, excluded by default.
	IsLibrary bool
}

// Entry pairs a signature with the category it belongs to. The traversal
// engine consumes a flat ordered list of entries.
type Entry struct {
	Category  Category
	Signature Signature
}

// Patterns returns the ordered signature list for the category.
func Patterns(category Category) []Signature {
	switch category {
	case CategoryNode:
		return []Signature{
			{
				Name:          "node_modules",
				Rules:         []string{"node_modules"},
				Description:   "Node.js dependencies",
				IsDirectory:   true,
				RecursiveSafe: true,
				IsLibrary:     true,
			},
			{
				Name:          "npm_cache",
				Rules:         []string{".npm"},
				Description:   "NPM cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "next_build",
				Rules:         []string{".next"},
				Description:   "Next.js build cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "nuxt_build",
				Rules:         []string{".nuxt", ".output"},
				Description:   "Nuxt.js build cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "yarn_cache",
				Rules:         []string{".yarn/cache"},
				Description:   "Yarn cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "pnpm_cache",
				Rules:         []string{".pnpm-store"},
				Description:   "PNPM cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "turbo_cache",
				Rules:         []string{".turbo"},
				Description:   "Turbo build cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "parcel_cache",
				Rules:         []string{".parcel-cache"},
				Description:   "Parcel build cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
		}
	case CategoryRust:
		return []Signature{
			{
				Name:          "cargo_target",
				Rules:         []string{"target"},
				Description:   "Cargo build artifacts",
				IsDirectory:   true,
				RecursiveSafe: true,
				IsLibrary:     true,
			},
			{
				Name:        "cargo_lock",
				Rules:       []string{"Cargo.lock"},
				Description: "Cargo lock file (in some cases)",
			},
		}
	case CategoryGo:
		return []Signature{
			{
				Name:          "go_mod_cache",
				Rules:         []string{"pkg/mod"},
				Description:   "Go module cache",
				IsDirectory:   true,
				RecursiveSafe: true,
				IsLibrary:     true,
			},
			{
				Name:          "go_build_cache",
				Rules:         []string{"go-build"},
				Description:   "Go build cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
		}
	case CategoryPython:
		return []Signature{
			{
				Name:          "python_cache",
				Rules:         []string{"__pycache__"},
				Description:   "Python bytecode cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "python_bytecode",
				Rules:         []string{"*.pyc", "*.pyo"},
				Description:   "Python bytecode files",
				RecursiveSafe: true,
			},
			{
				Name:          "pytest_cache",
				Rules:         []string{".pytest_cache"},
				Description:   "Pytest cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "mypy_cache",
				Rules:         []string{".mypy_cache"},
				Description:   "MyPy cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "pip_cache",
				Rules:         []string{".pip"},
				Description:   "Pip cache",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
		}
	case CategoryDocker:
		return []Signature{
			// Not filesystem-discoverable: cleaned through the Docker CLI.
			{
				Name:        "docker_system",
				Rules:       nil,
				Description: "Docker system cache (containers, images, volumes)",
			},
		}
	case CategoryGeneral:
		return []Signature{
			{
				Name:          "cache_dirs",
				Rules:         []string{".cache", "cache", "@cache"},
				Description:   "General cache directories",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "temp_dirs",
				Rules:         []string{".temp", "temp", "@temp", ".tmp", "tmp"},
				Description:   "Temporary directories",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "build_dirs",
				Rules:         []string{"build", "dist", "out", ".build"},
				Description:   "Build output directories",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
			{
				Name:          "log_files",
				Rules:         []string{"*.log", "logs", ".log"},
				Description:   "Log files and directories",
				RecursiveSafe: true,
			},
			{
				Name:          "exporter_dirs",
				Rules:         []string{".exporter"},
				Description:   "Data exporter cache directories",
				IsDirectory:   true,
				RecursiveSafe: true,
			},
		}
	default:
		return nil
	}
}

// SafePatterns returns the ordered signatures that are not library caches.
func SafePatterns(category Category) []Signature {
	var safe []Signature
	for _, signature := range Patterns(category) {
		if !signature.IsLibrary {
			safe = append(safe, signature)
		}
	}
	return safe
}

// LibraryPatterns returns the ordered library-cache signatures.
func LibraryPatterns(category Category) []Signature {
	var libraries []Signature
	for _, signature := range Patterns(category) {
		if signature.IsLibrary {
			libraries = append(libraries, signature)
		}
	}
	return libraries
}

// ActivePatterns builds the flat, ordered entry list the traversal engine
// evaluates. Library signatures are included only when the caller opts in.
func ActivePatterns(categories []Category, includeLibraries bool) []Entry {
	var entries []Entry
	for _, category := range categories {
		patterns := SafePatterns(category)
		if includeLibraries {
			patterns = Patterns(category)
		}
		for _, signature := range patterns {
			entries = append(entries, Entry{Category: category, Signature: signature})
		}
	}
	return entries
}
