package config

import (
	"git.home.luguber.info/inful/deskwrap/internal/foundation/normalization"
)

// PackageManager enumerates supported JavaScript package managers.
type PackageManager string

const (
	PackageManagerNpm  PackageManager = "npm"
	PackageManagerPnpm PackageManager = "pnpm"
	PackageManagerYarn PackageManager = "yarn"
	PackageManagerBun  PackageManager = "bun"
)

var packageManagerNormalizer = normalization.NewEnumNormalizer("package manager", map[string]PackageManager{
	"npm":  PackageManagerNpm,
	"pnpm": PackageManagerPnpm,
	"yarn": PackageManagerYarn,
	"bun":  PackageManagerBun,
}, PackageManagerNpm)

// NormalizePackageManager converts user input to a typed package manager,
// defaulting to npm for unknown values. Validation rejects unknown values
// before this default is relied on.
func NormalizePackageManager(raw string) PackageManager {
	return packageManagerNormalizer.Normalize(raw)
}

// PackageManagerNames returns the supported package manager names for help text.
func PackageManagerNames() []string {
	return packageManagerNormalizer.ValidValues()
}
