package config

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Snapshot computes a stable hash of build-affecting configuration fields.
// The watch loop compares snapshots across config reloads to decide whether a
// change requires a full rebuild. Slice fields are order-insensitive.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) {
		h.Write([]byte(strings.Join(parts, "=")))
		h.Write([]byte{0})
	}
	w("package_manager", c.PackageManager)
	w("build.command", c.Build.Command)
	w("build.output", c.Build.Output)
	w("build.asset_dir", c.Build.AssetDir)
	if len(c.Build.HashRouting) > 0 {
		hr := append([]string{}, c.Build.HashRouting...)
		sort.Strings(hr)
		w("build.hash_routing", strings.Join(hr, ","))
	}
	w("shell.entry", c.Shell.Entry)
	w("shell.width", strconv.Itoa(c.Shell.Width))
	w("shell.height", strconv.Itoa(c.Shell.Height))
	return hex.EncodeToString(h.Sum(nil))
}
