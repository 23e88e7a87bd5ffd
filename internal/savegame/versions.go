package savegame

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/talgya/tramp-freighter/internal/model"
)

const oldestSupported = "v1.0.0"

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// IsVersionCompatible reports whether a save written as version can be
// migrated to the current schema: anything from 1.0.0 up to the current
// major.minor. Newer saves are rejected rather than guessed at.
func IsVersionCompatible(version string) bool {
	v := canonical(version)
	if !semver.IsValid(v) {
		return false
	}
	if semver.Compare(v, oldestSupported) < 0 {
		return false
	}
	return semver.Compare(semver.MajorMinor(v), semver.MajorMinor(canonical(model.CurrentVersion))) <= 0
}

// VersionOf reads the schema version of a raw save. 1.x saves kept it at the
// top level; later ones under meta.
func VersionOf(raw map[string]any) string {
	if meta, ok := raw["meta"].(map[string]any); ok {
		if v, ok := meta["version"].(string); ok {
			return v
		}
	}
	if v, ok := raw["version"].(string); ok {
		return v
	}
	return ""
}

// migration upgrades a raw save from one schema version to the next. apply
// must not modify its argument.
type migration struct {
	from  string
	to    string
	apply func(raw map[string]any) map[string]any
}

var migrations = []migration{
	{from: "1.0.0", to: "2.0.0", apply: migrateV1ToV2},
	{from: "2.0.0", to: "2.1.0", apply: migrateV2ToV21},
}

// Migrate applies the chain until the save reaches the current version.
func Migrate(raw map[string]any) (map[string]any, error) {
	current := semver.MajorMinor(canonical(model.CurrentVersion))
	for {
		version := VersionOf(raw)
		if semver.Compare(semver.MajorMinor(canonical(version)), current) >= 0 {
			return raw, nil
		}
		step, ok := findMigration(canonical(version))
		if !ok {
			return nil, fmt.Errorf("%w: no migration from %q", ErrIncompatibleVersion, version)
		}
		raw = step.apply(raw)
	}
}

// findMigration returns the step whose [from, to) range holds version, so
// every 1.x minor and patch takes the 1.0 → 2.0 step.
func findMigration(version string) (migration, bool) {
	for _, m := range migrations {
		from, to := canonical(m.from), canonical(m.to)
		if semver.Compare(version, from) >= 0 && semver.Compare(version, to) < 0 {
			return m, true
		}
	}
	return migration{}, false
}

// migrateV1ToV2 moves the version under meta, adds engine and life support
// condition, renames cargo purchasePrice to buyPrice and stamps stacks with
// their purchase origin.
func migrateV1ToV2(in map[string]any) map[string]any {
	raw := deepCopy(in).(map[string]any)

	meta := map[string]any{"version": "2.0.0", "timestamp": float64(0)}
	if ts, ok := raw["timestamp"].(float64); ok {
		meta["timestamp"] = ts
	}
	delete(raw, "version")
	delete(raw, "timestamp")
	raw["meta"] = meta

	player := object(raw, "player")
	shipObj := object(raw, "ship")
	setDefault(shipObj, "engine", float64(100))
	setDefault(shipObj, "lifeSupport", float64(100))

	if cargo, ok := shipObj["cargo"].([]any); ok {
		for _, c := range cargo {
			stack, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if p, ok := stack["purchasePrice"]; ok {
				stack["buyPrice"] = p
				delete(stack, "purchasePrice")
			}
			setDefault(stack, "buySystem", player["currentSystem"])
			setDefault(stack, "buyDate", player["daysElapsed"])
		}
	}

	world := object(raw, "world")
	setDefault(world, "activeEvents", []any{})
	setDefault(world, "currentSystemPrices", map[string]any{})
	return raw
}

// migrateV2ToV21 adds the subtrees introduced with quirks, upgrades, hidden
// cargo, market conditions and NPC standing, and tags old price knowledge.
func migrateV2ToV21(in map[string]any) map[string]any {
	raw := deepCopy(in).(map[string]any)

	shipObj := object(raw, "ship")
	setDefault(shipObj, "quirks", []any{})
	setDefault(shipObj, "upgrades", []any{})
	setDefault(shipObj, "hiddenCargo", []any{})

	world := object(raw, "world")
	setDefault(world, "marketConditions", map[string]any{})
	setDefault(world, "npcState", map[string]any{})
	if pk, ok := world["priceKnowledge"].(map[string]any); ok {
		for _, entry := range pk {
			if e, ok := entry.(map[string]any); ok {
				setDefault(e, "source", model.SourceVisited)
			}
		}
	}

	object(raw, "meta")["version"] = "2.1.0"
	return raw
}

func object(raw map[string]any, key string) map[string]any {
	if m, ok := raw[key].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	raw[key] = m
	return m
}

func setDefault(m map[string]any, key string, v any) {
	if cur, ok := m[key]; !ok || cur == nil {
		m[key] = v
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = deepCopy(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = deepCopy(x)
		}
		return out
	default:
		return v
	}
}
