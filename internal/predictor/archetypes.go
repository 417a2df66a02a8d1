// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package predictor

import (
	"sort"
	"strings"
)

// Game archetypes with a reference retention pattern.
const (
	GameTypePuzzle       = "puzzle"
	GameTypeIdle         = "idle"
	GameTypeBattleRoyale = "battle_royale"
	GameTypeMatch3Meta   = "match3_meta"
	GameTypeGachaRPG     = "gacha_rpg"
	GameTypeDefault      = "default"
)

// patternLastDay is the last day offset covered by a reference pattern.
// Later days reuse the final value.
const patternLastDay = 12

// archetypePatterns holds expected retention for days 0-12.
var archetypePatterns = map[string][patternLastDay + 1]float64{
	GameTypePuzzle:       {1.0, 0.45, 0.36, 0.31, 0.28, 0.26, 0.24, 0.22, 0.21, 0.20, 0.19, 0.18, 0.17},
	GameTypeIdle:         {1.0, 0.50, 0.40, 0.34, 0.30, 0.27, 0.25, 0.23, 0.22, 0.21, 0.20, 0.19, 0.18},
	GameTypeBattleRoyale: {1.0, 0.35, 0.27, 0.22, 0.19, 0.17, 0.15, 0.14, 0.13, 0.12, 0.11, 0.10, 0.09},
	GameTypeMatch3Meta:   {1.0, 0.42, 0.34, 0.29, 0.26, 0.24, 0.22, 0.20, 0.19, 0.18, 0.17, 0.16, 0.15},
	GameTypeGachaRPG:     {1.0, 0.38, 0.29, 0.24, 0.21, 0.19, 0.17, 0.16, 0.15, 0.14, 0.13, 0.12, 0.11},
	GameTypeDefault:      {1.0, 0.40, 0.32, 0.27, 0.24, 0.22, 0.20, 0.18, 0.17, 0.16, 0.15, 0.14, 0.13},
}

// GameTypes returns the known archetype names in sorted order.
func GameTypes() []string {
	names := make([]string, 0, len(archetypePatterns))
	for name := range archetypePatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// gameTypeAliases maps alternate spellings, after separator folding, onto
// archetype names.
var gameTypeAliases = map[string]string{
	"match_3_meta": GameTypeMatch3Meta,
	"match_3":      GameTypeMatch3Meta,
	"match3":       GameTypeMatch3Meta,
	"gacha":        GameTypeGachaRPG,
}

// NormalizeGameType maps a label onto a known archetype, accepting common
// spellings such as "battle-royale", "match-3-meta" or "Match3 Meta".
// Unknown labels map to default.
func NormalizeGameType(gameType string) string {
	key := strings.ToLower(strings.TrimSpace(gameType))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if alias, ok := gameTypeAliases[key]; ok {
		return alias
	}
	if _, ok := archetypePatterns[key]; ok {
		return key
	}
	return GameTypeDefault
}

// archetypeRetention returns the reference retention for a day, clamped to
// the pattern's last index.
func archetypeRetention(gameType string, day int) float64 {
	pattern, ok := archetypePatterns[gameType]
	if !ok {
		pattern = archetypePatterns[GameTypeDefault]
	}
	switch {
	case day <= 0:
		return pattern[0]
	case day > patternLastDay:
		return pattern[patternLastDay]
	default:
		return pattern[day]
	}
}
