// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"math"
	"sort"

	"github.com/tomtom215/cohortcast/internal/models"
)

const (
	spikeDropPoints      = 20.0
	bottleneckDropPoints = 10.0
	maxBottlenecks       = 5
	topTierMinLevels     = 10
)

type levelAccumulator struct {
	attempts    int
	reached     map[string]struct{}
	completions int
}

// CalculateProgression computes per-level completion, difficulty spikes and
// bottlenecks. Every observation of level N credits one completion to level
// N-1. Skipped levels are still credited and replays are counted again, so a
// completion rate can exceed 100.
// Returns nil when no row has both a user id and a level.
func CalculateProgression(rows []models.Row, userCol, levelCol string) *models.ProgressionMetrics {
	if userCol == "" || levelCol == "" {
		return nil
	}

	maxLevel := make(map[string]int)
	levels := make(map[int]*levelAccumulator)

	get := func(level int) *levelAccumulator {
		acc, ok := levels[level]
		if !ok {
			acc = &levelAccumulator{reached: make(map[string]struct{})}
			levels[level] = acc
		}
		return acc
	}

	for _, row := range rows {
		uid := cellString(row[userCol])
		if uid == "" || cellString(row[levelCol]) == "" {
			continue
		}
		level := int(math.Round(ParseNumber(row[levelCol])))

		acc := get(level)
		acc.attempts++
		acc.reached[uid] = struct{}{}

		if cur, ok := maxLevel[uid]; !ok || level > cur {
			maxLevel[uid] = level
		}

		get(level - 1).completions++
	}

	if len(maxLevel) == 0 {
		return nil
	}
	totalUsers := len(maxLevel)

	ordered := make([]int, 0, len(levels))
	for l, acc := range levels {
		// Levels below the lowest observed one exist only as inferred completions.
		if len(acc.reached) == 0 {
			continue
		}
		ordered = append(ordered, l)
	}
	sort.Ints(ordered)

	stats := make([]models.LevelStat, 0, len(ordered))
	rates := make([]float64, 0, len(ordered))
	withCompletions := 0
	for _, l := range ordered {
		acc := levels[l]
		stat := models.LevelStat{
			Level:          l,
			Attempts:       acc.attempts,
			UsersReached:   len(acc.reached),
			Completions:    acc.completions,
			CompletionRate: percent(float64(acc.completions), float64(totalUsers)),
		}
		stats = append(stats, stat)
		rates = append(rates, stat.CompletionRate)
		if stat.Completions > 0 {
			withCompletions++
		}
	}

	meanRate := average(rates)
	var spikes []int
	var bottlenecks []models.Bottleneck
	var prev *models.LevelStat
	for i := range stats {
		cur := &stats[i]
		drop := 0.0
		if prev != nil {
			drop = prev.CompletionRate - cur.CompletionRate
		}
		if (prev != nil && drop > spikeDropPoints) || cur.CompletionRate < meanRate/2 {
			cur.IsSpike = true
			spikes = append(spikes, cur.Level)
		}
		if prev != nil && drop > bottleneckDropPoints {
			bottlenecks = append(bottlenecks, models.Bottleneck{
				Level:         cur.Level,
				DropOff:       round2(drop),
				EstimatedLost: int(math.Round(drop / 100 * float64(prev.UsersReached))),
			})
		}
		prev = cur
	}

	sort.SliceStable(bottlenecks, func(i, j int) bool {
		return bottlenecks[i].EstimatedLost > bottlenecks[j].EstimatedLost
	})
	if len(bottlenecks) > maxBottlenecks {
		bottlenecks = bottlenecks[:maxBottlenecks]
	}

	maxima := make([]float64, 0, totalUsers)
	stops := make(map[int]int)
	highest := math.MinInt
	for _, l := range maxLevel {
		maxima = append(maxima, float64(l))
		stops[l]++
		if l > highest {
			highest = l
		}
	}
	sort.Float64s(maxima)

	if spikes == nil {
		spikes = []int{}
	}
	if bottlenecks == nil {
		bottlenecks = []models.Bottleneck{}
	}

	return &models.ProgressionMetrics{
		Levels:            stats,
		TotalUsers:        totalUsers,
		MaxLevelReached:   highest,
		AvgMaxLevel:       round2(average(maxima)),
		MedianMaxLevel:    round2(median(maxima)),
		AvgCompletionRate: round2(meanRate),
		DifficultySpikes:  spikes,
		Bottlenecks:       bottlenecks,
		StopDistribution:  stops,
		Confidence:        userTiers.scoreWithTopRequirement(totalUsers, withCompletions >= topTierMinLevels),
	}
}
