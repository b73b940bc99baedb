package tiles

import (
	"math"
	"sort"
)

// Finalize converts real-valued specs into integer batches using the
// largest-remainder apportionment method.
//
// When capLimit > 0 and the pre-cap sum exceeds it, every count is scaled
// by capLimit/sum. The integer target is capLimit when scaling occurred,
// otherwise the rounded sum of counts (clamped to capLimit when one is
// set). Floors are then adjusted one unit at a time: removals come from the
// smallest fractional remainders, additions go to the largest, ties broken
// by original entry order. Batches whose final count is zero are dropped.
func Finalize(specs []Spec, capLimit int) []Batch {
	type fractional struct {
		index int
		frac  float64
	}

	sumCounts := 0.0
	for _, s := range specs {
		sumCounts += s.Count
	}
	if sumCounts == 0 {
		return nil
	}

	scale := 1.0
	if capLimit > 0 && sumCounts > float64(capLimit) {
		scale = float64(capLimit) / sumCounts
	}

	scaled := make([]float64, len(specs))
	floors := make([]int, len(specs))
	fractions := make([]fractional, 0, len(specs))
	totalFloors := 0

	for i, s := range specs {
		adjusted := s.Count * scale
		if adjusted <= 0 {
			continue
		}
		scaled[i] = adjusted
		base := int(math.Floor(adjusted))
		floors[i] = base
		totalFloors += base

		if f := adjusted - float64(base); f > 0 {
			fractions = append(fractions, fractional{index: i, frac: f})
		}
	}

	sumScaled := 0.0
	for _, v := range scaled {
		sumScaled += v
	}

	var target int
	switch {
	case capLimit > 0 && scale < 1:
		target = capLimit
	case capLimit > 0:
		target = min(capLimit, int(math.Round(sumScaled)))
	default:
		target = int(math.Round(sumScaled))
	}

	if target < totalFloors {
		sort.Slice(fractions, func(i, j int) bool {
			if fractions[i].frac == fractions[j].frac {
				return fractions[i].index < fractions[j].index
			}
			return fractions[i].frac < fractions[j].frac
		})
		diff := totalFloors - target
		for k := 0; k < diff && k < len(fractions); k++ {
			if idx := fractions[k].index; floors[idx] > 0 {
				floors[idx]--
			}
		}
		totalFloors -= min(diff, len(fractions))
	}

	if totalFloors < target {
		remaining := target - totalFloors
		sort.Slice(fractions, func(i, j int) bool {
			if fractions[i].frac == fractions[j].frac {
				return fractions[i].index < fractions[j].index
			}
			return fractions[i].frac > fractions[j].frac
		})
		for k := 0; k < remaining && k < len(fractions); k++ {
			floors[fractions[k].index]++
		}
	}

	batches := make([]Batch, 0, len(specs))
	for i, s := range specs {
		if floors[i] <= 0 {
			continue
		}
		batches = append(batches, Batch{W: s.W, H: s.H, Count: floors[i]})
	}

	return batches
}
