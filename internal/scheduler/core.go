package scheduler

import (
	"math"
	"slices"

	"github.com/kopimi-kafe/backend/internal/domain"
)

// randomInitChromosome fills every (date, shift) slot with a random set of
// baristas available that day. Nobody works two shifts on the same date.
func (s *Scheduler) randomInitChromosome() *Chromosome {
	var genes []*Gene

	for _, date := range s.dates {
		candidates := slices.Clone(s.availableMap[date])
		s.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		for _, shift := range domain.WorkingShifts {
			required := s.demand[shift]
			if required <= 0 {
				continue
			}

			chosenNum := min(int(required), len(candidates))
			genes = append(genes, &Gene{
				date:        date,
				shift:       shift,
				baristaIDs:  slices.Clone(candidates[:chosenNum]),
				requiredNum: required,
			})
			candidates = candidates[chosenNum:]
		}
	}

	return &Chromosome{genes: genes}
}

/**
 * fitness = - uncoveredPenalty - notWorkPenalty - FairnessWeight * variance
 *   uncoveredPenalty: seats left empty across all slots
 *   notWorkPenalty:   baristas with no shift at all this period
 *   variance:         spread of shift counts between baristas
 */
func (s *Scheduler) calcFitness(ch *Chromosome) {
	workCnt := make(map[string]float64, len(s.baristas))
	for _, b := range s.baristas {
		workCnt[b.ID] = 0
	}

	uncoveredPenalty := 0.0
	for _, gene := range ch.genes {
		uncoveredPenalty += float64(int(gene.requiredNum) - len(gene.baristaIDs))
		for _, id := range gene.baristaIDs {
			workCnt[id]++
		}
	}

	notWorkPenalty := 0.0
	avg := 0.0
	for _, cnt := range workCnt {
		if cnt == 0 {
			notWorkPenalty++
		}
		avg += cnt
	}
	avg /= float64(len(workCnt))

	variance := 0.0
	for _, cnt := range workCnt {
		variance += math.Pow(cnt-avg, 2)
	}
	variance /= float64(len(workCnt))

	ch.fitness = -uncoveredPenalty - notWorkPenalty - s.parameters.FairnessWeight*variance
}

// selectByTournament returns the fitter of two random individuals. Fitness is
// never positive, so roulette weights would not work here.
func (s *Scheduler) selectByTournament(pop []*Chromosome) *Chromosome {
	a := pop[s.rng.Intn(len(pop))]
	b := pop[s.rng.Intn(len(pop))]
	if a.fitness >= b.fitness {
		return a
	}
	return b
}

// dayCrossover swaps every gene from a random date onwards. Cutting on date
// boundaries keeps the one-shift-per-day rule intact.
func (s *Scheduler) dayCrossover(ch1, ch2 *Chromosome) {
	if len(ch1.genes) != len(ch2.genes) || len(s.dayStarts) == 0 {
		return
	}

	point := s.dayStarts[s.rng.Intn(len(s.dayStarts))]
	for i := point; i < len(ch1.genes); i++ {
		ch1.genes[i], ch2.genes[i] = ch2.genes[i], ch1.genes[i]
	}
}

// mutate swaps assigned baristas for someone free that day and fills empty
// seats when a free barista exists.
func (s *Scheduler) mutate(ch *Chromosome) {
	for i, gene := range ch.genes {
		if s.rng.Float64() > s.parameters.MutationRate {
			continue
		}

		free := s.freeOn(ch, gene.date)
		if len(free) == 0 {
			continue
		}

		if len(gene.baristaIDs) < int(gene.requiredNum) {
			pick := s.rng.Intn(len(free))
			ch.genes[i].baristaIDs = append(ch.genes[i].baristaIDs, free[pick])
			continue
		}

		for j := range gene.baristaIDs {
			if len(free) == 0 || s.rng.Float64() > s.parameters.MutationRate {
				continue
			}
			pick := s.rng.Intn(len(free))
			gene.baristaIDs[j], free[pick] = free[pick], gene.baristaIDs[j]
		}
	}
}

// freeOn lists baristas available on date who hold no shift that day.
func (s *Scheduler) freeOn(ch *Chromosome, date string) []string {
	busy := make(map[string]bool)
	for _, g := range ch.genes {
		if g.date != date {
			continue
		}
		for _, id := range g.baristaIDs {
			busy[id] = true
		}
	}

	var free []string
	for _, id := range s.availableMap[date] {
		if !busy[id] {
			free = append(free, id)
		}
	}
	return free
}
