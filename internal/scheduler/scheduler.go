// Package scheduler builds a weekly barista rota with a genetic algorithm.
package scheduler

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/utils"
)

type Scheduler struct {
	parameters   *Parameters
	baristas     []domain.Barista
	leave        []domain.LeaveRequest
	dates        []string
	demand       map[domain.Shift]int32
	availableMap map[string][]string // date -> barista IDs not on leave
	dayStarts    []int               // gene index where each date begins
	rng          *rand.Rand
}

func New(parameters *Parameters, baristas []domain.Barista, leave []domain.LeaveRequest, start time.Time, days int, demand map[domain.Shift]int32) (*Scheduler, error) {
	if len(baristas) == 0 {
		return nil, errors.New("no baristas to schedule")
	}
	if days <= 0 {
		return nil, errors.New("days must be positive")
	}
	if parameters.PopulationSize < 2 {
		return nil, errors.New("population size must be at least 2")
	}
	if parameters.EliteCount > parameters.PopulationSize {
		return nil, fmt.Errorf("elite count %d exceeds population size %d", parameters.EliteCount, parameters.PopulationSize)
	}

	seed := parameters.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Scheduler{
		parameters:   parameters,
		baristas:     baristas,
		leave:        leave,
		demand:       demand,
		availableMap: make(map[string][]string),
		rng:          rand.New(rand.NewSource(seed)),
	}

	slotsPerDay := 0
	for _, shift := range domain.WorkingShifts {
		if demand[shift] > 0 {
			slotsPerDay++
		}
	}

	for i := range days {
		date := start.AddDate(0, 0, i).Format(domain.DateLayout)
		s.dates = append(s.dates, date)
		s.dayStarts = append(s.dayStarts, i*slotsPerDay)

		for _, b := range baristas {
			if !onLeave(leave, b.ID, date) {
				s.availableMap[date] = append(s.availableMap[date], b.ID)
			}
		}
	}

	return s, nil
}

func onLeave(leave []domain.LeaveRequest, baristaID, date string) bool {
	for _, l := range leave {
		if l.BaristaID == baristaID && l.Covers(date) {
			return true
		}
	}
	return false
}

func (s *Scheduler) Schedule() ([]domain.Schedule, error) {
	pop := make([]*Chromosome, s.parameters.PopulationSize)
	for i := range pop {
		pop[i] = s.randomInitChromosome()
		s.calcFitness(pop[i])
	}

	best := &Chromosome{fitness: -math.MaxFloat64}

	for gen := 0; gen < int(s.parameters.MaxGenerations); gen++ {
		sort.Slice(pop, func(i, j int) bool {
			return pop[i].fitness > pop[j].fitness
		})

		if pop[0].fitness > best.fitness {
			best = pop[0].clone()
		}

		newPop := make([]*Chromosome, 0, s.parameters.PopulationSize)
		for _, elite := range pop[:s.parameters.EliteCount] {
			newPop = append(newPop, elite.clone())
		}

		for len(newPop) < int(s.parameters.PopulationSize) {
			p1 := s.selectByTournament(pop).clone()
			p2 := s.selectByTournament(pop).clone()

			if s.rng.Float64() < s.parameters.CrossoverRate {
				s.dayCrossover(p1, p2)
			}

			s.mutate(p1)
			s.mutate(p2)

			newPop = append(newPop, p1)
			if len(newPop) < int(s.parameters.PopulationSize) {
				newPop = append(newPop, p2)
			}
		}

		for i := range pop {
			pop[i] = newPop[i]
			s.calcFitness(pop[i])
		}
	}

	for _, ch := range pop {
		if ch.fitness > best.fitness {
			best = ch
		}
	}

	result := s.toSchedules(best)
	if err := utils.ValidateRota(result, s.leave); err != nil {
		return nil, err
	}
	return result, nil
}

// toSchedules emits one entry per barista and date, Off when unassigned.
func (s *Scheduler) toSchedules(ch *Chromosome) []domain.Schedule {
	assigned := make(map[string]map[string]domain.Shift) // date -> baristaID -> shift
	for _, g := range ch.genes {
		if assigned[g.date] == nil {
			assigned[g.date] = make(map[string]domain.Shift)
		}
		for _, id := range g.baristaIDs {
			assigned[g.date][id] = g.shift
		}
	}

	result := make([]domain.Schedule, 0, len(s.dates)*len(s.baristas))
	for _, date := range s.dates {
		for _, b := range s.baristas {
			shift, ok := assigned[date][b.ID]
			if !ok {
				shift = domain.ShiftOff
			}
			result = append(result, domain.Schedule{Date: date, BaristaID: b.ID, Shift: shift})
		}
	}
	return result
}
