package scheduler

import "github.com/kopimi-kafe/backend/internal/domain"

// Gene is the assignment for one (date, shift) slot.
type Gene struct {
	date        string
	shift       domain.Shift
	baristaIDs  []string
	requiredNum int32
}

// Chromosome is a whole rota.
type Chromosome struct {
	genes   []*Gene
	fitness float64
}

func (c *Chromosome) clone() *Chromosome {
	genes := make([]*Gene, len(c.genes))
	for i, g := range c.genes {
		genes[i] = &Gene{
			date:        g.date,
			shift:       g.shift,
			baristaIDs:  append([]string(nil), g.baristaIDs...),
			requiredNum: g.requiredNum,
		}
	}
	return &Chromosome{genes: genes, fitness: c.fitness}
}

// Parameters of the genetic search.
type Parameters struct {
	PopulationSize int32   `json:"populationSize" validate:"omitempty,min=2,max=500"`
	MaxGenerations int32   `json:"maxGenerations" validate:"omitempty,min=1,max=5000"`
	CrossoverRate  float64 `json:"crossoverRate" validate:"min=0,max=1"`
	MutationRate   float64 `json:"mutationRate" validate:"min=0,max=1"`
	EliteCount     int32   `json:"eliteCount" validate:"min=0"`
	FairnessWeight float64 `json:"fairnessWeight" validate:"min=0"`
	// Seed makes the search reproducible. Zero picks a random seed.
	Seed int64 `json:"seed"`
}

func DefaultParameters() *Parameters {
	return &Parameters{
		PopulationSize: 60,
		MaxGenerations: 200,
		CrossoverRate:  0.8,
		MutationRate:   0.05,
		EliteCount:     2,
		FairnessWeight: 0.5,
	}
}

// DefaultDemand is how many baristas each working shift needs.
func DefaultDemand() map[domain.Shift]int32 {
	return map[domain.Shift]int32{
		domain.ShiftMorning:   1,
		domain.ShiftAfternoon: 1,
		domain.ShiftNight:     1,
	}
}
