package analysis

import (
	"sort"

	"github.com/desertthunder/harmony/internal/services"
)

// Count is a name with its number of occurrences.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Counter tallies names, remembering the order each was first seen.
type Counter struct {
	counts map[string]int
	order  []string
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

func (c *Counter) Add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *Counter) Len() int {
	return len(c.order)
}

// Top returns up to n entries by descending count. Ties keep first-seen order.
func (c *Counter) Top(n int) []Count {
	all := make([]Count, 0, len(c.order))
	for _, name := range c.order {
		all = append(all, Count{Name: name, Count: c.counts[name]})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Count > all[j].Count })

	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// Features holds averaged audio feature values.
type Features struct {
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
	Acousticness float64 `json:"acousticness"`
}

// Average returns the arithmetic mean of the non-nil values, or 0 when there are none.
func Average(values []*float64) float64 {
	var (
		sum float64
		n   int
	)
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// AverageFeatures averages each dimension independently. Missing values are excluded from that dimension only.
func AverageFeatures(features []*services.AudioFeatures) Features {
	column := func(pick func(*services.AudioFeatures) *float64) float64 {
		values := make([]*float64, 0, len(features))
		for _, f := range features {
			if f != nil {
				values = append(values, pick(f))
			}
		}
		return Average(values)
	}

	return Features{
		Danceability: column(func(f *services.AudioFeatures) *float64 { return f.Danceability }),
		Energy:       column(func(f *services.AudioFeatures) *float64 { return f.Energy }),
		Valence:      column(func(f *services.AudioFeatures) *float64 { return f.Valence }),
		Tempo:        column(func(f *services.AudioFeatures) *float64 { return f.Tempo }),
		Acousticness: column(func(f *services.AudioFeatures) *float64 { return f.Acousticness }),
	}
}

// Batches splits ids into consecutive chunks of at most size.
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		return nil
	}

	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}
