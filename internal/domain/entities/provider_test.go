package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []Rating
		want    float64
	}{
		{"no ratings", nil, 0},
		{"empty ratings", []Rating{}, 0},
		{"single rating", []Rating{{Stars: 4}}, 4},
		{"mixed ratings", []Rating{{Stars: 5}, {Stars: 4}, {Stars: 2}}, 11.0 / 3.0},
		{"all ones", []Rating{{Stars: 1}, {Stars: 1}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Provider{Ratings: tt.ratings}
			assert.InDelta(t, tt.want, p.AverageRating(), 1e-9)
		})
	}
}

func TestHasCategory(t *testing.T) {
	p := &Provider{Categories: []string{"Coiffeur", "Esthéticienne"}}

	assert.True(t, p.HasCategory("Coiffeur"))
	assert.False(t, p.HasCategory("Plombier"))
	assert.False(t, (&Provider{}).HasCategory("Coiffeur"))
}

func TestServiceIsComplete(t *testing.T) {
	assert.True(t, Service{Name: "Coupe homme", Price: 25}.IsComplete())
	assert.False(t, Service{Name: "", Price: 25}.IsComplete())
	assert.False(t, Service{Name: "Coupe homme", Price: 0}.IsComplete())
	assert.False(t, Service{Name: "Coupe homme", Price: -5}.IsComplete())
}
