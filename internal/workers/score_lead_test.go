package workers

import (
	"testing"

	"github.com/reachly-dev/reachly/internal/models"
)

func TestScoreLead(t *testing.T) {
	tests := []struct {
		name string
		lead models.Lead
		want int
	}{
		{
			name: "bare email only",
			lead: models.Lead{Email: "someone@gmail.com"},
			want: 20,
		},
		{
			name: "work email adds points",
			lead: models.Lead{Email: "someone@acme-corp.com"},
			want: 35,
		},
		{
			name: "full contact with long message caps at 100",
			lead: models.Lead{
				Email:   "buyer@bigco.com",
				Name:    "Sam Buyer",
				Phone:   "+1 555 0100",
				Company: "BigCo",
				Message: "We are evaluating lead generation platforms for our sales team of forty people and would like a demo as soon as possible this quarter.",
			},
			want: 100,
		},
		{
			name: "short message gets partial credit",
			lead: models.Lead{Email: "x@gmail.com", Message: "demo please now ok"},
			want: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreLead(&tt.lead)
			if got != tt.want {
				t.Errorf("scoreLead = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreLeadDeterministic(t *testing.T) {
	lead := models.Lead{
		Email:   "buyer@startup.io",
		Name:    "Jo",
		Message: "Interested in the pro plan for our team.",
	}
	first := scoreLead(&lead)
	second := scoreLead(&lead)
	if first != second {
		t.Errorf("scores differ across runs: %d vs %d", first, second)
	}
}
