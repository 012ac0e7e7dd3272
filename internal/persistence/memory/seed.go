package memory

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"example.com/timewealth/internal/domain"
)

// SeedDays is how many days of history Seed generates, ending today.
const SeedDays = 30

type seedActivity struct {
	name   string
	values []domain.ValueName
}

var seedCatalog = []seedActivity{
	{"Family dinner", []domain.ValueName{"Family"}},
	{"Morning workout", []domain.ValueName{"Health"}},
	{"Team meeting", []domain.ValueName{"Career Growth"}},
	{"Reading", []domain.ValueName{"Learning"}},
	{"Project work", []domain.ValueName{"Career Growth", "Creativity"}},
	{"Meditation", []domain.ValueName{"Health"}},
	{"Online course", []domain.ValueName{"Learning", "Career Growth"}},
	{"Phone call with parents", []domain.ValueName{"Family"}},
	{"Writing", []domain.ValueName{"Creativity"}},
	{"Cooking", []domain.ValueName{"Health", "Creativity"}},
	{"Playing with kids", []domain.ValueName{"Family"}},
	{"Networking event", []domain.ValueName{"Career Growth"}},
	{"Doctor appointment", []domain.ValueName{"Health"}},
	{"Art project", []domain.ValueName{"Creativity"}},
	{"Research", []domain.ValueName{"Learning"}},
}

// SeedProfile is the demo profile installed by Seed.
func SeedProfile() *domain.ValueProfile {
	profile, err := domain.NewValueProfile(
		[]domain.ValueName{"Family", "Health", "Career Growth", "Learning", "Creativity", "Personal Growth"},
		map[domain.ValueName]float64{
			"Family": 100, "Health": 90, "Career Growth": 80,
			"Learning": 75, "Creativity": 70, "Personal Growth": 85,
		},
		map[domain.ValueName][]string{
			"Family":          {"Spending quality time with loved ones", "Supporting family members", "Creating lasting memories"},
			"Health":          {"Regular exercise", "Balanced nutrition", "Adequate rest", "Mental well-being"},
			"Career Growth":   {"Skill development", "Professional networking", "Taking on challenges"},
			"Learning":        {"Reading books", "Taking courses", "Exploring new topics"},
			"Creativity":      {"Artistic expression", "Problem-solving", "Innovation"},
			"Personal Growth": {"Self-reflection", "Setting goals", "Developing new habits"},
		},
	)
	if err != nil {
		panic(fmt.Sprintf("seed profile: %v", err))
	}
	return profile
}

// SeedActivities generates 2 to 9 activities per day for the SeedDays days
// ending on today. The same rng seed always yields the same history.
func SeedActivities(today time.Time, rng *rand.Rand) []domain.Activity {
	out := make([]domain.Activity, 0)
	for i := 0; i < SeedDays; i++ {
		day := today.AddDate(0, 0, -i)
		date := domain.FormatDate(day)
		count := rng.Intn(8) + 2

		for n := 0; n < count; n++ {
			pick := seedCatalog[rng.Intn(len(seedCatalog))]
			hour := 8 + (n*14)/count
			minute := rng.Intn(60)
			duration := rng.Intn(106) + 15

			endHour := hour + (minute+duration)/60
			if endHour > 23 {
				endHour = 23
			}
			end := fmt.Sprintf("%02d:%02d", endHour, (minute+duration)%60)

			out = append(out, domain.Activity{
				ID:        fmt.Sprintf("%s-%d", date, n),
				Name:      pick.name,
				StartTime: fmt.Sprintf("%02d:%02d", hour, minute),
				EndTime:   &end,
				Duration:  duration,
				Values:    append([]domain.ValueName{}, pick.values...),
				Date:      date,
			})
		}
	}
	return out
}

// Seed installs the demo profile and a generated activity history for userID.
func Seed(ctx context.Context, store domain.Store, userID string, today time.Time, seed int64) error {
	if err := store.SaveProfile(ctx, userID, *SeedProfile()); err != nil {
		return err
	}
	for _, a := range SeedActivities(today, rand.New(rand.NewSource(seed))) {
		if err := store.AddActivity(ctx, userID, a); err != nil {
			return err
		}
	}
	return nil
}
